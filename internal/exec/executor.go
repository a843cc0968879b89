package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mmrzaf/csvanon/internal/domain"
	"github.com/mmrzaf/csvanon/internal/validation"
)

// Catalog produces a fresh value for a generator kind.
type Catalog interface {
	Produce(kind domain.Kind) (string, error)
}

// CatalogFunc adapts a function to Catalog.
type CatalogFunc func(kind domain.Kind) (string, error)

func (f CatalogFunc) Produce(kind domain.Kind) (string, error) { return f(kind) }

// RecordReader returns io.EOF after the last record.
type RecordReader interface {
	Read() ([]string, error)
}

type RecordWriter interface {
	Write(record []string) error
}

type Options struct {
	Memoize   bool
	MemoScope domain.MemoScope
}

// Engine rewrites records column by column. One Engine serves one run and is
// not safe for concurrent use.
type Engine struct {
	catalog    Catalog
	directives []domain.Directive
	memo       *Memo
	stats      domain.RunStats
}

// NewEngine validates directives and keeps a copy sorted by column, so
// replacements are spliced left to right whatever order they were given in.
func NewEngine(catalog Catalog, directives []domain.Directive, opts Options) (*Engine, error) {
	if catalog == nil {
		return nil, errors.New("engine requires a generator catalog")
	}
	if err := validation.ValidateDirectives(directives); err != nil {
		return nil, err
	}

	sorted := make([]domain.Directive, len(directives))
	copy(sorted, directives)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Column < sorted[j].Column })

	e := &Engine{catalog: catalog, directives: sorted}
	if opts.Memoize {
		e.memo = NewMemo(opts.MemoScope)
	}
	return e, nil
}

// Directives returns the sorted directive set.
func (e *Engine) Directives() []domain.Directive {
	out := make([]domain.Directive, len(e.directives))
	copy(out, e.directives)
	return out
}

func (e *Engine) Stats() domain.RunStats { return e.stats }

// Memo returns nil when memoization is off.
func (e *Engine) Memo() *Memo { return e.memo }

// Reset clears statistics and the memo.
func (e *Engine) Reset() {
	e.stats = domain.RunStats{}
	if e.memo != nil {
		e.memo.Clear()
	}
}

// Transform returns a record of the same width where every targeted column
// holds a generated value and every other cell is copied as is.
func (e *Engine) Transform(record []string) ([]string, error) {
	e.stats.Rows++
	row := e.stats.Rows

	// Directives are sorted, so the first one past the row end is the
	// smallest offending column.
	for _, d := range e.directives {
		if d.Column >= len(record) {
			return nil, &ColumnRangeError{Column: d.Column, Width: len(record), Row: row}
		}
	}

	out := make([]string, 0, len(record))
	cursor := 0
	var cells uint64
	for _, d := range e.directives {
		out = append(out, record[cursor:d.Column]...)
		v, err := e.replacement(d.Kind, record[d.Column])
		if err != nil {
			return nil, fmt.Errorf("row %d: generate %s for column %d: %w", row, d.Kind, d.Column, err)
		}
		out = append(out, v)
		cells++
		cursor = d.Column + 1
	}
	out = append(out, record[cursor:]...)
	e.stats.Cells += cells
	return out, nil
}

func (e *Engine) replacement(kind domain.Kind, original string) (string, error) {
	if e.memo == nil {
		return e.catalog.Produce(kind)
	}
	if v, ok := e.memo.Lookup(kind, original); ok {
		return v, nil
	}
	v, err := e.catalog.Produce(kind)
	if err != nil {
		return "", err
	}
	e.memo.Store(kind, original, v)
	return v, nil
}

// Execute streams src through Transform into dst until io.EOF or the first
// error. Records written before a failure stay written. The returned stats
// are valid on both paths.
func (e *Engine) Execute(ctx context.Context, src RecordReader, dst RecordWriter) (*domain.RunStats, error) {
	started := time.Now()
	snapshot := func() *domain.RunStats {
		s := e.stats
		s.DurationSeconds = time.Since(started).Seconds()
		return &s
	}

	for {
		if err := ctx.Err(); err != nil {
			return snapshot(), err
		}

		record, err := src.Read()
		if errors.Is(err, io.EOF) {
			return snapshot(), nil
		}
		if err != nil {
			return snapshot(), err
		}

		out, err := e.Transform(record)
		if err != nil {
			return snapshot(), err
		}
		if err := dst.Write(out); err != nil {
			return snapshot(), err
		}
	}
}
