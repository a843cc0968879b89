package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmrzaf/csvanon/internal/domain"
	"github.com/mmrzaf/csvanon/internal/validation"
)

var (
	safeEmail = domain.MustKind(domain.MajorInternet, domain.InternetSafeEmail)
	firstName = domain.MustKind(domain.MajorName, domain.NameFirst)
	loremWord = domain.MustKind(domain.MajorLorem, domain.LoremWord)
)

// countingCatalog returns "<kind>#<n>" so every call yields a distinct value.
type countingCatalog struct {
	calls int
}

func (c *countingCatalog) Produce(kind domain.Kind) (string, error) {
	c.calls++
	return fmt.Sprintf("%s#%d", kind, c.calls), nil
}

type sliceReader struct {
	records [][]string
	pos     int
	err     error
}

func (r *sliceReader) Read() ([]string, error) {
	if r.pos >= len(r.records) {
		if r.err != nil {
			return nil, r.err
		}
		return nil, io.EOF
	}
	rec := r.records[r.pos]
	r.pos++
	return rec, nil
}

type sliceWriter struct {
	records [][]string
}

func (w *sliceWriter) Write(record []string) error {
	w.records = append(w.records, record)
	return nil
}

func run(t *testing.T, e *Engine, records [][]string) ([][]string, *domain.RunStats, error) {
	t.Helper()
	w := &sliceWriter{}
	stats, err := e.Execute(context.Background(), &sliceReader{records: records}, w)
	return w.records, stats, err
}

func TestExecute_EndToEnd(t *testing.T) {
	cat := &countingCatalog{}
	e, err := NewEngine(cat, []domain.Directive{{Column: 1, Kind: safeEmail}}, Options{})
	require.NoError(t, err)

	out, stats, err := run(t, e, [][]string{
		{"1", "a@x.com", "NYC"},
		{"2", "b@y.com", "LA"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, []string{"1", "internet.safe_email#1", "NYC"}, out[0])
	assert.Equal(t, []string{"2", "internet.safe_email#2", "LA"}, out[1])
	assert.Equal(t, uint64(2), stats.Rows)
	assert.Equal(t, uint64(2), stats.Cells)
}

func TestExecute_MemoizedDuplicateValues(t *testing.T) {
	cat := &countingCatalog{}
	e, err := NewEngine(cat, []domain.Directive{{Column: 1, Kind: firstName}}, Options{Memoize: true})
	require.NoError(t, err)

	out, stats, err := run(t, e, [][]string{{"x", "A"}, {"y", "A"}, {"z", "B"}})
	require.NoError(t, err)

	assert.Equal(t, out[0][1], out[1][1])
	assert.NotEqual(t, out[0][1], out[2][1])
	assert.Equal(t, 2, cat.calls)
	assert.Equal(t, 2, e.Memo().Len())
	assert.Equal(t, uint64(3), stats.Cells)
}

func TestExecute_WithoutMemoEveryCellIsGenerated(t *testing.T) {
	cat := &countingCatalog{}
	e, err := NewEngine(cat, []domain.Directive{{Column: 1, Kind: firstName}}, Options{})
	require.NoError(t, err)

	out, _, err := run(t, e, [][]string{{"x", "A"}, {"y", "A"}})
	require.NoError(t, err)

	assert.NotEqual(t, out[0][1], out[1][1])
	assert.Equal(t, 2, cat.calls)
	assert.Nil(t, e.Memo())
}

func TestTransform_MemoKeyIsValueAcrossColumns(t *testing.T) {
	ds := []domain.Directive{{Column: 0, Kind: firstName}, {Column: 1, Kind: loremWord}}

	e, err := NewEngine(&countingCatalog{}, ds, Options{Memoize: true})
	require.NoError(t, err)
	out, err := e.Transform([]string{"A", "A"})
	require.NoError(t, err)
	assert.Equal(t, out[0], out[1], "value-scoped memo shares replacements across columns")

	e, err = NewEngine(&countingCatalog{}, ds, Options{Memoize: true, MemoScope: domain.MemoScopeKind})
	require.NoError(t, err)
	out, err = e.Transform([]string{"A", "A"})
	require.NoError(t, err)
	assert.NotEqual(t, out[0], out[1])
}

func TestTransform_PreservesUntouchedColumns(t *testing.T) {
	ds := []domain.Directive{{Column: 4, Kind: loremWord}, {Column: 0, Kind: loremWord}, {Column: 2, Kind: loremWord}}
	e, err := NewEngine(&countingCatalog{}, ds, Options{})
	require.NoError(t, err)

	for width := 5; width <= 9; width++ {
		in := make([]string, width)
		for i := range in {
			in[i] = fmt.Sprintf(" cell,%d \"q\" ", i)
		}
		out, err := e.Transform(in)
		require.NoError(t, err)
		require.Len(t, out, width)
		for i := range in {
			switch i {
			case 0, 2, 4:
				assert.NotEqual(t, in[i], out[i])
				assert.Contains(t, out[i], "lorem.word#")
			default:
				assert.Equal(t, in[i], out[i])
			}
		}
	}
}

func TestTransform_UnsortedDirectivesKeepColumnOrder(t *testing.T) {
	cat := &countingCatalog{}
	e, err := NewEngine(cat, []domain.Directive{{Column: 2, Kind: loremWord}, {Column: 0, Kind: firstName}}, Options{})
	require.NoError(t, err)

	out, err := e.Transform([]string{"a", "b", "c", "d"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name.first_name#1", "b", "lorem.word#2", "d"}, out)
	assert.Equal(t, 0, e.Directives()[0].Column)
}

func TestExecute_RangeFailureStopsAtFirstNarrowRow(t *testing.T) {
	cat := &countingCatalog{}
	e, err := NewEngine(cat, []domain.Directive{{Column: 0, Kind: loremWord}, {Column: 2, Kind: loremWord}}, Options{})
	require.NoError(t, err)

	src := &sliceReader{records: [][]string{
		{"a", "b", "c"},
		{"d", "e"},
		{"f", "g", "h"},
	}}
	w := &sliceWriter{}
	stats, err := e.Execute(context.Background(), src, w)

	var rangeErr *ColumnRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 2, rangeErr.Column)
	assert.Equal(t, 2, rangeErr.Width)
	assert.Equal(t, uint64(2), rangeErr.Row)
	assert.Equal(t, "invalid column index 2 - row 2 has only 2 columns", err.Error())

	assert.Len(t, w.records, 1)
	assert.Equal(t, 2, src.pos, "third record must not be read")
	assert.Equal(t, uint64(2), stats.Rows)
	assert.Equal(t, uint64(2), stats.Cells)
	assert.Equal(t, 2, cat.calls, "no generation for the failing row")
}

func TestNewEngine_RejectsDuplicates(t *testing.T) {
	_, err := NewEngine(&countingCatalog{}, []domain.Directive{
		{Column: 2, Kind: loremWord},
		{Column: 2, Kind: firstName},
		{Column: 1, Kind: firstName},
	}, Options{})

	var dup *validation.DuplicateColumnsError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, 1, dup.Count)

	_, err = NewEngine(nil, nil, Options{})
	assert.Error(t, err)
}

func TestExecute_CatalogFailureAborts(t *testing.T) {
	boom := errors.New("boom")
	cat := CatalogFunc(func(domain.Kind) (string, error) { return "", boom })
	e, err := NewEngine(cat, []domain.Directive{{Column: 0, Kind: loremWord}}, Options{Memoize: true})
	require.NoError(t, err)

	out, stats, err := run(t, e, [][]string{{"a"}, {"b"}})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "row 1: generate lorem.word for column 0")
	assert.Empty(t, out)
	assert.Equal(t, uint64(0), stats.Cells)
	assert.Equal(t, 0, e.Memo().Len())
}

func TestExecute_LaterDirectiveFailureCountsNoCells(t *testing.T) {
	boom := errors.New("boom")
	cat := CatalogFunc(func(kind domain.Kind) (string, error) {
		if kind == firstName {
			return "", boom
		}
		return "word", nil
	})
	e, err := NewEngine(cat, []domain.Directive{{Column: 0, Kind: loremWord}, {Column: 1, Kind: firstName}}, Options{})
	require.NoError(t, err)

	out, stats, err := run(t, e, [][]string{{"a", "b"}})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "row 1: generate name.first_name for column 1")
	assert.Empty(t, out)
	assert.Equal(t, uint64(1), stats.Rows)
	assert.Equal(t, uint64(0), stats.Cells)
}

func TestExecute_NoDirectivesCopiesRecords(t *testing.T) {
	cat := &countingCatalog{}
	e, err := NewEngine(cat, nil, Options{Memoize: true})
	require.NoError(t, err)

	records := [][]string{{"a", "b"}, {}, {"c"}}
	out, stats, err := run(t, e, records)
	require.NoError(t, err)
	assert.Equal(t, records, out)
	assert.Equal(t, uint64(3), stats.Rows)
	assert.Equal(t, uint64(0), stats.Cells)
	assert.Equal(t, 0, cat.calls)
}

func TestExecute_StreamErrorIsReturnedAsIs(t *testing.T) {
	readErr := errors.New("bare quote in field")
	e, err := NewEngine(&countingCatalog{}, []domain.Directive{{Column: 0, Kind: loremWord}}, Options{})
	require.NoError(t, err)

	w := &sliceWriter{}
	stats, err := e.Execute(context.Background(), &sliceReader{records: [][]string{{"a"}}, err: readErr}, w)
	assert.Same(t, readErr, err)
	assert.Len(t, w.records, 1)
	assert.Equal(t, uint64(1), stats.Rows)
}

func TestExecute_ContextCancelled(t *testing.T) {
	e, err := NewEngine(&countingCatalog{}, []domain.Directive{{Column: 0, Kind: loremWord}}, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Execute(ctx, &sliceReader{records: [][]string{{"a"}}}, &sliceWriter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Reset(t *testing.T) {
	e, err := NewEngine(&countingCatalog{}, []domain.Directive{{Column: 0, Kind: loremWord}}, Options{Memoize: true})
	require.NoError(t, err)

	_, err = e.Transform([]string{"a"})
	require.NoError(t, err)
	e.Reset()

	assert.Equal(t, domain.RunStats{}, e.Stats())
	assert.Equal(t, 0, e.Memo().Len())
}
