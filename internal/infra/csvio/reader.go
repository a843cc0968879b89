// Package csvio decodes and encodes delimited text for the rewrite engine.
//
// Rows may vary in width. When the header option is on, the first record is
// read up front and exposed through Header; it never reaches the engine.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\uFEFF"

type Options struct {
	Delimiter rune
	Header    bool
	// TrimBOM drops a UTF-8 byte order mark from the first cell of the
	// first record.
	TrimBOM bool
}

type Reader struct {
	cr      *csv.Reader
	header  []string
	trimBOM bool
	first   bool
}

// NewReader reads the header row immediately when opts.Header is set. An
// input without any record yields an empty header and then io.EOF.
func NewReader(r io.Reader, opts Options) (*Reader, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1

	rd := &Reader{cr: cr, trimBOM: opts.TrimBOM, first: true}
	if !opts.Header {
		return rd, nil
	}

	h, err := rd.Read()
	if err == io.EOF {
		return rd, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	rd.header = h
	return rd, nil
}

// Header is nil when the reader was built without the header option.
func (r *Reader) Header() []string {
	return r.header
}

func (r *Reader) Read() ([]string, error) {
	rec, err := r.cr.Read()
	if err != nil {
		return nil, err
	}
	if r.first {
		r.first = false
		if r.trimBOM && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], utf8BOM)
		}
	}
	return rec, nil
}
