package csvio

import (
	"encoding/csv"
	"io"
)

type Writer struct {
	cw *csv.Writer
}

func NewWriter(w io.Writer, delimiter rune) *Writer {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	return &Writer{cw: cw}
}

func (w *Writer) WriteHeader(header []string) error {
	if header == nil {
		return nil
	}
	return w.cw.Write(header)
}

func (w *Writer) Write(record []string) error {
	return w.cw.Write(record)
}

// Flush writes buffered records and reports the first write error.
func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}
