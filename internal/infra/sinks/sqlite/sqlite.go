// Package sqlite stores anonymized records in a SQLite table instead of a
// delimited output stream.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/csvanon/internal/validation"
)

const defaultBatchSize = 1000

type SQLiteSink struct {
	path      string
	table     string
	batchSize int

	db      *sql.DB
	header  []string
	columns []string
	batch   [][]string
}

func NewSQLiteSink(path, table string) *SQLiteSink {
	return &SQLiteSink{path: path, table: table, batchSize: defaultBatchSize}
}

func (s *SQLiteSink) Connect() error {
	if !validation.IsValidIdentifier(s.table) {
		return fmt.Errorf("invalid table identifier: %s", s.table)
	}
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

// WriteHeader names the table columns after the header cells. Cells that
// are not safe identifiers fall back to col_<index>.
func (s *SQLiteSink) WriteHeader(header []string) error {
	s.header = header
	return nil
}

func (s *SQLiteSink) Write(record []string) error {
	if s.db == nil {
		return errors.New("sqlite sink is not connected")
	}
	if s.columns == nil {
		width := len(record)
		if len(s.header) > width {
			width = len(s.header)
		}
		if err := s.createTableIfNotExists(width); err != nil {
			return err
		}
	}
	if len(record) > len(s.columns) {
		return fmt.Errorf("record has %d columns, table %s has %d", len(record), s.table, len(s.columns))
	}
	s.batch = append(s.batch, record)
	if len(s.batch) >= s.batchSize {
		return s.Flush()
	}
	return nil
}

func columnNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]bool, width)
	for i := range names {
		name := fmt.Sprintf("col_%d", i)
		if i < len(header) {
			h := strings.TrimSpace(header[i])
			if validation.IsValidIdentifier(h) && !seen[strings.ToLower(h)] {
				name = h
			}
		}
		seen[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

// createTableIfNotExists fixes the insert columns. An existing table keeps
// its own columns, filled positionally.
func (s *SQLiteSink) createTableIfNotExists(width int) error {
	existing, err := s.existingColumns()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.columns = existing
		return nil
	}
	s.columns = columnNames(s.header, width)

	columnDefs := make([]string, len(s.columns))
	for i, col := range s.columns {
		columnDefs[i] = fmt.Sprintf("%q TEXT", col)
	}
	createSQL := fmt.Sprintf("CREATE TABLE %q (%s)", s.table, strings.Join(columnDefs, ", "))
	_, err = s.db.Exec(createSQL)
	return err
}

func (s *SQLiteSink) existingColumns() ([]string, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%q)", s.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// Flush inserts buffered records in one transaction. Short records leave
// their trailing columns NULL.
func (s *SQLiteSink) Flush() error {
	if len(s.batch) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	quoted := make([]string, len(s.columns))
	placeholders := make([]string, len(s.columns))
	for i, col := range s.columns {
		quoted[i] = fmt.Sprintf("%q", col)
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		s.table, strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range s.batch {
		args := make([]interface{}, len(s.columns))
		for i, v := range rec {
			args[i] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.batch = s.batch[:0]
	return nil
}

// Close flushes pending records before closing the database. A header-only
// input still gets its table.
func (s *SQLiteSink) Close() error {
	if s.db == nil {
		return nil
	}
	var flushErr error
	if s.columns == nil && len(s.header) > 0 {
		flushErr = s.createTableIfNotExists(len(s.header))
	}
	if flushErr == nil {
		flushErr = s.Flush()
	}
	closeErr := s.db.Close()
	s.db = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
