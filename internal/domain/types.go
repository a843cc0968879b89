package domain

import (
	"encoding/json"
	"time"
)

// Profile is a named, file-backed rewrite configuration.
type Profile struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Delimiter   string    `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	Header      bool      `json:"header,omitempty" yaml:"header,omitempty"`
	Memoize     bool      `json:"memoize,omitempty" yaml:"memoize,omitempty"`
	MemoScope   MemoScope `json:"memo_scope,omitempty" yaml:"memo_scope,omitempty"`
	Seed        *int64    `json:"seed,omitempty" yaml:"seed,omitempty"`
	Directives  []string  `json:"directives" yaml:"directives"`
}

// MemoScope decides what a memoized replacement is keyed by.
type MemoScope string

const (
	// MemoScopeValue keys by the original cell value only, so equal values in
	// different columns share one replacement.
	MemoScopeValue MemoScope = "value"
	// MemoScopeKind keys by generator kind and original value.
	MemoScopeKind MemoScope = "kind"
)

type Run struct {
	ID          string          `json:"id" yaml:"id"`
	Source      string          `json:"source" yaml:"source"`
	Sink        string          `json:"sink" yaml:"sink"`
	ProfileID   string          `json:"profile_id,omitempty" yaml:"profile_id,omitempty"`
	Directives  []string        `json:"directives" yaml:"directives"`
	Delimiter   string          `json:"delimiter" yaml:"delimiter"`
	Header      bool            `json:"header" yaml:"header"`
	Memoize     bool            `json:"memoize" yaml:"memoize"`
	MemoScope   MemoScope       `json:"memo_scope,omitempty" yaml:"memo_scope,omitempty"`
	Seed        int64           `json:"seed" yaml:"seed"`
	ConfigHash  string          `json:"config_hash" yaml:"config_hash"`
	Status      RunStatus       `json:"status" yaml:"status"`
	StartedAt   time.Time       `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Stats       json.RawMessage `json:"stats,omitempty" yaml:"-"`
	Error       string          `json:"error,omitempty" yaml:"error,omitempty"`
}

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// RunStats accumulates over one run. Rows counts every decoded record, Cells
// counts every replacement actually emitted.
type RunStats struct {
	Rows            uint64  `json:"rows" yaml:"rows"`
	Cells           uint64  `json:"cells" yaml:"cells"`
	DurationSeconds float64 `json:"duration_seconds" yaml:"duration_seconds"`
}

// RunRequest describes one anonymization run. Explicit fields override the
// profile. Without directives records are copied through unchanged.
type RunRequest struct {
	ProfileID  string    `json:"profile_id,omitempty"`
	Directives []string  `json:"directives,omitempty"`
	Source     string    `json:"source,omitempty"`
	Delimiter  string    `json:"delimiter,omitempty"`
	Header     *bool     `json:"header,omitempty"`
	Memoize    *bool     `json:"memoize,omitempty"`
	MemoScope  MemoScope `json:"memo_scope,omitempty"`
	Seed       *int64    `json:"seed,omitempty"`
	SQLiteOut  string    `json:"sqlite_out,omitempty"`
	Table      string    `json:"table,omitempty"`
}
