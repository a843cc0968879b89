package runs

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/mmrzaf/csvanon/internal/domain"
)

// Repository stores run metadata and statistics.
type Repository interface {
	Init() error
	Create(run *domain.Run) error
	Update(run *domain.Run) error
	Get(id string) (*domain.Run, error)
	// List returns runs newest first. A zero since disables the time filter.
	List(limit int, status string, since time.Time) ([]*domain.Run, error)
	Close() error
}

// NewRepository picks Postgres for postgres:// and postgresql:// DSNs and
// treats anything else as a SQLite file path.
func NewRepository(dsn string) Repository {
	dsn = strings.TrimSpace(dsn)
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return NewPostgresRepository(dsn)
	}
	return NewSQLiteRepository(dsn)
}

const runColumns = `id, source, sink, profile_id, directives, delimiter, header,
	memoize, memo_scope, seed, config_hash, status, started_at, completed_at, stats, error`

type rowScanner interface {
	Scan(dest ...any) error
}

func encodeDirectives(run *domain.Run) (string, error) {
	list := run.Directives
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeStats(run *domain.Run) sql.NullString {
	if len(run.Stats) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(run.Stats), Valid: true}
}

func decodeNullable(run *domain.Run, profileID, memoScope, directives, stats, errStr sql.NullString) error {
	if profileID.Valid {
		run.ProfileID = profileID.String
	}
	if memoScope.Valid {
		run.MemoScope = domain.MemoScope(memoScope.String)
	}
	if directives.Valid && directives.String != "" {
		if err := json.Unmarshal([]byte(directives.String), &run.Directives); err != nil {
			return err
		}
	}
	if stats.Valid {
		run.Stats = json.RawMessage(stats.String)
	}
	if errStr.Valid {
		run.Error = errStr.String
	}
	return nil
}
