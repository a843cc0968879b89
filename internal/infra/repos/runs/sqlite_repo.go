package runs

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/csvanon/internal/domain"
)

type SQLiteRepository struct {
	dbPath string
	db     *sql.DB
}

func NewSQLiteRepository(dbPath string) *SQLiteRepository {
	return &SQLiteRepository{dbPath: dbPath}
}

func (r *SQLiteRepository) Init() error {
	if dir := filepath.Dir(r.dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	db, err := sql.Open("sqlite3", r.dbPath)
	if err != nil {
		return err
	}
	r.db = db

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		sink TEXT NOT NULL,
		profile_id TEXT,
		directives TEXT NOT NULL,
		delimiter TEXT NOT NULL,
		header INTEGER NOT NULL,
		memoize INTEGER NOT NULL,
		memo_scope TEXT,
		seed INTEGER NOT NULL,
		config_hash TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP,
		stats TEXT,
		error TEXT
	)`

	if _, err = r.db.Exec(createTableSQL); err != nil {
		return err
	}
	_, err = r.db.Exec(`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`)
	return err
}

func (r *SQLiteRepository) DB() *sql.DB { return r.db }

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func (r *SQLiteRepository) Create(run *domain.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	directives, err := encodeDirectives(run)
	if err != nil {
		return err
	}

	var completedAt interface{}
	if run.CompletedAt != nil {
		completedAt = formatTime(*run.CompletedAt)
	}

	query := `
		INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID, run.Source, run.Sink, run.ProfileID, directives, run.Delimiter, run.Header,
		run.Memoize, string(run.MemoScope), run.Seed, run.ConfigHash, run.Status,
		formatTime(run.StartedAt), completedAt, encodeStats(run), run.Error,
	)
	return err
}

func (r *SQLiteRepository) Update(run *domain.Run) error {
	var completedAt interface{}
	if run.CompletedAt != nil {
		completedAt = formatTime(*run.CompletedAt)
	}

	query := `
		UPDATE runs SET
			status = ?, completed_at = ?, stats = ?, error = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query, run.Status, completedAt, encodeStats(run), run.Error, run.ID)
	return err
}

func scanSQLiteRun(row rowScanner) (*domain.Run, error) {
	var run domain.Run
	var startedAtStr string
	var completedAtStr sql.NullString
	var profileID, memoScope, directives, statsStr, errorStr sql.NullString

	err := row.Scan(
		&run.ID, &run.Source, &run.Sink, &profileID, &directives, &run.Delimiter, &run.Header,
		&run.Memoize, &memoScope, &run.Seed, &run.ConfigHash, &run.Status,
		&startedAtStr, &completedAtStr, &statsStr, &errorStr,
	)
	if err != nil {
		return nil, err
	}

	run.StartedAt, _ = time.Parse(time.RFC3339, startedAtStr)
	if completedAtStr.Valid {
		t, _ := time.Parse(time.RFC3339, completedAtStr.String)
		run.CompletedAt = &t
	}
	if err := decodeNullable(&run, profileID, memoScope, directives, statsStr, errorStr); err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *SQLiteRepository) Get(id string) (*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	return scanSQLiteRun(r.db.QueryRow(query, id))
}

func (r *SQLiteRepository) List(limit int, status string, since time.Time) ([]*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE 1 = 1`

	args := make([]interface{}, 0)
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	if !since.IsZero() {
		query += " AND started_at >= ?"
		args = append(args, formatTime(since))
	}

	query += " ORDER BY started_at DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0)
	for rows.Next() {
		run, err := scanSQLiteRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
