package runs

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/mmrzaf/csvanon/internal/domain"
)

type PostgresRepository struct {
	dsn string
	db  *sql.DB
}

func NewPostgresRepository(dsn string) *PostgresRepository {
	return &PostgresRepository{dsn: strings.TrimSpace(dsn)}
}

func (r *PostgresRepository) Init() error {
	if r.dsn == "" {
		return fmt.Errorf("runs db dsn is required")
	}
	db, err := sql.Open("postgres", r.dsn)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return err
	}
	r.db = db
	return r.applyMigrations()
}

func (r *PostgresRepository) DB() *sql.DB { return r.db }

type migration struct {
	v  int
	up func(*sql.DB) error
}

var postgresMigrations = []migration{
	{1, migrateV1RunsPG},
	{2, migrateV2RunsIndexPG},
}

func (r *PostgresRepository) applyMigrations() error {
	if _, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`); err != nil {
		return err
	}
	var cur int
	if err := r.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&cur); err != nil {
		return err
	}

	for _, m := range postgresMigrations {
		if cur >= m.v {
			continue
		}
		if err := m.up(r.db); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.v, err)
		}
		if _, err := r.db.Exec(`INSERT INTO schema_migrations(version) VALUES ($1)`, m.v); err != nil {
			return err
		}
		cur = m.v
	}
	return nil
}

func migrateV1RunsPG(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		sink TEXT NOT NULL,
		profile_id TEXT,
		directives TEXT NOT NULL,
		delimiter TEXT NOT NULL,
		header BOOLEAN NOT NULL,
		memoize BOOLEAN NOT NULL,
		memo_scope TEXT,
		seed BIGINT NOT NULL,
		config_hash TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		stats TEXT,
		error TEXT
	)`)
	return err
}

func migrateV2RunsIndexPG(db *sql.DB) error {
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_runs_status_started ON runs(status, started_at DESC)`)
	return err
}

func (r *PostgresRepository) Create(run *domain.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	directives, err := encodeDirectives(run)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
	INSERT INTO runs (`+runColumns+`)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		run.ID, run.Source, run.Sink, run.ProfileID, directives, run.Delimiter, run.Header,
		run.Memoize, string(run.MemoScope), run.Seed, run.ConfigHash, string(run.Status),
		run.StartedAt, run.CompletedAt, encodeStats(run), run.Error,
	)
	return err
}

func (r *PostgresRepository) Update(run *domain.Run) error {
	_, err := r.db.Exec(`
	UPDATE runs SET
		status = $1, completed_at = $2, stats = $3, error = $4
	WHERE id = $5`,
		string(run.Status), run.CompletedAt, encodeStats(run), run.Error, run.ID,
	)
	return err
}

func scanPostgresRun(row rowScanner) (*domain.Run, error) {
	var run domain.Run
	var completedAt sql.NullTime
	var profileID, memoScope, directives, statsStr, errStr sql.NullString

	if err := row.Scan(
		&run.ID, &run.Source, &run.Sink, &profileID, &directives, &run.Delimiter, &run.Header,
		&run.Memoize, &memoScope, &run.Seed, &run.ConfigHash, &run.Status,
		&run.StartedAt, &completedAt, &statsStr, &errStr,
	); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	if err := decodeNullable(&run, profileID, memoScope, directives, statsStr, errStr); err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *PostgresRepository) Get(id string) (*domain.Run, error) {
	return scanPostgresRun(r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = $1`, id))
}

func (r *PostgresRepository) List(limit int, status string, since time.Time) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + runColumns + ` FROM runs WHERE 1 = 1`
	args := make([]interface{}, 0, 3)
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !since.IsZero() {
		args = append(args, since)
		query += fmt.Sprintf(" AND started_at >= $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY started_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Run
	for rows.Next() {
		run, err := scanPostgresRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
