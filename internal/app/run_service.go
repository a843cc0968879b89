package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mmrzaf/csvanon/internal/domain"
	"github.com/mmrzaf/csvanon/internal/exec"
	"github.com/mmrzaf/csvanon/internal/hashing"
	"github.com/mmrzaf/csvanon/internal/infra/csvio"
	"github.com/mmrzaf/csvanon/internal/infra/repos/profiles"
	"github.com/mmrzaf/csvanon/internal/infra/repos/runs"
	"github.com/mmrzaf/csvanon/internal/infra/sinks/sqlite"
	"github.com/mmrzaf/csvanon/internal/logging"
	"github.com/mmrzaf/csvanon/internal/registry"
	"github.com/mmrzaf/csvanon/internal/validation"
)

var (
	// ErrInvalidRequest marks failures detected before any input is read.
	ErrInvalidRequest = errors.New("invalid run request")
	// ErrHistoryDisabled is returned by run queries when no runs database is
	// configured.
	ErrHistoryDisabled = errors.New("run history is not configured")
)

type RunService struct {
	profileRepo profiles.Repository
	runRepo     runs.Repository
	validator   *validation.Validator
	logger      *logging.Logger
}

// NewRunService accepts a nil runRepo, in which case runs are not recorded.
func NewRunService(profileRepo profiles.Repository, runRepo runs.Repository, logger *logging.Logger) *RunService {
	return &RunService{
		profileRepo: profileRepo,
		runRepo:     runRepo,
		validator:   validation.NewValidator(registry.DefaultGeneratorRegistry(0)),
		logger:      logger.WithComponent("run_service"),
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}

// recordWriter is what the engine writes into, plus the header and teardown
// steps both sinks share.
type recordWriter interface {
	exec.RecordWriter
	WriteHeader(header []string) error
	Flush() error
}

type csvSink struct{ *csvio.Writer }

func (c csvSink) Close() error { return c.Flush() }

type sink interface {
	recordWriter
	Close() error
}

// Anonymize rewrites the CSV read from in according to req and writes the
// result to out, or to a SQLite table when req.SQLiteOut is set. The returned
// run carries statistics even when err is non-nil, unless the request was
// rejected before streaming started.
func (s *RunService) Anonymize(ctx context.Context, req *domain.RunRequest, in io.Reader, out io.Writer) (*domain.Run, error) {
	if err := s.validator.ValidateRunRequest(req); err != nil {
		return nil, invalid(err)
	}

	var profile *domain.Profile
	if req.ProfileID != "" {
		if s.profileRepo == nil {
			return nil, fmt.Errorf("%w: %s", profiles.ErrNotFound, req.ProfileID)
		}
		p, err := s.profileRepo.Get(req.ProfileID)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = p
	}

	cfg, err := resolveSettings(req, profile)
	if err != nil {
		return nil, invalid(err)
	}
	directives, err := s.validator.ParseAndValidate(cfg.directives)
	if err != nil {
		return nil, invalid(err)
	}

	configHash, err := hashing.HashRunConfig(hashing.RunConfig{
		Directives: directives,
		Delimiter:  cfg.delimiter,
		Header:     cfg.header,
		Memoize:    cfg.memoize,
		MemoScope:  cfg.memoScope,
		Seed:       cfg.seed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to hash run config: %w", err)
	}

	run := &domain.Run{
		Source:     sourceName(req.Source),
		Sink:       sinkName(req),
		ProfileID:  cfg.profileID,
		Directives: directiveStrings(directives),
		Delimiter:  cfg.delimStr,
		Header:     cfg.header,
		Memoize:    cfg.memoize,
		MemoScope:  cfg.memoScope,
		Seed:       cfg.seed,
		ConfigHash: configHash,
		Status:     domain.RunStatusRunning,
		StartedAt:  time.Now().UTC(),
	}
	if s.runRepo != nil {
		if err := s.runRepo.Create(run); err != nil {
			return nil, fmt.Errorf("failed to create run: %w", err)
		}
	}

	s.logger.Infow("run.started", map[string]any{
		"run_id":      run.ID,
		"source":      run.Source,
		"sink":        run.Sink,
		"directives":  len(directives),
		"memoize":     cfg.memoize,
		"config_hash": configHash,
	})

	stats, err := s.stream(ctx, req, cfg, directives, in, out)
	s.finish(run, stats, err)
	if err != nil {
		return run, err
	}
	return run, nil
}

func (s *RunService) stream(ctx context.Context, req *domain.RunRequest, cfg *settings, directives []domain.Directive, in io.Reader, out io.Writer) (*domain.RunStats, error) {
	reader, err := csvio.NewReader(in, csvio.Options{Delimiter: cfg.delimiter, Header: cfg.header, TrimBOM: true})
	if err != nil {
		return nil, err
	}

	var dst sink
	if req.SQLiteOut != "" {
		sq := sqlite.NewSQLiteSink(req.SQLiteOut, req.Table)
		if err := sq.Connect(); err != nil {
			return nil, fmt.Errorf("failed to open sqlite sink: %w", err)
		}
		dst = sq
	} else {
		dst = csvSink{csvio.NewWriter(out, cfg.delimiter)}
	}

	if err := dst.WriteHeader(reader.Header()); err != nil {
		_ = dst.Close()
		return nil, err
	}

	engine, err := exec.NewEngine(registry.DefaultGeneratorRegistry(cfg.seed), directives, exec.Options{
		Memoize:   cfg.memoize,
		MemoScope: cfg.memoScope,
	})
	if err != nil {
		_ = dst.Close()
		return nil, err
	}

	stats, runErr := engine.Execute(ctx, reader, dst)
	if closeErr := dst.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	return stats, runErr
}

func (s *RunService) finish(run *domain.Run, stats *domain.RunStats, runErr error) {
	now := time.Now().UTC()
	run.CompletedAt = &now
	if stats == nil {
		stats = &domain.RunStats{}
	}
	stats.DurationSeconds = now.Sub(run.StartedAt).Seconds()
	statsJSON, _ := json.Marshal(stats)
	run.Stats = statsJSON

	fields := map[string]any{
		"run_id":           run.ID,
		"rows":             stats.Rows,
		"cells":            stats.Cells,
		"duration_seconds": stats.DurationSeconds,
	}
	if runErr != nil {
		run.Status = domain.RunStatusFailed
		run.Error = runErr.Error()
		fields["error"] = run.Error
		s.logger.Errorw("run.failed", fields)
	} else {
		run.Status = domain.RunStatusSuccess
		s.logger.Infow("run.completed", fields)
	}

	if s.runRepo != nil {
		if err := s.runRepo.Update(run); err != nil {
			s.logger.Error("Failed to update run %s: %v", run.ID, err)
		}
	}
}

func (s *RunService) GetRun(id string) (*domain.Run, error) {
	if s.runRepo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.runRepo.Get(id)
}

func (s *RunService) ListRuns(limit int, status string, since time.Time) ([]*domain.Run, error) {
	if s.runRepo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.runRepo.List(limit, status, since)
}

// RunStats decodes the statistics stored on a run.
func RunStats(run *domain.Run) (domain.RunStats, error) {
	var stats domain.RunStats
	if len(run.Stats) == 0 {
		return stats, nil
	}
	err := json.Unmarshal(run.Stats, &stats)
	return stats, err
}

func sourceName(src string) string {
	if src == "" || src == "-" {
		return "stdin"
	}
	return src
}

func sinkName(req *domain.RunRequest) string {
	if req.SQLiteOut != "" {
		return fmt.Sprintf("sqlite:%s#%s", req.SQLiteOut, req.Table)
	}
	return "stdout"
}

func directiveStrings(ds []domain.Directive) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}
