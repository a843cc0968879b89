package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mmrzaf/csvanon/internal/api"
	"github.com/mmrzaf/csvanon/internal/app"
	"github.com/mmrzaf/csvanon/internal/config"
	"github.com/mmrzaf/csvanon/internal/infra/repos/profiles"
	"github.com/mmrzaf/csvanon/internal/infra/repos/runs"
	"github.com/mmrzaf/csvanon/internal/logging"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	profilesDir := flag.String("profiles-dir", cfg.ProfilesDir, "Profiles directory")
	runsDB := flag.String("runs-db", cfg.RunsDB, "Runs database (SQLite path or postgres:// DSN)")
	bindAddr := flag.String("bind", cfg.BindAddr, "Bind address")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level")
	flag.Parse()

	logger := logging.NewLogger(*logLevel).WithComponent("api_main")

	var runRepo runs.Repository
	if *runsDB != "" {
		runRepo = runs.NewRepository(*runsDB)
		if err := runRepo.Init(); err != nil {
			logger.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "init_run_repo", "dsn": runs.RedactDSN(*runsDB)})
			os.Exit(1)
		}
		defer runRepo.Close()
	}

	runService := app.NewRunService(profiles.NewFileRepository(*profilesDir), runRepo, logger)
	handler := api.NewHandler(runService)

	srv := &http.Server{
		Addr:              *bindAddr,
		Handler:           api.NewRouter(handler, logger.WithComponent("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("startup.listening", map[string]any{"bind": *bindAddr, "runs_db": runs.RedactDSN(*runsDB)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infow("shutdown.started", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorw("server.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	logger.Infow("shutdown.completed", nil)
}
