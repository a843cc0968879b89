package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mmrzaf/csvanon/internal/app"
	"github.com/mmrzaf/csvanon/internal/config"
	"github.com/mmrzaf/csvanon/internal/directive"
	"github.com/mmrzaf/csvanon/internal/domain"
	"github.com/mmrzaf/csvanon/internal/infra/repos/profiles"
	"github.com/mmrzaf/csvanon/internal/infra/repos/runs"
	"github.com/mmrzaf/csvanon/internal/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	profilesDir string
	runsDB      string
	logLevel    string
	quiet       bool

	allSpecs  bool
	header    bool
	delimiter string
	memoize   bool
	memoScope string
	seed      int64
	profile   string
	sqliteOut string
	table     string
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "csvanon [flags] <csv-file|-> [directive]...",
		Short: "A CSV-file anonymizer",
		Long: `Rewrites selected columns of a CSV file with fake data.

Directives look like <column>:<major>.<minor>, where <column> is a zero-based
column index. Run with --all-specs to list every generator kind.`,
		SilenceUsage: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.allSpecs {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.allSpecs {
				return printSpecLines(cmd.ErrOrStderr())
			}
			return runAnonymize(cmd, opts, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.profilesDir, "profiles-dir", cfg.ProfilesDir, "Profiles directory")
	pf.StringVar(&opts.runsDB, "runs-db", cfg.RunsDB, "Runs database (SQLite path or postgres:// DSN)")
	pf.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "Log level")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "Produce no additional output on stderr")

	f := rootCmd.Flags()
	f.BoolVar(&opts.allSpecs, "all-specs", false, "Print all available generator kinds")
	f.BoolVar(&opts.header, "header", false, "The first line is a header and is reproduced in the output")
	f.StringVarP(&opts.delimiter, "delimiter", "d", cfg.Delimiter, "Delimiter for input and output")
	f.BoolVar(&opts.memoize, "memoize", false, "Reuse the replacement for repeated original values")
	f.StringVar(&opts.memoScope, "memo-scope", "", "Memo key: value (shared across columns) or kind")
	f.Int64Var(&opts.seed, "seed", 0, "Seed for generators")
	f.StringVar(&opts.profile, "profile", "", "Profile ID or name")
	f.StringVar(&opts.sqliteOut, "sqlite-out", "", "Write rows to this SQLite database instead of stdout")
	f.StringVar(&opts.table, "table", "", "Table for --sqlite-out")

	if cfg.Seed != "" {
		if _, err := strconv.ParseInt(cfg.Seed, 10, 64); err == nil {
			_ = f.Set("seed", cfg.Seed)
		}
	}

	rootCmd.AddCommand(specsCmd())
	rootCmd.AddCommand(profileCmd(opts))
	rootCmd.AddCommand(runsCmd(opts))
	return rootCmd
}

func (o *rootOptions) logger(cmd *cobra.Command) *logging.Logger {
	level := o.logLevel
	if o.quiet {
		level = "error"
	}
	return logging.NewLoggerWithWriter(level, cmd.ErrOrStderr())
}

func (o *rootOptions) openRunRepo() (runs.Repository, error) {
	if o.runsDB == "" {
		return nil, nil
	}
	repo := runs.NewRepository(o.runsDB)
	if err := repo.Init(); err != nil {
		return nil, fmt.Errorf("open runs db %s: %w", runs.RedactDSN(o.runsDB), err)
	}
	return repo, nil
}

func (o *rootOptions) service(cmd *cobra.Command) (*app.RunService, func(), error) {
	runRepo, err := o.openRunRepo()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {}
	if runRepo != nil {
		cleanup = func() { _ = runRepo.Close() }
	}
	svc := app.NewRunService(profiles.NewFileRepository(o.profilesDir), runRepo, o.logger(cmd))
	return svc, cleanup, nil
}

func runAnonymize(cmd *cobra.Command, opts *rootOptions, args []string) error {
	svc, cleanup, err := opts.service(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	req := &domain.RunRequest{
		ProfileID:  opts.profile,
		Directives: args[1:],
		Source:     args[0],
		SQLiteOut:  opts.sqliteOut,
		Table:      opts.table,
		MemoScope:  domain.MemoScope(opts.memoScope),
	}
	flags := cmd.Flags()
	if flags.Changed("delimiter") || opts.profile == "" {
		req.Delimiter = opts.delimiter
	}
	if flags.Changed("header") || opts.profile == "" {
		req.Header = &opts.header
	}
	if flags.Changed("memoize") || opts.profile == "" {
		req.Memoize = &opts.memoize
	}
	if flags.Changed("seed") {
		req.Seed = &opts.seed
	}

	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("could not open '%s' for reading: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	if _, err := svc.Anonymize(cmd.Context(), req, in, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("anonymization failed: %w", err)
	}
	return nil
}

func printSpecLines(w io.Writer) error {
	for _, s := range directive.Specs() {
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}
