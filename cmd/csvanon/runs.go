package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mmrzaf/csvanon/internal/app"
	"github.com/mmrzaf/csvanon/internal/timeutil"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errNoRunsDB = errors.New("no runs database configured (set --runs-db or CSVANON_RUNS_DB)")

func runsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect run history",
	}

	var limit int
	var status string
	var since string
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.runsDB == "" {
				return errNoRunsDB
			}
			svc, cleanup, err := opts.service(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			var sinceTime time.Time
			if since != "" {
				sinceTime, err = timeutil.ParseRelativeTime(since, time.Now())
				if err != nil {
					return err
				}
			}

			list, err := svc.ListRuns(limit, status, sinceTime)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Fprintln(out, string(data))
				return nil
			}

			table := newTable(out, []string{"ID", "SOURCE", "SINK", "STATUS", "ROWS", "CELLS", "STARTED"})
			for _, r := range list {
				stats, _ := app.RunStats(r)
				id := r.ID
				if len(id) > 8 {
					id = id[:8]
				}
				table.Append([]string{
					id, r.Source, r.Sink, string(r.Status),
					fmt.Sprint(stats.Rows), fmt.Sprint(stats.Cells),
					r.StartedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			table.Render()
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Limit results")
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&since, "since", "", "Only runs started after this time (RFC3339, YYYY-MM-DD or offset like 2d)")
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <run_id>",
		Short: "Show run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.runsDB == "" {
				return errNoRunsDB
			}
			svc, cleanup, err := opts.service(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			run, err := svc.GetRun(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			data, _ := yaml.Marshal(run)
			fmt.Fprint(out, string(data))
			if len(run.Stats) > 0 {
				stats, err := app.RunStats(run)
				if err != nil {
					return err
				}
				data, _ = yaml.Marshal(map[string]any{"stats": stats})
				fmt.Fprint(out, string(data))
			}
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}
