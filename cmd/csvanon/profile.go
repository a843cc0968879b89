package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mmrzaf/csvanon/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func profileCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage profiles",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.service(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := svc.ListProfiles()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Fprintln(out, string(data))
				return nil
			}

			table := newTable(out, []string{"ID", "NAME", "DIRECTIVES", "DESCRIPTION"})
			for _, p := range list {
				table.Append([]string{p.ID, p.Name, strings.Join(p.Directives, " "), p.Description})
			}
			table.Render()
			return nil
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show profile details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.service(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := svc.GetProfile(args[0])
			if err != nil {
				return err
			}

			data, _ := yaml.Marshal(p)
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <id|path>",
		Short: "Validate a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.service(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			var p *domain.Profile
			if looksLikePath(args[0]) {
				p, err = svc.ValidateProfileFile(args[0])
			} else {
				p, err = svc.GetProfile(args[0])
				if err == nil {
					err = svc.ValidateProfile(p)
				}
			}
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Validation failed: %v\n", err)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' is valid\n", p.Name)
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, validateCmd)
	return cmd
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml") || strings.HasSuffix(s, ".json")
}
