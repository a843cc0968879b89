package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mmrzaf/csvanon/internal/directive"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func specsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "specs",
		Short: "List generator kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeSpecs(cmd.OutOrStdout(), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table|json|yaml)")
	return cmd
}

func writeSpecs(w io.Writer, format string) error {
	groups := directive.Combinations()
	switch format {
	case "json":
		data, err := json.MarshalIndent(groups, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(groups)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "table":
		table := newTable(w, []string{"MAJOR", "MINORS"})
		for _, g := range groups {
			minors := strings.Join(g.Minors, ", ")
			if minors == "" {
				minors = "-"
			}
			table.Append([]string{g.Major, minors})
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	return table
}
