package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/competency-compass/internal/assessment"
	"github.com/p-n-ai/competency-compass/internal/competency"
)

func newExportFormCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-form REF",
		Short: "Print the assessment prompts of a reference table (CSV, XLSX or YAML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := competency.Load(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, p := range assessment.BuildPrompts(table.Definitions()) {
				fmt.Fprintf(w, "## %s\n", p.Topic)
				if p.ShortDescription != "" {
					fmt.Fprintln(w, p.ShortDescription)
				}
				if p.Description != "" {
					fmt.Fprintln(w, p.Description)
				}
				for _, o := range p.Options {
					fmt.Fprintf(w, "  ( ) %s\n", o.Label)
				}
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%d topics\n", table.Len())
			return nil
		},
	}
}
