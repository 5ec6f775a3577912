package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/competency-compass/internal/chart"
	"github.com/p-n-ai/competency-compass/internal/comparison"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare FILE FILE [FILE]",
		Short: "Join two or three exported selections on topic",
		Long: "Join two or three exported selections on topic and print the comparison CSV.\n" +
			"Only topics present in every file are kept.",
		RunE: runCompare,
	}
	cmd.Flags().Bool("legacy", false, "Label columns File 1..3 (requires exactly three files)")
	cmd.Flags().StringP("out", "o", "", "Write the comparison CSV to this path instead of stdout")
	cmd.Flags().String("chart", "", "Also draw a chart: "+strings.Join(chart.DefaultRegistry().Names(), ", "))
	cmd.Flags().String("chart-out", "", "Path of the chart file (required with --chart)")
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	legacy, _ := cmd.Flags().GetBool("legacy")
	out, _ := cmd.Flags().GetString("out")
	backend, _ := cmd.Flags().GetString("chart")
	chartOut, _ := cmd.Flags().GetString("chart-out")

	var rd chart.Renderer
	if backend != "" {
		var ok bool
		if rd, ok = chart.DefaultRegistry().Get(backend); !ok {
			return fmt.Errorf("unknown chart backend %q", backend)
		}
		if chartOut == "" {
			return fmt.Errorf("--chart-out is required with --chart")
		}
	}

	mode := comparison.Combined
	if legacy {
		mode = comparison.Legacy
	}

	sources := make([]comparison.Source, 0, len(args))
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		sources = append(sources, comparison.Source{Name: filepath.Base(path), Reader: f})
	}

	res, err := comparison.Run(mode, sources)
	if err != nil {
		return err
	}

	for _, u := range res.Unmapped {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s (%s): %q is not a Bloom level\n", u.Topic, u.Column, u.Label)
	}
	if len(res.Rows) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: the files have no topic in common")
	}

	if err := writeTo(out, cmd.OutOrStdout(), res.WriteCSV); err != nil {
		return fmt.Errorf("writing comparison: %w", err)
	}

	if rd != nil {
		ds := chart.NewDataset(res)
		err := writeTo(chartOut, nil, func(w io.Writer) error { return rd.Render(w, ds) })
		if err != nil {
			return fmt.Errorf("writing %s chart: %w", rd.Name(), err)
		}
	}
	return nil
}

// writeTo runs write against path, or against fallback when path is empty.
func writeTo(path string, fallback io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(fallback)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
