package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "compass",
		Short:        "Bloom's taxonomy competency self-assessment tools",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if v, _ := cmd.Flags().GetBool("verbose"); v {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newCompareCmd())
	root.AddCommand(newLevelsCmd())
	root.AddCommand(newExportFormCmd())
	return root
}
