package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/competency-compass/internal/bloom"
)

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Print the Bloom levels and their ranks",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%4s  %s\n", "Rank", "Level")
			for _, l := range bloom.Levels() {
				fmt.Fprintf(w, "%4d  %s\n", l.Rank(), l)
			}
		},
	}
}
