// Package main provides the entry point for the mapclean CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for mapclean.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapclean",
		Short: "Clean robot occupancy grid maps",
		Long: `mapclean removes small spurious obstacle blobs from occupancy grid maps
(PGM/PNG) produced by SLAM, such as an operator's legs captured during
teleoperated mapping, while preserving thin walls and map structure.

Regions are kept or removed by a polygon area estimate of their traced
outline, not by pixel count, so long thin walls survive even aggressive
area thresholds.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCleanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
