package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "production",
	Short: "Production progress tracking service",
	Long: `Tracks production progress of bottled items within customer orders:
incremental production updates, shared inventory stock pools, and derived
order statuses.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}
