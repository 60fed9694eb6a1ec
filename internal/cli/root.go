package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "mtx",
	Short: "Mail Triage - AI email task extraction with confidence routing",
	Long: `Mail Triage (mtx) extracts structured action items from raw email text
using an AI extraction service, applies rule-based confidence scoring to
each extraction, and routes every task into one of three review queues:
auto-approved, standard review, or high-priority review.

It provides CLI commands for processing emails, working the review queue
interactively, and serving the pipeline over MCP.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mtx %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
