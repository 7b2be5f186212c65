package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "notify-mcp",
	Short: "MCP server and OAuth facade for a notification API",
	Long: `notify-mcp exposes notification-channel operations (list channels,
send message) to AI-agent clients over the Model Context Protocol, and acts
as an OAuth 2.0 authorization-server facade in front of the remote
notification API.`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
