package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Seann-Moser/notify-mcp/config"
	"github.com/Seann-Moser/notify-mcp/server"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the notify-mcp HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

		path := configPath
		if env := os.Getenv("NOTIFY_MCP_CONFIG"); path == "" && env != "" {
			path = env
		}
		if path == "" {
			path = "notify-mcp.yaml"
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(cfg, logger).Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.AddCommand(serveCmd)
}
