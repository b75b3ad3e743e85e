package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/wmpolicy/internal/config"
	"github.com/mj1618/wmpolicy/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the focus policy",
	Long: `Start a Model Context Protocol (MCP) server with the tools policy,
parse_binding, validate and simulate.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  wmpolicy serve
  wmpolicy serve --transport streamable-http --port 8080 --watch`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Bool("watch", false, "Reload the served policy when the config file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	watch, _ := cmd.Flags().GetBool("watch")

	path, p, err := loadPolicy(cmd)
	if err != nil {
		return err
	}
	srv, err := server.New(p, path, appLog)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if watch {
		w, err := config.NewWatcher(path, appLog, srv.SetPolicy)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := w.Run(ctx); err != nil {
				appLog.Error("Config watcher stopped", err)
			}
		}()
	}

	return srv.Serve(server.Config{Transport: transport, Port: port})
}
