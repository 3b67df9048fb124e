package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JoodasCode/SlopWatch-sub001/internal/logging"
	"github.com/JoodasCode/SlopWatch-sub001/internal/mcp"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Serve exposes the verification pipeline as an MCP server over
stdio, for use from editors and agent harnesses.

Tools:
  verify_claim    verify a single claim against the workspace
  extract_claims  extract structured claims from assistant text
  verify_text     extract and verify every claim in a message
  get_history     fetch past verdicts for a conversation

Example (MCP client config):
  { "command": "slopwatch", "args": ["serve", "--workspace", "/path/to/project"] }`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	// Logs must go to stderr: stdout carries the JSON-RPC stream
	logging.Init(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	log := logging.New("serve")

	server, err := mcp.NewServer(cfg, Version)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer func() { _ = server.Shutdown() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	mcp.WatchParent(ctx, cancel)

	log.Info("MCP server listening on stdio", "workspace", cfg.Workspace.Root)
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
