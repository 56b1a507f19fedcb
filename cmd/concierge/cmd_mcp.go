package main

import (
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-concierge/internal/lifecycle"
	conciergemcp "github.com/ajitpratap0/openclaw-concierge/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Starts an MCP JSON-RPC 2.0 server that reads from stdin and writes to stdout.
All diagnostic logs go to stderr so that stdout remains exclusively MCP protocol traffic.

Tools exposed:
  detect_language    detect the language of a message
  classify_request   classify a message into a concierge intent
  recommend          rank catalog venues for a message
  chat               answer one turn of a conversation
  end_conversation   discard a conversation
  stats              live conversation count and counters

If the catalog or preference store is unavailable at startup the server still
starts; replies fall back to clarifying questions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			svc, _, closeAll := newService(cmd.Context(), false, logger)
			defer closeAll()

			lm := lifecycle.NewManager(svc.Registry(), cfg.Conversation.IdleTTL(), logger)
			go lm.Loop(cmd.Context(), cfg.Conversation.SweepInterval())

			srv := conciergemcp.NewServer(svc, version, logger)

			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: openclaw-concierge MCP server starting", "transport", "stdio")

			return mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			)
		},
	}

	return cmd
}
