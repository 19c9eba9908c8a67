package main

import (
	"context"

	"github.com/spf13/cobra"

	"surveycoder/internal/logging"
	mcpserver "surveycoder/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing classification and
project tools to agent clients.

The server monitors for parent process death and self-terminates when the
client disconnects, so no zombie processes accumulate.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := newService()
	if err != nil {
		return err
	}

	srv := mcpserver.NewServer(st, svc, cfg.LLM.Model)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcpserver.WatchParent(ctx, cancel)

	logging.New("mcp").Info("starting surveycoder MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
