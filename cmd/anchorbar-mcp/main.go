package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	"anchorbar/internal/adapters/freesurfer"
	mcpadapter "anchorbar/internal/adapters/mcp"
	"anchorbar/internal/adapters/sqlite"
	"anchorbar/internal/config"
	"anchorbar/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "anchorbar-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("anchorbar-mcp", pflag.ExitOnError)
	flags.String("db", "", "path to the catalog database (env ANCHORBAR_DB)")
	// stdout carries the protocol, so logs stay quiet unless asked for
	flags.String("log-mode", logger.ModeQuiet, "logging mode: dev, debug, prod or quiet")
	flags.Int("vertex-count", 0, "vertices of the surface mesh (default 163842)")
	flags.String("out-dir", "", "directory for written annotation files (default \".\")")
	flags.Parse(os.Args[1:])

	v := config.New()
	v.SetDefault(config.KeyLogMode, logger.ModeQuiet)
	if err := config.BindFlags(v, flags); err != nil {
		return err
	}
	settings, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := settings.RequireDB(); err != nil {
		return err
	}

	log, err := logger.New(settings.LogMode)
	if err != nil {
		return err
	}
	defer log.Sync()

	catalog := sqlite.NewCatalog(log)
	if err := catalog.Open(settings.DBPath); err != nil {
		return err
	}
	defer catalog.Close()

	mcpServer := server.NewMCPServer(
		"anchorbar-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, catalog)
	mcpadapter.RegisterWriteTools(mcpServer, catalog, freesurfer.NewCodec(), mcpadapter.SetOperationOptions{
		VertexCount: settings.VertexCount,
		OutputDir:   settings.OutputDir,
	})

	log.Info("serving MCP on stdio", "db", settings.DBPath)
	return server.ServeStdio(mcpServer)
}
