// Command mcp-server exposes the Cognisphere tools over the Model Context
// Protocol on stdio. It needs no database.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cognisphere-server/internal/config"
	"github.com/cognisphere-server/internal/mcp"
)

func main() {
	// stdout belongs to the protocol
	log.SetOutput(os.Stderr)

	cfg := config.LoadLiteConfig()

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := mcp.NewServer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}
	defer server.Close()

	if err := server.Start(ctx); err != nil {
		log.Printf("MCP server failed: %v", err)
		return
	}

	log.Println("Cognisphere MCP server stopped")
}
