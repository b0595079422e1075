package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	mcpserver "github.com/ParticlesofMind/neptino-sub001/internal/mcp"
	"github.com/ParticlesofMind/neptino-sub001/internal/paging"
	"github.com/ParticlesofMind/neptino-sub001/internal/service"
	"github.com/ParticlesofMind/neptino-sub001/internal/storage"
	"github.com/ParticlesofMind/neptino-sub001/internal/template"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails
// frontend to notify).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with
// no GUI. It owns its own headless editing session; mounts exist purely
// in memory, so the agent can create and raster canvases without a
// display.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".local", "share", "neptino", "neptino.db")

	db, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	mounts := paging.NewHostMounts()
	mounts.SetHost("mcp-headless-host")

	session := service.NewSession(service.Deps{
		Ctx:       ctx,
		Mounts:    mounts,
		Templates: template.Factory(template.StaticSource{}),
		Emitter:   noopEmitter{},
		Journal:   storage.NewHistoryStore(db),
	})
	defer session.Close()

	mcpSrv := mcpserver.New(mcpserver.Deps{Session: session})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
