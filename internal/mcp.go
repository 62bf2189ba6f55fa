package internal

import (
	"context"
	"fmt"

	"github.com/princepal9120/vibestack/internal/content"
	"github.com/princepal9120/vibestack/internal/directory"
	"github.com/princepal9120/vibestack/internal/mcpserver"
	"github.com/princepal9120/vibestack/internal/store"
	"github.com/princepal9120/vibestack/internal/suggest"
)

// RunMCP starts the stdio MCP server against the same store and catalog
// the HTTP server uses. It blocks until the client disconnects.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	catalog, err := content.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	index, err := suggest.NewIndex(catalog.Items(), cfg.Suggest)
	if err != nil {
		return fmt.Errorf("build suggestion index: %w", err)
	}

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	srv := mcpserver.New(directory.NewService(db, nil), suggest.NewService(index))
	return srv.ServeStdio()
}
