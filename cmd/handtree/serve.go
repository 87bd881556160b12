package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/handtree/internal/config"
	"github.com/lox/handtree/internal/ingest"
	"github.com/lox/handtree/internal/navigator"
	"github.com/lox/handtree/internal/server"
	"github.com/lox/handtree/internal/store"
)

// ServeCmd runs the WebSocket query server over one or more trees.
type ServeCmd struct {
	Addr   string   `short:"a" help:"Listen address (overrides config)"`
	Load   []string `type:"existingfile" help:"Tree files to serve"`
	Import bool     `help:"Import a tree from the database at startup"`
}

func (c *ServeCmd) Run(cfg *config.Config, logger *log.Logger) error {
	cache := navigator.NewCache(cfg.Cache.Capacity, quartz.NewReal())
	registry := server.NewRegistry(cache)

	for _, file := range c.Load {
		snap, err := readSnapshot(file)
		if err != nil {
			return err
		}
		registry.Add(snap)
		logger.Info("Loaded tree", "path", file, "id", snap.ID, "hands", snap.HandCount)
	}

	if c.Import {
		db, err := store.Open(cfg.Database.DSN, logger)
		if err != nil {
			return err
		}
		importer := ingest.New(db, logger, cfg.Import.Workers)
		res, err := importer.Import(context.Background(), filterFromConfig(cfg))
		db.Close()
		if err != nil {
			return err
		}
		registry.Add(res.Snapshot)
	}

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}
	srv := server.NewServer(addr, registry, logger)

	logger.Info("Starting query server", "addr", addr, "trees", len(registry.List()))

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		logger.Info("Shutting down server...")
		srv.Stop()
		os.Exit(0)
	}()

	return srv.Start()
}
