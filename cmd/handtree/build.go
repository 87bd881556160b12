package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/handtree/internal/config"
	"github.com/lox/handtree/internal/ingest"
	"github.com/lox/handtree/internal/store"
	"github.com/lox/handtree/internal/tree"
)

// BuildCmd imports filtered hands and writes the published tree to disk.
type BuildCmd struct {
	Output   string   `short:"o" default:"tree.json" help:"Where to write the published tree"`
	GameType string   `help:"Game type filter (overrides config)"`
	MinStack *float64 `help:"Minimum effective stack in big blinds (overrides config)"`
	MaxStack *float64 `help:"Maximum effective stack in big blinds (overrides config)"`
	MaxHands *int     `help:"Maximum hands to import (overrides config)"`
	Workers  *int     `help:"Worker pool size (overrides config)"`
}

func (c *BuildCmd) Run(cfg *config.Config, logger *log.Logger) error {
	filter := filterFromConfig(cfg)
	if c.GameType != "" {
		filter.GameType = c.GameType
	}
	if c.MinStack != nil {
		filter.MinStack = *c.MinStack
	}
	if c.MaxStack != nil {
		filter.MaxStack = *c.MaxStack
	}
	if c.MaxHands != nil {
		filter.MaxHands = *c.MaxHands
	}
	workers := cfg.Import.Workers
	if c.Workers != nil {
		workers = *c.Workers
	}

	db, err := store.Open(cfg.Database.DSN, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	importer := ingest.New(db, logger, workers)
	res, err := importer.Import(context.Background(), filter)
	if err != nil {
		var noHands *ingest.ErrNoHands
		if errors.As(err, &noHands) {
			logger.Error("No hands matched the requested filters",
				"game_type", filter.GameType,
				"min_stack", filter.MinStack,
				"max_stack", filter.MaxStack)
		}
		return err
	}

	if err := writeSnapshot(c.Output, res.Snapshot); err != nil {
		return err
	}
	logger.Info("Wrote tree",
		"path", c.Output,
		"id", res.Snapshot.ID,
		"hands", res.Snapshot.HandCount,
		"skipped", res.Skipped)
	return nil
}

func filterFromConfig(cfg *config.Config) ingest.Filter {
	return ingest.Filter{
		GameType: cfg.Import.GameType,
		MinStack: cfg.Import.MinStack,
		MaxStack: cfg.Import.MaxStack,
		MaxHands: cfg.Import.MaxHands,
	}
}

func writeSnapshot(path string, snap *tree.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding tree: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing tree: %w", err)
	}
	return nil
}

func readSnapshot(path string) (*tree.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tree: %w", err)
	}
	var snap tree.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding tree %s: %w", path, err)
	}
	return &snap, nil
}
