package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "handtree.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "heads_up", cfg.Import.GameType)
	assert.Equal(t, 1024, cfg.Cache.Capacity)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server {
  address = "0.0.0.0"
  port    = 9000
}

database {
  dsn = "user:pass@tcp(db:3306)/hands"
}

import {
  game_type = "heads_up"
  min_stack = 10
  max_stack = 50
  max_hands = 5000
  workers   = 4
}

cache {
  capacity = 256
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.GetServerAddress())
	assert.Equal(t, "user:pass@tcp(db:3306)/hands", cfg.Database.DSN)
	assert.Equal(t, 10.0, cfg.Import.MinStack)
	assert.Equal(t, 50.0, cfg.Import.MaxStack)
	assert.Equal(t, 5000, cfg.Import.MaxHands)
	assert.Equal(t, 4, cfg.Import.Workers)
	assert.Equal(t, 256, cfg.Cache.Capacity)
}

func TestLoadConfigPartialAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server {}
database {}
import {
  min_stack = 5
}
cache {}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 5.0, cfg.Import.MinStack)
	assert.Equal(t, 25.0, cfg.Import.MaxStack)
	assert.Equal(t, 1000, cfg.Import.MaxHands)
}

func TestLoadConfigInvalidHCL(t *testing.T) {
	path := writeConfig(t, `server {`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Import.MaxStack = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Import.GameType = "omaha"
	assert.Error(t, cfg.Validate())
}
