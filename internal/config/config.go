// Package config loads the HCL configuration shared by the CLI and the
// query server.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerSettings   `hcl:"server,block"`
	Database DatabaseSettings `hcl:"database,block"`
	Import   ImportSettings   `hcl:"import,block"`
	Cache    CacheSettings    `hcl:"cache,block"`
}

// ServerSettings contains the query server configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// DatabaseSettings points at the hand-history database.
type DatabaseSettings struct {
	DSN string `hcl:"dsn,optional"`
}

// ImportSettings holds the default hand filter and worker pool size.
type ImportSettings struct {
	GameType string  `hcl:"game_type,optional"`
	MinStack float64 `hcl:"min_stack,optional"`
	MaxStack float64 `hcl:"max_stack,optional"`
	MaxHands int     `hcl:"max_hands,optional"`
	Workers  int     `hcl:"workers,optional"`
}

// CacheSettings bounds the path lookup cache.
type CacheSettings struct {
	Capacity int `hcl:"capacity,optional"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8090,
			LogLevel: "info",
		},
		Database: DatabaseSettings{
			DSN: "root@tcp(localhost:3306)/hands?parseTime=true",
		},
		Import: ImportSettings{
			GameType: "heads_up",
			MinStack: 0,
			MaxStack: 25,
			MaxHands: 1000,
			Workers:  runtime.NumCPU(),
		},
		Cache: CacheSettings{
			Capacity: 1024,
		},
	}
}

// LoadConfig loads configuration from an HCL file, returning defaults when
// the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Database.DSN == "" {
		config.Database.DSN = defaults.Database.DSN
	}
	if config.Import.GameType == "" {
		config.Import.GameType = defaults.Import.GameType
	}
	if config.Import.MaxStack == 0 {
		config.Import.MaxStack = defaults.Import.MaxStack
	}
	if config.Import.MaxHands == 0 {
		config.Import.MaxHands = defaults.Import.MaxHands
	}
	if config.Import.Workers == 0 {
		config.Import.Workers = defaults.Import.Workers
	}
	if config.Cache.Capacity == 0 {
		config.Cache.Capacity = defaults.Cache.Capacity
	}

	return &config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Import.MinStack < 0 {
		return fmt.Errorf("min_stack must not be negative")
	}
	if c.Import.MaxStack < c.Import.MinStack {
		return fmt.Errorf("max_stack must be at least min_stack")
	}
	if c.Import.GameType != "heads_up" && c.Import.GameType != "all" {
		return fmt.Errorf("invalid game_type: %s", c.Import.GameType)
	}
	if c.Import.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("cache capacity must be positive")
	}
	return nil
}

// GetServerAddress returns the full listen address.
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
