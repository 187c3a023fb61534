// Package config loads optional defaults for the perft CLI from a TOML
// file: missing or malformed files fall back to defaults rather than
// failing the command (this is a debugging tool, not the core itself, so a
// relaxed load here doesn't compromise the position-level strictness the
// core's own FEN parsing demands).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the perft CLI's optional defaults.
type Config struct {
	Depth    int    `toml:"depth"`
	FEN      string `toml:"fen"`
	Divide   bool   `toml:"divide"`
	Parallel int    `toml:"parallel"`
}

// Default returns the CLI's built-in defaults.
func Default() Config {
	return Config{Depth: 5, Parallel: 1}
}

// Load reads path and overlays it on Default, returning the defaults
// unchanged if path does not exist or fails to parse.
func Load(path string) Config {
	cfg := Default()
	if path == "" {
		return cfg
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default()
	}
	return cfg
}
