package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Depth != 5 {
		t.Errorf("Default().Depth = %d, want 5", cfg.Depth)
	}
	if cfg.Parallel != 1 {
		t.Errorf("Default().Parallel = %d, want 1", cfg.Parallel)
	}
	if cfg.FEN != "" {
		t.Errorf("Default().FEN = %q, want empty", cfg.FEN)
	}
	if cfg.Divide {
		t.Error("Default().Divide = true, want false")
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg := Load("")
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want %+v", cfg, Default())
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if cfg != Default() {
		t.Errorf("Load(missing) = %+v, want %+v", cfg, Default())
	}
}

func TestLoadOverlaysFileOnDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perft.toml")
	contents := "depth = 6\nfen = \"8/8/8/8/8/8/8/K6k w - - 0 1\"\nparallel = 4\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := Load(path)
	if cfg.Depth != 6 {
		t.Errorf("Depth = %d, want 6", cfg.Depth)
	}
	if cfg.FEN != "8/8/8/8/8/8/8/K6k w - - 0 1" {
		t.Errorf("FEN = %q", cfg.FEN)
	}
	if cfg.Parallel != 4 {
		t.Errorf("Parallel = %d, want 4", cfg.Parallel)
	}
	// divide was not set in the file, so the default (false) wins.
	if cfg.Divide {
		t.Error("Divide = true, want false (unset field keeps its default)")
	}
}

func TestLoadMalformedFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("not valid toml {{{"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := Load(path)
	if cfg != Default() {
		t.Errorf("Load(malformed) = %+v, want %+v", cfg, Default())
	}
}
