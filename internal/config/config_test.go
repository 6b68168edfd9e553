package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	embedded, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	hard := DefaultTileRollConfig()

	if embedded.Track != hard.Track {
		t.Errorf("Track mismatch: %+v vs %+v", embedded.Track, hard.Track)
	}
	if embedded.Player != hard.Player {
		t.Errorf("Player mismatch: %+v vs %+v", embedded.Player, hard.Player)
	}
	if embedded.Physics != hard.Physics {
		t.Errorf("Physics mismatch: %+v vs %+v", embedded.Physics, hard.Physics)
	}
	if embedded.Hazards != hard.Hazards {
		t.Errorf("Hazards mismatch: %+v vs %+v", embedded.Hazards, hard.Hazards)
	}
	if len(embedded.Cubes) != len(hard.Cubes) {
		t.Fatalf("Expected %d cubes, got %d", len(hard.Cubes), len(embedded.Cubes))
	}
	for i := range hard.Cubes {
		if embedded.Cubes[i] != hard.Cubes[i] {
			t.Errorf("Cube %d mismatch: %+v vs %+v", i, embedded.Cubes[i], hard.Cubes[i])
		}
	}
	if err := embedded.Validate(); err != nil {
		t.Errorf("Embedded defaults do not validate: %v", err)
	}
}

func TestParsePartialOverride(t *testing.T) {
	cfg, err := Parse([]byte("track:\n  retention: 20\nhazards:\n  policy: none\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.Track.Retention != 20 {
		t.Errorf("Expected retention 20, got %d", cfg.Track.Retention)
	}
	if cfg.Track.Step != 2 {
		t.Errorf("Expected untouched step 2, got %v", cfg.Track.Step)
	}
	if cfg.Hazards.Policy != "none" {
		t.Errorf("Expected policy none, got %q", cfg.Hazards.Policy)
	}
	if len(cfg.Cubes) == 0 {
		t.Error("Cube catalog should fall back to defaults")
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("modes:\n  timed:\n    seconds: 30\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Modes.Timed.Seconds != 30 {
		t.Errorf("Expected 30 timed seconds, got %v", cfg.Modes.Timed.Seconds)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing custom config")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("track:\n  tile_size: 5\n"), 0o644) //nolint:errcheck

	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TileRollConfig)
	}{
		{"zero step", func(c *TileRollConfig) { c.Track.Step = 0 }},
		{"tile wider than step", func(c *TileRollConfig) { c.Track.TileSize = 2 }},
		{"tiny retention", func(c *TileRollConfig) { c.Track.Retention = 1 }},
		{"too many initial tiles", func(c *TileRollConfig) { c.Track.InitialTiles = 16 }},
		{"upward gravity", func(c *TileRollConfig) { c.Physics.Gravity = 9.8 }},
		{"unknown policy", func(c *TileRollConfig) { c.Hazards.Policy = "random" }},
		{"bad period", func(c *TileRollConfig) { c.Hazards.Policy = "periodic"; c.Hazards.Period = 1 }},
		{"empty catalog", func(c *TileRollConfig) { c.Cubes = nil }},
		{"duplicate cube", func(c *TileRollConfig) { c.Cubes = append(c.Cubes, c.Cubes[0]) }},
		{"unknown color", func(c *TileRollConfig) { c.Cubes[0].Color = "mauve" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTileRollConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultTileRollConfig()
	ApplyPreset(&cfg, DifficultyHard)
	if cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("Expected initial level 0.7, got %v", cfg.Difficulty.InitialLevel)
	}
	if cfg.Player.MoveDuration >= DefaultTileRollConfig().Player.MoveDuration {
		t.Error("Hard preset should shorten hops")
	}

	cfg = DefaultTileRollConfig()
	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("Fixed preset should disable progression")
	}
}

func TestDifficultyLevel(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:      ScalingConfig{SpeedMultiplier: 1, SpikeIncrease: 0.1},
	})

	if got := dm.Level(0, 0); got != 0.2 {
		t.Errorf("Level(0) = %v, want 0.2", got)
	}
	if got := dm.Level(500, 0); got != 1.0 {
		t.Errorf("Level(500) = %v, want 1.0", got)
	}
	if got := dm.MoveDuration(0.3, 100, 0); math.Abs(got-0.15) > 1e-9 {
		t.Errorf("MoveDuration at max = %v, want 0.15", got)
	}
	if got := dm.SpikeChance(0.05, 0.1, 100, 0); got != 0.1 {
		t.Errorf("SpikeChance should cap at 0.1, got %v", got)
	}
}

func TestDifficultyDisabled(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{Enabled: false, InitialLevel: 0.4})
	if got := dm.Level(1000, 1000); got != 0.4 {
		t.Errorf("Disabled manager should stay at initial level, got %v", got)
	}
}
