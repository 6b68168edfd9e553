package config

import "math"

// DifficultyManager calculates dynamic game parameters based on score/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score/ticks.
func (d *DifficultyManager) Level(score int, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	var progress float64
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// MoveDuration returns the hop duration for the current level.
// Hops get faster as difficulty rises: base / (1 + level*speedMultiplier).
func (d *DifficultyManager) MoveDuration(base float64, score int, ticks int) float64 {
	level := d.Level(score, ticks)
	return base / (1.0 + level*d.cfg.Scaling.SpeedMultiplier)
}

// SpikeChance returns the probability that a new tile is a spike.
func (d *DifficultyManager) SpikeChance(base, maxChance float64, score int, ticks int) float64 {
	level := d.Level(score, ticks)
	chance := base + level*d.cfg.Scaling.SpikeIncrease
	if maxChance > 0 {
		chance = math.Min(chance, maxChance)
	}
	return clampF(chance, 0.0, 1.0)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
