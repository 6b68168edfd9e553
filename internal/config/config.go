// Package config provides YAML-based game configuration loading and
// difficulty management for TileRoll.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tileroll/internal/core"
)

// ErrInvalid is returned by Validate for configurations the game cannot run with.
var ErrInvalid = errors.New("config: invalid configuration")

// TileRollConfig contains all configuration for the game.
type TileRollConfig struct {
	Track       TrackConfig       `yaml:"track"`
	Player      PlayerConfig      `yaml:"player"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Hazards     HazardConfig      `yaml:"hazards"`
	Contact     ContactConfig     `yaml:"contact"`
	Modes       ModesConfig       `yaml:"modes"`
	Difficulty  DifficultyConfig  `yaml:"difficulty"`
	Cubes       []CubeConfig      `yaml:"cubes"`
	Rewards     RewardsConfig     `yaml:"rewards"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
}

// TrackConfig defines tile placement.
type TrackConfig struct {
	Step          float64    `yaml:"step"`           // Lateral and vertical offset between consecutive tiles
	TileSize      float64    `yaml:"tile_size"`      // Tile cube edge length
	Retention     int        `yaml:"retention"`      // Max tiles kept in the window
	InitialTiles  int        `yaml:"initial_tiles"`  // Tiles seeded before play
	Origin        [3]float64 `yaml:"origin"`         // Center of the first tile
	DeadZoneDrop  float64    `yaml:"dead_zone_drop"` // Distance below a tile surface where its dead-zone sits
	DeadZoneDepth float64    `yaml:"dead_zone_depth"`
	AbyssDepth    float64    `yaml:"abyss_depth"` // Fall distance below the lowest tile that counts as lost
}

// OriginVec returns the track origin as a vector.
func (t TrackConfig) OriginVec() core.Vec3 {
	return core.V3(t.Origin[0], t.Origin[1], t.Origin[2])
}

// PlayerConfig defines the player cube.
type PlayerConfig struct {
	Size            float64    `yaml:"size"`
	InitialPosition [3]float64 `yaml:"initial_position"`
	JumpHeight      float64    `yaml:"jump_height"`
	MoveDuration    float64    `yaml:"move_duration"`     // Seconds per hop
	GameOverImpulse float64    `yaml:"game_over_impulse"` // Downward impulse applied on death
	Mass            float64    `yaml:"mass"`
}

// InitialVec returns the spawn position as a vector.
func (p PlayerConfig) InitialVec() core.Vec3 {
	return core.V3(p.InitialPosition[0], p.InitialPosition[1], p.InitialPosition[2])
}

// PhysicsConfig defines world parameters.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"` // Acceleration along y (negative = down)
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
	ContactEps   float64 `yaml:"contact_eps"`
	RestSpeed    float64 `yaml:"rest_speed"` // Below this speed a supported body counts as resting
}

// HazardConfig selects how spike tiles are placed.
type HazardConfig struct {
	Policy      string  `yaml:"policy"`      // "probabilistic", "periodic", or "none"
	Probability float64 `yaml:"probability"` // Base spike chance (probabilistic)
	MaxChance   float64 `yaml:"max_chance"`  // Cap after difficulty scaling
	Period      int     `yaml:"period"`      // Every Nth tile (periodic)
	MinGap      int     `yaml:"min_gap"`     // Minimum safe tiles between spikes
	SafeStart   int     `yaml:"safe_start"`  // Tiles after the first that are never spikes
}

// ContactConfig tunes contact handling.
type ContactConfig struct {
	GameOverGrace float64 `yaml:"game_over_grace"` // Seconds before the death impulse after a fall
}

// ModesConfig contains per-mode settings.
type ModesConfig struct {
	Timed TimedConfig `yaml:"timed"`
}

// TimedConfig defines the countdown mode.
type TimedConfig struct {
	Seconds float64 `yaml:"seconds"`
}

// CubeConfig describes one cosmetic cube in the catalog.
type CubeConfig struct {
	ID                string `yaml:"id"`
	Name              string `yaml:"name"`
	Color             string `yaml:"color"`
	Animation         string `yaml:"animation"`
	RequiredHighScore int    `yaml:"required_high_score"`
	Cost              int    `yaml:"cost"` // Cubelets to unlock early; 0 = cannot be bought
}

// RewardsConfig defines currency payouts.
type RewardsConfig struct {
	CubeletsPerTile int `yaml:"cubelets_per_tile"`
}

// LeaderboardConfig configures the online leaderboard client.
type LeaderboardConfig struct {
	URL            string  `yaml:"url"` // ws:// endpoint; empty = offline
	Player         string  `yaml:"player"`
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
	QueueSize      int     `yaml:"queue_size"`
}

// Timeout returns the per-request deadline.
func (l LeaderboardConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds * float64(time.Second))
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Hop speed gain at max difficulty
	SpikeIncrease   float64 `yaml:"spike_increase"`   // Spike chance added at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// Validate checks invariants the simulation relies on.
// Violations are configuration errors and should stop startup.
func (c TileRollConfig) Validate() error {
	switch {
	case c.Track.Step <= 0:
		return fmt.Errorf("%w: track.step must be positive", ErrInvalid)
	case c.Track.TileSize <= 0 || c.Track.TileSize >= c.Track.Step:
		return fmt.Errorf("%w: track.tile_size must be in (0, step)", ErrInvalid)
	case c.Track.Retention < 2:
		return fmt.Errorf("%w: track.retention must be at least 2", ErrInvalid)
	case c.Track.InitialTiles < 1 || c.Track.InitialTiles > c.Track.Retention:
		return fmt.Errorf("%w: track.initial_tiles must be in [1, retention]", ErrInvalid)
	case c.Player.Size <= 0:
		return fmt.Errorf("%w: player.size must be positive", ErrInvalid)
	case c.Player.MoveDuration <= 0:
		return fmt.Errorf("%w: player.move_duration must be positive", ErrInvalid)
	case c.Player.Mass <= 0:
		return fmt.Errorf("%w: player.mass must be positive", ErrInvalid)
	case c.Physics.Gravity >= 0:
		return fmt.Errorf("%w: physics.gravity must point down", ErrInvalid)
	case c.Hazards.Policy != "probabilistic" && c.Hazards.Policy != "periodic" && c.Hazards.Policy != "none":
		return fmt.Errorf("%w: hazards.policy %q", ErrInvalid, c.Hazards.Policy)
	case c.Hazards.Policy == "periodic" && c.Hazards.Period < 2:
		return fmt.Errorf("%w: hazards.period must be at least 2", ErrInvalid)
	case len(c.Cubes) == 0:
		return fmt.Errorf("%w: cube catalog is empty", ErrInvalid)
	}

	seen := make(map[string]bool, len(c.Cubes))
	for _, cube := range c.Cubes {
		if cube.ID == "" {
			return fmt.Errorf("%w: cube without id", ErrInvalid)
		}
		if seen[cube.ID] {
			return fmt.Errorf("%w: duplicate cube id %q", ErrInvalid, cube.ID)
		}
		seen[cube.ID] = true
		if _, ok := core.ParseColor(cube.Color); !ok {
			return fmt.Errorf("%w: cube %q has unknown color %q", ErrInvalid, cube.ID, cube.Color)
		}
	}
	return nil
}
