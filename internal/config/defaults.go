package config

import (
	_ "embed"
)

//go:embed defaults/tileroll.yaml
var defaultTileRollYAML []byte

// DefaultTileRollConfig returns the hardcoded default configuration.
// It mirrors defaults/tileroll.yaml and is used if the embedded file fails to parse.
func DefaultTileRollConfig() TileRollConfig {
	return TileRollConfig{
		Track: TrackConfig{
			Step:          2,
			TileSize:      1,
			Retention:     15,
			InitialTiles:  10,
			Origin:        [3]float64{0, 10, 0},
			DeadZoneDrop:  1,
			DeadZoneDepth: 0.5,
			AbyssDepth:    6,
		},
		Player: PlayerConfig{
			Size:            1,
			InitialPosition: [3]float64{0, 13, 0},
			JumpHeight:      1,
			MoveDuration:    0.3,
			GameOverImpulse: 7,
			Mass:            1,
		},
		Physics: PhysicsConfig{
			Gravity:      -9.8,
			MaxFallSpeed: 30,
			ContactEps:   1e-6,
			RestSpeed:    0.05,
		},
		Hazards: HazardConfig{
			Policy:      "probabilistic",
			Probability: 0.04,
			MaxChance:   0.2,
			Period:      12,
			MinGap:      3,
			SafeStart:   4,
		},
		Contact: ContactConfig{
			GameOverGrace: 0.5,
		},
		Modes: ModesConfig{
			Timed: TimedConfig{Seconds: 60},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 150,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
				SpikeIncrease:   0.12,
			},
		},
		Cubes: []CubeConfig{
			{ID: "classic", Name: "Classic", Color: "white", Animation: "basic"},
			{ID: "ember", Name: "Ember", Color: "orange", Animation: "basic", RequiredHighScore: 25, Cost: 150},
			{ID: "ocean", Name: "Ocean", Color: "blue", Animation: "spin", RequiredHighScore: 50, Cost: 300},
			{ID: "toxic", Name: "Toxic", Color: "green", Animation: "pulse", RequiredHighScore: 100, Cost: 600},
			{ID: "royal", Name: "Royal", Color: "purple", Animation: "spin", RequiredHighScore: 200, Cost: 1200},
			{ID: "neon", Name: "Neon", Color: "pink", Animation: "pulse", RequiredHighScore: 400},
		},
		Rewards: RewardsConfig{
			CubeletsPerTile: 1,
		},
		Leaderboard: LeaderboardConfig{
			TimeoutSeconds: 5,
			QueueSize:      64,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultTileRollYAML
}
