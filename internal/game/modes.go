package game

import (
	"github.com/vovakirdan/tileroll/internal/config"
	"github.com/vovakirdan/tileroll/internal/registry"
)

func init() {
	registry.Register("classic", func() registry.Mode { return Classic{} })
	registry.Register("timed", func() registry.Mode { return Timed{} })
}

// Classic runs until a hazard ends it.
type Classic struct{}

func (Classic) ID() string                              { return "classic" }
func (Classic) Title() string                           { return "Classic" }
func (Classic) TimeLimit(config.TileRollConfig) float64 { return 0 }

// Timed also ends when the countdown reaches zero.
type Timed struct{}

func (Timed) ID() string    { return "timed" }
func (Timed) Title() string { return "Time Attack" }

// TimeLimit returns the configured countdown.
func (Timed) TimeLimit(cfg config.TileRollConfig) float64 {
	return cfg.Modes.Timed.Seconds
}
