package track

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tileroll/internal/config"
)

// HazardPolicy decides whether a new tile is a spike.
// index is the tile's sequence number (always > 0) and sinceLast the number
// of tiles placed since the previous spike (index itself if there was none).
type HazardPolicy interface {
	Hazard(index, sinceLast int) bool
}

// NoHazards never places spikes.
type NoHazards struct{}

// Hazard implements HazardPolicy.
func (NoHazards) Hazard(int, int) bool { return false }

// Periodic places a spike on every Nth tile.
type Periodic struct {
	Every int
}

// Hazard implements HazardPolicy.
func (p Periodic) Hazard(index, _ int) bool {
	return p.Every > 0 && index%p.Every == 0
}

// Probabilistic places spikes at random, with a guaranteed safe run-up and
// a minimum number of normal tiles between spikes.
type Probabilistic struct {
	Chance    func() float64 // Current spike probability; read on every tile
	MinGap    int
	SafeStart int
	rng       *rand.Rand
}

// NewProbabilistic creates a probabilistic policy drawing from rng.
func NewProbabilistic(rng *rand.Rand, chance func() float64, minGap, safeStart int) *Probabilistic {
	return &Probabilistic{Chance: chance, MinGap: minGap, SafeStart: safeStart, rng: rng}
}

// Hazard implements HazardPolicy.
func (p *Probabilistic) Hazard(index, sinceLast int) bool {
	if index <= p.SafeStart || sinceLast <= p.MinGap {
		return false
	}
	return p.rng.Float64() < p.Chance()
}

// NewHazardPolicy builds the policy named in cfg.
// chance supplies the current probability for the probabilistic policy and
// may be nil to use cfg.Probability as a constant.
func NewHazardPolicy(cfg config.HazardConfig, rng *rand.Rand, chance func() float64) (HazardPolicy, error) {
	switch cfg.Policy {
	case "none":
		return NoHazards{}, nil
	case "periodic":
		if cfg.Period < 2 {
			return nil, fmt.Errorf("track: hazard period %d too small", cfg.Period)
		}
		return Periodic{Every: cfg.Period}, nil
	case "probabilistic", "":
		if chance == nil {
			base := cfg.Probability
			chance = func() float64 { return base }
		}
		return NewProbabilistic(rng, chance, cfg.MinGap, cfg.SafeStart), nil
	default:
		return nil, fmt.Errorf("track: unknown hazard policy %q", cfg.Policy)
	}
}
