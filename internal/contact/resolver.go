// Package contact maps physical contacts between the cube and the track to
// game events.
package contact

import (
	"github.com/vovakirdan/tileroll/internal/physics"
	"github.com/vovakirdan/tileroll/internal/track"
)

// Cause describes why a run ended on contact.
type Cause int

const (
	CauseSpike    Cause = iota // Touched a spike tile
	CauseDeadZone              // Fell through a gap
)

// String returns a human-readable name for the cause.
func (c Cause) String() string {
	if c == CauseSpike {
		return "spike"
	}
	return "dead-zone"
}

// Handler receives game events.
type Handler interface {
	TileLanded(t *track.Tile)
	GameOver(cause Cause)
}

// Resolver turns contact-begin events into at most one game over per run and
// at most one landing per tile.
type Resolver struct {
	handler Handler
	over    bool
}

// NewResolver creates a resolver that reports to h.
func NewResolver(h Handler) *Resolver {
	return &Resolver{handler: h}
}

// Begin handles one contact-begin event.
func (r *Resolver) Begin(c physics.Contact) {
	if r.over || c.Body == nil {
		return
	}
	if c.Actor != nil && c.Actor.Category&physics.CategoryPlayer == 0 {
		return
	}

	b := c.Body
	if b.IsHazard() {
		r.over = true
		cause := CauseDeadZone
		if b.IsTile() {
			cause = CauseSpike
		}
		r.handler.GameOver(cause)
		return
	}

	if !b.IsTile() || b.Tile == nil {
		return
	}
	t := b.Tile
	if t.ContactHandled {
		return
	}
	t.ContactHandled = true
	if t.First {
		return
	}
	r.handler.TileLanded(t)
}

// Reset re-arms the game-over event for a new run.
func (r *Resolver) Reset() {
	r.over = false
}
