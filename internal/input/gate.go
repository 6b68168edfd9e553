// Package input gates swipe input so at most one hop is ever in flight.
package input

import "github.com/vovakirdan/tileroll/internal/core"

// Mover starts a hop and calls done when it completes.
type Mover interface {
	Move(dir core.Direction, done func()) bool
}

// Gate forwards swipes to a Mover one at a time.
// It closes when it accepts a swipe and reopens in the hop's completion.
// Swipes that arrive while it is closed are dropped.
type Gate struct {
	mover  Mover
	open   bool
	locked bool
}

// NewGate creates a gate. It starts locked; call Unlock when play begins.
func NewGate(m Mover) *Gate {
	return &Gate{mover: m, locked: true}
}

// Handle forwards dir if the gate is open and reports whether it was accepted.
func (g *Gate) Handle(dir core.Direction) bool {
	if !g.open || g.locked || !dir.Valid() {
		return false
	}
	g.open = false
	if !g.mover.Move(dir, g.reopen) {
		g.open = true
		return false
	}
	return true
}

func (g *Gate) reopen() {
	if !g.locked {
		g.open = true
	}
}

// Open reports whether the next swipe would be forwarded.
func (g *Gate) Open() bool {
	return g.open && !g.locked
}

// Lock closes the gate until Unlock, ignoring pending completions.
func (g *Gate) Lock() {
	g.locked = true
	g.open = false
}

// Unlock opens the gate for a new run.
func (g *Gate) Unlock() {
	g.locked = false
	g.open = true
}
