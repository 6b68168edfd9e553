package input

import (
	"testing"

	"github.com/vovakirdan/tileroll/internal/core"
)

type fakeMover struct {
	moving bool
	moves  []core.Direction
	done   func()
}

func (m *fakeMover) Move(dir core.Direction, done func()) bool {
	if m.moving {
		return false
	}
	m.moving = true
	m.moves = append(m.moves, dir)
	m.done = done
	return true
}

func (m *fakeMover) finish() {
	m.moving = false
	if m.done != nil {
		d := m.done
		m.done = nil
		d()
	}
}

func TestGateSingleFlight(t *testing.T) {
	m := &fakeMover{}
	g := NewGate(m)
	g.Unlock()

	if !g.Handle(core.DirRight) {
		t.Fatal("First swipe should be accepted")
	}
	if g.Handle(core.DirLeft) {
		t.Error("Swipe during a hop should be dropped")
	}
	if len(m.moves) != 1 {
		t.Fatalf("Expected 1 move, got %d", len(m.moves))
	}

	m.finish()
	if !g.Open() {
		t.Fatal("Gate should reopen after completion")
	}
	if !g.Handle(core.DirLeft) {
		t.Error("Swipe after completion should be accepted")
	}
}

func TestGateStartsLocked(t *testing.T) {
	m := &fakeMover{}
	g := NewGate(m)
	if g.Handle(core.DirRight) {
		t.Error("Gate should start locked")
	}
}

func TestGateLockSurvivesCompletion(t *testing.T) {
	m := &fakeMover{}
	g := NewGate(m)
	g.Unlock()
	g.Handle(core.DirRight)

	g.Lock()
	m.finish()

	if g.Open() {
		t.Error("Completion must not reopen a locked gate")
	}
	if g.Handle(core.DirLeft) {
		t.Error("Locked gate accepted a swipe")
	}
}

func TestGateIgnoresNone(t *testing.T) {
	m := &fakeMover{}
	g := NewGate(m)
	g.Unlock()
	if g.Handle(core.DirNone) {
		t.Error("DirNone should be ignored")
	}
	if !g.Open() {
		t.Error("Ignored input must not close the gate")
	}
}
