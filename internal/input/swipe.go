package input

import (
	"math"

	"golang.org/x/mobile/event/touch"

	"github.com/vovakirdan/tileroll/internal/core"
)

// DefaultSwipeThreshold is the minimum horizontal travel, in pixels, for a swipe.
const DefaultSwipeThreshold = 40

// SwipeRecognizer turns touch sequences into horizontal swipe directions.
// Only the first finger down is tracked; others are ignored until it lifts.
type SwipeRecognizer struct {
	Threshold float32

	active   bool
	sequence touch.Sequence
	startX   float32
	startY   float32
	lastX    float32
	lastY    float32
}

// NewSwipeRecognizer creates a recognizer with the given threshold.
func NewSwipeRecognizer(threshold float32) *SwipeRecognizer {
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	return &SwipeRecognizer{Threshold: threshold}
}

// Touch feeds one event and returns a direction when a swipe ends.
func (r *SwipeRecognizer) Touch(e touch.Event) core.Direction {
	switch e.Type {
	case touch.TypeBegin:
		if !r.active {
			r.active = true
			r.sequence = e.Sequence
			r.startX, r.startY = e.X, e.Y
			r.lastX, r.lastY = e.X, e.Y
		}
	case touch.TypeMove:
		if r.active && e.Sequence == r.sequence {
			r.lastX, r.lastY = e.X, e.Y
		}
	case touch.TypeEnd:
		if r.active && e.Sequence == r.sequence {
			r.active = false
			r.lastX, r.lastY = e.X, e.Y
			return r.classify()
		}
	}
	return core.DirNone
}

func (r *SwipeRecognizer) classify() core.Direction {
	dx := float64(r.lastX - r.startX)
	dy := float64(r.lastY - r.startY)
	if math.Abs(dx) < float64(r.Threshold) || math.Abs(dx) <= math.Abs(dy) {
		return core.DirNone
	}
	if dx > 0 {
		return core.DirRight
	}
	return core.DirLeft
}
