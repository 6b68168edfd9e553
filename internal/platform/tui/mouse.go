package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/mobile/event/touch"
)

// Terminal cells are roughly twice as tall as they are wide.
const (
	cellAspect          = 2
	mouseSwipeThreshold = 4 // Columns of horizontal drag for a swipe
)

// touchFromMouse converts a left-button drag into touch events so the
// swipe recognizer works the same for mice and touch screens.
func touchFromMouse(msg tea.MouseMsg) (touch.Event, bool) {
	e := touch.Event{
		X: float32(msg.X),
		Y: float32(msg.Y * cellAspect),
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return e, false
		}
		e.Type = touch.TypeBegin
	case tea.MouseActionMotion:
		e.Type = touch.TypeMove
	case tea.MouseActionRelease:
		e.Type = touch.TypeEnd
	default:
		return e, false
	}
	return e, true
}
