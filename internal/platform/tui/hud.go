package tui

import (
	"fmt"

	"github.com/vovakirdan/tileroll/internal/core"
	"github.com/vovakirdan/tileroll/internal/cubes"
	"github.com/vovakirdan/tileroll/internal/game"
)

// DrawHUD draws the score line and the state overlay on top of the scene.
func DrawHUD(s *core.Screen, f Frame) {
	snap := f.Snapshot

	line := fmt.Sprintf(" SCORE %d  BEST %d  CUBELETS %d", snap.Score, snap.HighScore, snap.Cubelets)
	if snap.Rank > 0 {
		line += fmt.Sprintf("  RANK #%d", snap.Rank)
	}
	s.DrawTextColored(0, 0, line, core.ColorWhite)

	right := f.ModeTitle
	if snap.Timed {
		right = fmt.Sprintf("%s  %4.1fs", f.ModeTitle, snap.TimeLeft)
	}
	s.DrawTextColored(s.Width()-len([]rune(right))-1, 0, right, timerColor(snap))

	switch st := snap.State.(type) {
	case game.Menu:
		drawMenu(s, f)
	case game.Over:
		drawOver(s, snap, st)
	}

	if f.Status != "" {
		s.DrawTextCentered(s.Height()-1, f.Status, core.ColorYellow)
	}
}

func timerColor(snap game.Snapshot) core.Color {
	if snap.Timed && snap.TimeLeft < 10 {
		return core.ColorRed
	}
	return core.ColorGray
}

// panel draws a centered box of the given size and returns its inner origin.
// ok is false when the screen is too small to hold it.
func panel(s *core.Screen, w, h int, c core.Color) (x, y int, ok bool) {
	if w > s.Width() || h+2 > s.Height() {
		return 0, 0, false
	}
	x = (s.Width() - w) / 2
	y = (s.Height()-h)/2 + 1
	s.DrawBox(x, y, w, h, c)
	return x + 2, y + 1, true
}

func drawMenu(s *core.Screen, f Frame) {
	list := f.Snapshot.Cubes
	x, y, ok := panel(s, 44, len(list)+7, core.ColorCyan)
	if !ok {
		s.DrawTextCentered(s.Height()/2, "TILEROLL - press enter", core.ColorCyan)
		return
	}

	s.DrawTextColored(x, y, "T I L E R O L L", core.ColorCyan)
	s.DrawTextColored(x, y+1, fmt.Sprintf("%s  games played: %d", f.ModeTitle, f.Snapshot.GamesPlayed), core.ColorGray)

	for i, c := range list {
		cursor := "  "
		if i == f.Cursor {
			cursor = "> "
		}
		s.DrawTextColored(x, y+3+i, cursor+c.Name, c.Color)
		s.DrawTextColored(x+18, y+3+i, cubeStatus(c), core.ColorGray)
	}
	s.DrawTextColored(x, y+len(list)+4, "enter: play", core.ColorWhite)
}

// cubeStatus summarizes how a cube can be obtained.
func cubeStatus(c cubes.Cube) string {
	switch {
	case c.Selected:
		return "equipped"
	case c.Unlocked:
		return "unlocked"
	case c.Cost > 0:
		return fmt.Sprintf("best %d or %d cl", c.RequiredHighScore, c.Cost)
	default:
		return fmt.Sprintf("best %d", c.RequiredHighScore)
	}
}

func drawOver(s *core.Screen, snap game.Snapshot, st game.Over) {
	title := "GAME OVER"
	if st.TimerExpired {
		title = "TIME UP"
	}
	x, y, ok := panel(s, 30, 6, core.ColorRed)
	if !ok {
		s.DrawTextCentered(s.Height()/2, title, core.ColorRed)
		return
	}
	s.DrawTextColored(x, y, title, core.ColorRed)
	s.DrawTextColored(x, y+1, fmt.Sprintf("score %d  best %d", snap.Score, snap.HighScore), core.ColorWhite)
	s.DrawTextColored(x, y+3, "enter: menu", core.ColorGray)
}
