package tui

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tileroll/internal/actor"
	"github.com/vovakirdan/tileroll/internal/config"
	"github.com/vovakirdan/tileroll/internal/core"
	"github.com/vovakirdan/tileroll/internal/cubes"
	"github.com/vovakirdan/tileroll/internal/game"
	"github.com/vovakirdan/tileroll/internal/storage"
	"github.com/vovakirdan/tileroll/internal/track"
)

type memStore struct {
	highScore int
	cubelets  int
	selected  string
}

func (m *memStore) LoadHighScore() (int, error) { return m.highScore, nil }
func (m *memStore) SaveHighScore(s int) error   { m.highScore = s; return nil }
func (m *memStore) LoadSelectedCubeID() (string, bool, error) {
	return m.selected, m.selected != "", nil
}
func (m *memStore) SaveSelectedCubeID(id string) error { m.selected = id; return nil }
func (m *memStore) LoadCubelets() (int, error)         { return m.cubelets, nil }
func (m *memStore) SaveCubelets(n int) error           { m.cubelets = n; return nil }
func (m *memStore) LoadPurchased() ([]string, error)   { return nil, nil }
func (m *memStore) SavePurchased([]string) error       { return nil }
func (m *memStore) RecordRun(core.RunResult) error     { return nil }
func (m *memStore) GamesPlayed() (int, error)          { return 0, nil }

type inlineBackground struct{}

func (inlineBackground) Post(_ string, fn func(ctx context.Context) error) {
	fn(context.Background()) //nolint:errcheck
}

func newTestSession(t *testing.T) *game.Session {
	t.Helper()
	cfg := config.DefaultTileRollConfig()
	cfg.Hazards.Policy = "none"
	s, err := game.NewSession(game.Options{
		Config:     cfg,
		Runtime:    core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7},
		Store:      &memStore{},
		Background: inlineBackground{},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapDirection(t *testing.T) {
	km := DefaultKeyMap()

	cases := map[string]core.Direction{
		"left":  core.DirLeft,
		"a":     core.DirLeft,
		"h":     core.DirLeft,
		"right": core.DirRight,
		"d":     core.DirRight,
		"l":     core.DirRight,
		"x":     core.DirNone,
	}
	for k, want := range cases {
		if got := km.Direction(keyMsg(k)); got != want {
			t.Errorf("Direction(%q) = %v, want %v", k, got, want)
		}
	}
}

func testTiles() []*track.Tile {
	return []*track.Tile{
		{Index: 0, First: true, Center: core.V3(0, 10, 0), Size: 1},
		{Index: 1, Position: track.PositionRight, Center: core.V3(2, 8, 0), Size: 1},
		{Index: 2, Position: track.PositionLeft, Center: core.V3(2, 6, 2), Size: 1,
			Spike: &track.Tile{Index: 2, Position: track.PositionRight, Hazard: true, Center: core.V3(4, 6, 0), Size: 1}},
	}
}

func TestDrawSceneProjectsTrack(t *testing.T) {
	s := core.NewScreen(40, 20)
	f := Frame{
		Snapshot: game.Snapshot{State: game.Playing{}},
		Tiles:    testTiles(),
		Cube:     core.Cube(core.V3(0, 11, 0), 1),
		Skin:     actor.Skin{Color: core.ColorOrange, Animation: "basic"},
	}

	DrawScene(s, f)

	// Camera centers the first tile at (width/2, height/3).
	if c := s.GetCell(20, 6); c.Rune != '█' || c.Color != core.ColorGray {
		t.Errorf("first tile cell = %q/%v", c.Rune, c.Color)
	}
	if c := s.GetCell(24, 9); c.Rune != '█' {
		t.Errorf("right tile cell = %q, want block", c.Rune)
	}
	if c := s.GetCell(20, 12); c.Rune != '█' || c.Color != core.ColorGray {
		t.Errorf("third tile cell = %q/%v", c.Rune, c.Color)
	}
	if c := s.GetCell(28, 12); c.Rune != '▲' || c.Color != core.ColorRed {
		t.Errorf("spike cell = %q/%v", c.Rune, c.Color)
	}
	if c := s.GetCell(20, 5); c.Rune != '█' || c.Color != core.ColorOrange {
		t.Errorf("cube cell = %q/%v", c.Rune, c.Color)
	}
}

func TestCameraIgnoresFalls(t *testing.T) {
	s := core.NewScreen(40, 20)
	tiles := testTiles()

	standing := newCamera(s, tiles, core.V3(2, 9, 0))
	falling := newCamera(s, tiles, core.V3(2, -20, 0))
	if standing.focus != falling.focus {
		t.Errorf("focus moved with a fall: %v vs %v", standing.focus, falling.focus)
	}
}

func TestCubeGlyph(t *testing.T) {
	if got := cubeGlyph("basic", core.Vec3{}, 0); got != "███" {
		t.Errorf("basic glyph = %q", got)
	}
	if cubeGlyph("pulse", core.Vec3{}, 0) == cubeGlyph("pulse", core.Vec3{}, 15) {
		t.Error("pulse glyph should alternate")
	}
	if cubeGlyph("spin", core.Vec3{}, 0) == cubeGlyph("spin", core.V3(0, 0, -math.Pi/4), 0) {
		t.Error("spin glyph should follow rotation")
	}
}

func TestDrawHUDOverlays(t *testing.T) {
	s := core.NewScreen(80, 24)
	DrawHUD(s, Frame{
		Snapshot:  game.Snapshot{State: game.Over{TimerExpired: true}, Score: 12, HighScore: 40, Timed: true, TimeLeft: 0},
		ModeTitle: "Time Attack",
	})

	out := s.String()
	for _, want := range []string{"SCORE 12", "BEST 40", "TIME UP", "Time Attack"} {
		if !strings.Contains(out, want) {
			t.Errorf("HUD missing %q", want)
		}
	}
}

func TestDrawHUDMenuListsCubes(t *testing.T) {
	s := core.NewScreen(80, 24)
	DrawHUD(s, Frame{
		Snapshot: game.Snapshot{
			State: game.Menu{},
			Cubes: []cubes.Cube{
				{ID: "classic", Name: "Classic", Unlocked: true, Selected: true},
				{ID: "ember", Name: "Ember", RequiredHighScore: 25, Cost: 150},
			},
		},
		ModeTitle: "Classic",
		Cursor:    1,
	})

	out := s.String()
	for _, want := range []string{"T I L E R O L L", "equipped", "> Ember", "best 25 or 150 cl"} {
		if !strings.Contains(out, want) {
			t.Errorf("menu missing %q", want)
		}
	}
}

func TestDrawHUDTinyScreen(t *testing.T) {
	s := core.NewScreen(10, 4)
	DrawHUD(s, Frame{Snapshot: game.Snapshot{State: game.Over{}}})
}

func TestModelStartsAndQuits(t *testing.T) {
	session := newTestSession(t)
	m := NewModel(session, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60})

	if _, ok := m.live.snap.State.(game.Menu); !ok {
		t.Fatalf("initial snapshot state = %v, want menu", m.live.snap.State)
	}

	next, _ := m.Update(keyMsg("enter"))
	m = next.(Model)
	if _, ok := session.State().(game.Playing); !ok {
		t.Fatalf("state after enter = %v, want playing", session.State())
	}

	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if _, ok := m.live.snap.State.(game.Playing); !ok {
		t.Errorf("published state = %v, want playing", m.live.snap.State)
	}
	if m.View() == "" {
		t.Error("View should render while playing")
	}

	next, cmd = m.Update(keyMsg("q"))
	m = next.(Model)
	if cmd == nil || !m.quitting {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("View should be empty after quit")
	}
}

func TestModelMenuCursorAndLockedCube(t *testing.T) {
	session := newTestSession(t)
	m := NewModel(session, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60})

	next, _ := m.Update(keyMsg("right"))
	m = next.(Model)
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}

	next, _ = m.Update(keyMsg("e"))
	m = next.(Model)
	if !strings.Contains(m.status, "locked") {
		t.Errorf("status = %q, want a locked message", m.status)
	}

	next, _ = m.Update(keyMsg("b"))
	m = next.(Model)
	if m.status != "not enough cubelets" {
		t.Errorf("status = %q, want not enough cubelets", m.status)
	}

	next, _ = m.Update(keyMsg("left"))
	m = next.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

type fakeSource struct {
	runs []storage.RunEntry
	top  []storage.LeaderboardEntry
	err  error
}

func (f fakeSource) TopRuns(_, _ string, _ int) ([]storage.RunEntry, error) { return f.runs, f.err }
func (f fakeSource) Top(int) ([]storage.LeaderboardEntry, error)            { return f.top, f.err }

func TestScoreboardTabs(t *testing.T) {
	src := fakeSource{
		runs: []storage.RunEntry{{Score: 30, Cause: "spike", Duration: 12 * time.Second, CreatedAt: time.Now()}},
		top:  []storage.LeaderboardEntry{{Player: "alice", Score: 99, UpdatedAt: time.Now()}},
	}
	m := NewScoreboardModel(src, "local", 100, 30)

	if len(m.tabs) < 3 || m.tabs[len(m.tabs)-1].ID != leaderboardTab {
		t.Fatalf("tabs = %v, want modes then leaderboard", m.tabs)
	}
	if len(m.rows) != 1 || m.rows[0][1] != "30" {
		t.Errorf("run rows = %v", m.rows)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if m.current().ID != leaderboardTab {
		t.Fatalf("shift+tab from the first tab should wrap to the leaderboard, got %q", m.current().ID)
	}
	if len(m.rows) != 1 || m.rows[0][1] != "alice" {
		t.Errorf("leaderboard rows = %v", m.rows)
	}
	if !strings.Contains(m.View(), "Leaderboard") {
		t.Error("view should name the leaderboard tab")
	}
}

func TestScoreboardLoadError(t *testing.T) {
	m := NewScoreboardModel(fakeSource{err: errors.New("db locked")}, "local", 60, 20)
	if !strings.Contains(m.View(), "db locked") {
		t.Error("view should show the load error")
	}
}

func TestMouseDragSwipes(t *testing.T) {
	session := newTestSession(t)
	m := NewModel(session, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60})
	session.StartGame()

	drag := []tea.MouseMsg{
		{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		{X: 12, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
		{X: 16, Y: 6, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	}
	for _, msg := range drag {
		next, _ := m.Update(msg)
		m = next.(Model)
	}

	if !session.Cube().IsMoving() {
		t.Error("a rightward drag should start a hop")
	}
}

func TestTouchFromMouseIgnoresOtherButtons(t *testing.T) {
	if _, ok := touchFromMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight}); ok {
		t.Error("right button press should not begin a touch")
	}
	e, ok := touchFromMouse(tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !ok || e.X != 3 || e.Y != 8 {
		t.Errorf("touch = %+v ok=%v, want (3,8)", e, ok)
	}
}
