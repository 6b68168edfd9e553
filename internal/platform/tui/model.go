package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tileroll/internal/core"
	"github.com/vovakirdan/tileroll/internal/cubes"
	"github.com/vovakirdan/tileroll/internal/game"
	"github.com/vovakirdan/tileroll/internal/input"
)

// statusSeconds is how long a status message stays up.
const statusSeconds = 2

// live receives published snapshots. It is shared by every copy of Model.
type live struct {
	snap        game.Snapshot
	unsubscribe func()
}

// Model is the Bubble Tea model driving one game.Session.
type Model struct {
	session  *game.Session
	screen   *core.Screen
	config   core.RuntimeConfig
	keys     KeyMap
	help     help.Model
	live     *live
	swipe    *input.SwipeRecognizer
	ticks    int
	cursor   int
	status   string
	statusAt int
	quitting bool
}

// NewModel creates a model for session sized by cfg.
func NewModel(session *game.Session, cfg core.RuntimeConfig) Model {
	l := &live{}
	l.unsubscribe = session.Subscribe(func(s game.Snapshot) {
		l.snap = s
	})

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		session: session,
		screen:  core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		config:  cfg,
		keys:    DefaultKeyMap(),
		help:    h,
		live:    l,
		swipe:   input.NewSwipeRecognizer(mouseSwipeThreshold),
		cursor:  selectedIndex(l.snap),
	}
}

func selectedIndex(s game.Snapshot) int {
	for i, c := range s.Cubes {
		if c.ID == s.Selected.ID {
			return i
		}
	}
	return 0
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case tea.MouseMsg:
		if e, ok := touchFromMouse(msg); ok {
			if dir := m.swipe.Touch(e); dir.Valid() {
				if _, playing := m.session.State().(game.Playing); playing {
					m.session.HandleSwipe(dir)
				}
			}
		}
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.live.unsubscribe()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	switch m.session.State().(type) {
	case game.Playing:
		if dir := m.keys.Direction(msg); dir.Valid() {
			m.session.HandleSwipe(dir)
		}

	case game.Menu:
		n := len(m.live.snap.Cubes)
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.session.StartGame()
		case key.Matches(msg, m.keys.Left) && n > 0:
			m.cursor = (m.cursor + n - 1) % n
		case key.Matches(msg, m.keys.Right) && n > 0:
			m.cursor = (m.cursor + 1) % n
		case key.Matches(msg, m.keys.Equip) && n > 0:
			m.setStatus(m.session.SelectCube(m.live.snap.Cubes[m.cursor].ID), "")
		case key.Matches(msg, m.keys.Buy) && n > 0:
			c := m.live.snap.Cubes[m.cursor]
			m.setStatus(m.session.PurchaseCube(c.ID), fmt.Sprintf("bought %s", c.Name))
		}

	case game.Over:
		if key.Matches(msg, m.keys.Confirm) {
			m.session.ReturnToMenu()
			m.cursor = selectedIndex(m.session.Snapshot())
		}
	}
	return m, nil
}

// setStatus shows err as a message, or ok when err is nil.
func (m *Model) setStatus(err error, ok string) {
	switch {
	case errors.Is(err, cubes.ErrLocked):
		m.status = "locked: beat the required best score or buy it"
	case errors.Is(err, cubes.ErrInsufficientCubelets):
		m.status = "not enough cubelets"
	case errors.Is(err, cubes.ErrNotForSale):
		m.status = "this cube can only be earned"
	case err != nil:
		m.status = err.Error()
	default:
		m.status = ok
	}
	m.statusAt = m.ticks
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.session.Step(m.config.TickDuration())
	m.ticks++
	if m.status != "" && m.ticks-m.statusAt > statusSeconds*max(m.config.TickRate, 1) {
		m.status = ""
	}
	return m, tickCmd(m.config.TickRate)
}

func (m Model) frame() Frame {
	f := FrameOf(m.session, m.ticks, m.cursor, m.status)
	f.Snapshot = m.live.snap
	return f
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.draw()

	dir := filepath.Join(os.Getenv("HOME"), ".tileroll", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("tileroll_%s.txt", time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

func (m Model) draw() {
	f := m.frame()
	m.screen.Clear()
	DrawScene(m.screen, f)
	DrawHUD(m.screen, f)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys))
	return RenderScreen(m.screen) + "\n" + footer
}

// Run starts the Bubble Tea program for session.
func Run(session *game.Session, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(session, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
