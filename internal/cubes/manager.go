// Package cubes manages the cosmetic cube catalog: which cubes are unlocked,
// which one is selected, and cubelet purchases.
//
// A cube is unlocked when the high score reaches its threshold or when it
// has been bought with cubelets. Exactly one unlocked cube is selected.
package cubes

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vovakirdan/tileroll/internal/config"
	"github.com/vovakirdan/tileroll/internal/core"
)

var (
	ErrUnknown              = errors.New("cubes: unknown cube")
	ErrLocked               = errors.New("cubes: cube is locked")
	ErrNotForSale           = errors.New("cubes: cube cannot be bought")
	ErrInsufficientCubelets = errors.New("cubes: not enough cubelets")
)

// Cube is a catalog entry with its derived flags.
type Cube struct {
	ID                string
	Name              string
	Color             core.Color
	Animation         string
	RequiredHighScore int
	Cost              int
	Purchased         bool
	Unlocked          bool
	Selected          bool
}

// Manager holds catalog state. It is not safe for concurrent use.
type Manager struct {
	catalog   []config.CubeConfig
	colors    map[string]core.Color
	purchased map[string]bool
	highScore int
	selected  string
}

// NewManager creates a manager for catalog. The first cube is the default
// and must be free at high score zero.
func NewManager(catalog []config.CubeConfig) (*Manager, error) {
	if len(catalog) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", config.ErrInvalid)
	}
	if catalog[0].RequiredHighScore != 0 {
		return nil, fmt.Errorf("%w: default cube %q requires a high score", config.ErrInvalid, catalog[0].ID)
	}

	colors := make(map[string]core.Color, len(catalog))
	for _, c := range catalog {
		col, ok := core.ParseColor(c.Color)
		if !ok {
			return nil, fmt.Errorf("%w: cube %q has unknown color %q", config.ErrInvalid, c.ID, c.Color)
		}
		colors[c.ID] = col
	}

	return &Manager{
		catalog:   catalog,
		colors:    colors,
		purchased: make(map[string]bool),
		selected:  catalog[0].ID,
	}, nil
}

func (m *Manager) find(id string) (config.CubeConfig, bool) {
	for _, c := range m.catalog {
		if c.ID == id {
			return c, true
		}
	}
	return config.CubeConfig{}, false
}

func (m *Manager) unlocked(c config.CubeConfig) bool {
	return m.highScore >= c.RequiredHighScore || m.purchased[c.ID]
}

// SetHighScore updates the score used to derive unlocks.
func (m *Manager) SetHighScore(score int) {
	if score > m.highScore {
		m.highScore = score
	}
}

// SetPurchased replaces the set of bought cubes. Unknown ids are dropped.
func (m *Manager) SetPurchased(ids []string) {
	m.purchased = make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := m.find(id); ok {
			m.purchased[id] = true
		}
	}
}

// Purchased returns the bought cube ids, sorted.
func (m *Manager) Purchased() []string {
	ids := make([]string, 0, len(m.purchased))
	for id := range m.purchased {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsUnlocked reports whether the cube can be selected.
func (m *Manager) IsUnlocked(id string) bool {
	c, ok := m.find(id)
	return ok && m.unlocked(c)
}

// Cubes returns the catalog with derived flags, in catalog order.
func (m *Manager) Cubes() []Cube {
	out := make([]Cube, 0, len(m.catalog))
	for _, c := range m.catalog {
		out = append(out, m.view(c))
	}
	return out
}

func (m *Manager) view(c config.CubeConfig) Cube {
	return Cube{
		ID:                c.ID,
		Name:              c.Name,
		Color:             m.colors[c.ID],
		Animation:         c.Animation,
		RequiredHighScore: c.RequiredHighScore,
		Cost:              c.Cost,
		Purchased:         m.purchased[c.ID],
		Unlocked:          m.unlocked(c),
		Selected:          c.ID == m.selected,
	}
}

// Selected returns the selected cube.
func (m *Manager) Selected() Cube {
	c, _ := m.find(m.selected)
	return m.view(c)
}

// Select makes an unlocked cube the selected one.
func (m *Manager) Select(id string) error {
	c, ok := m.find(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknown, id)
	}
	if !m.unlocked(c) {
		return fmt.Errorf("%w: %q needs high score %d", ErrLocked, id, c.RequiredHighScore)
	}
	m.selected = id
	return nil
}

// Restore applies a persisted selection. Unknown or locked ids fall back to
// the default cube; it reports whether id was applied.
func (m *Manager) Restore(id string) bool {
	if err := m.Select(id); err != nil {
		m.selected = m.catalog[0].ID
		return false
	}
	return true
}

// Purchase spends cubelets to unlock a cube and returns the remaining balance.
// Buying a cube that is already unlocked costs nothing.
func (m *Manager) Purchase(id string, cubelets int) (int, error) {
	c, ok := m.find(id)
	if !ok {
		return cubelets, fmt.Errorf("%w: %q", ErrUnknown, id)
	}
	if m.unlocked(c) {
		return cubelets, nil
	}
	if c.Cost <= 0 {
		return cubelets, fmt.Errorf("%w: %q", ErrNotForSale, id)
	}
	if cubelets < c.Cost {
		return cubelets, fmt.Errorf("%w: %q costs %d, have %d", ErrInsufficientCubelets, id, c.Cost, cubelets)
	}
	m.purchased[id] = true
	return cubelets - c.Cost, nil
}
