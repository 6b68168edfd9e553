package track

import (
	"errors"
	"math/rand"

	"github.com/google/uuid"

	"github.com/vovakirdan/tileroll/internal/config"
	"github.com/vovakirdan/tileroll/internal/core"
)

// Generator owns the tile window and the placement cursor.
type Generator struct {
	cfg    config.TrackConfig
	scene  ScenePort
	policy HazardPolicy
	rng    *rand.Rand

	tiles      []*Tile // Oldest first
	cursor     Coordinates
	next       int // Index of the next tile to place
	lastHazard int // Index of the most recent spike, -1 if none
}

// New creates a generator. The window is empty until Seed is called.
func New(cfg config.TrackConfig, scene ScenePort, policy HazardPolicy, rng *rand.Rand) (*Generator, error) {
	if scene == nil {
		return nil, errors.New("track: nil scene port")
	}
	if cfg.Step <= 0 || cfg.TileSize <= 0 || cfg.Retention < 2 {
		return nil, errors.New("track: invalid track geometry")
	}
	if policy == nil {
		policy = NoHazards{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Generator{
		cfg:        cfg,
		scene:      scene,
		policy:     policy,
		rng:        rng,
		tiles:      make([]*Tile, 0, cfg.Retention),
		lastHazard: -1,
	}, nil
}

// Seed places the initial tiles starting at the origin.
func (g *Generator) Seed() {
	for i := 0; i < g.cfg.InitialTiles; i++ {
		g.Extend()
	}
}

// Extend appends one tile, first removing the oldest tile if the window is full.
// It returns the new tile.
func (g *Generator) Extend() *Tile {
	if len(g.tiles) >= g.cfg.Retention {
		oldest := g.tiles[0]
		g.tiles[0] = nil
		g.tiles = g.tiles[1:]
		g.scene.DetachTile(oldest)
	}

	t := g.place()
	g.tiles = append(g.tiles, t)
	g.scene.AttachTile(t)
	return t
}

func (g *Generator) place() *Tile {
	idx := g.next
	g.next++

	pos := PositionLeft
	if g.rng.Intn(2) == 1 {
		pos = PositionRight
	}

	t := &Tile{
		ID:       uuid.New(),
		Index:    idx,
		Position: pos,
		Size:     g.cfg.TileSize,
	}

	if idx == 0 {
		o := g.cfg.OriginVec()
		g.cursor = Coordinates{X: o.X, Y: o.Y, Z: o.Z}
		t.First = true
		t.Center = o
		return t
	}

	prev := g.cursor
	g.cursor = prev.Advance(pos, g.cfg.Step)
	t.Center = g.cursor.Vec()

	// The gap is the cell the other swipe would have reached.
	other := PositionLeft
	if pos == PositionLeft {
		other = PositionRight
	}
	gap := prev.Advance(other, g.cfg.Step).Vec()

	// Spikes stand on the gap cell, never on the path, so the right swipe
	// always dodges them.
	sinceLast := idx
	if g.lastHazard >= 0 {
		sinceLast = idx - g.lastHazard
	}
	if g.policy.Hazard(idx, sinceLast) {
		t.Spike = &Tile{
			ID:       uuid.New(),
			Index:    idx,
			Position: other,
			Hazard:   true,
			Center:   gap,
			Size:     g.cfg.TileSize,
		}
		g.lastHazard = idx
	}

	top := t.Top().Y - g.cfg.DeadZoneDrop
	depth := g.cfg.DeadZoneDepth
	if depth <= 0 {
		depth = g.cfg.TileSize / 2
	}
	t.DeadZone = &DeadZone{
		Box: core.NewAABB(
			core.V3(gap.X, top-depth/2, gap.Z),
			core.V3(g.cfg.TileSize, depth, g.cfg.TileSize),
		),
	}
	return t
}

// Tiles returns the retained tiles, oldest first.
func (g *Generator) Tiles() []*Tile {
	out := make([]*Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}

// Len returns the number of retained tiles.
func (g *Generator) Len() int {
	return len(g.tiles)
}

// Cursor returns the current placement cursor.
func (g *Generator) Cursor() Coordinates {
	return g.cursor
}

// ResetContacts clears every tile's contact-handled flag.
func (g *Generator) ResetContacts() {
	for _, t := range g.tiles {
		t.ContactHandled = false
	}
}

// Regenerate detaches every tile and seeds a fresh window from the origin.
func (g *Generator) Regenerate() {
	for _, t := range g.tiles {
		g.scene.DetachTile(t)
	}
	g.tiles = make([]*Tile, 0, g.cfg.Retention)
	g.next = 0
	g.lastHazard = -1
	g.cursor = Coordinates{}
	g.Seed()
}
