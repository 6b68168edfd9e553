// Package track generates the zig-zag tile corridor the cube rolls across.
//
// The generator keeps a bounded FIFO window of tiles. Each new tile drops one
// step in y and advances one step along x (Right) or z (Left) from the
// previous tile. Tiles are plain data; the only scene mutation is the
// attach/detach pair on ScenePort.
package track

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/tileroll/internal/core"
)

// Position is the lateral class of a tile relative to its predecessor.
type Position int

const (
	PositionLeft  Position = iota // Advanced along +z
	PositionRight                 // Advanced along +x
)

// String returns a human-readable name for the position.
func (p Position) String() string {
	if p == PositionRight {
		return "Right"
	}
	return "Left"
}

// Direction returns the swipe that reaches a tile of this class.
func (p Position) Direction() core.Direction {
	if p == PositionRight {
		return core.DirRight
	}
	return core.DirLeft
}

// Offset returns the displacement from the previous tile for this class.
func (p Position) Offset(step float64) core.Vec3 {
	if p == PositionRight {
		return core.V3(step, -step, 0)
	}
	return core.V3(0, -step, step)
}

// Tile is one track segment.
type Tile struct {
	ID             uuid.UUID
	Index          int // Sequence number since the last seed; the first tile is 0
	Position       Position
	Hazard         bool // Spike tile: any contact ends the run
	First          bool
	Center         core.Vec3
	Size           float64
	ContactHandled bool      // Set by the contact resolver on first landing
	DeadZone       *DeadZone // nil for the first tile and for hazards
	Spike          *Tile     // Hazard standing on the gap cell next to this tile, or nil
}

// DeadZone is an invisible slab under the gap next to a tile.
// A cube that hops the wrong way falls past the tile's level and into it.
type DeadZone struct {
	Box core.AABB
}

// Box returns the tile's collision box.
func (t *Tile) Box() core.AABB {
	return core.Cube(t.Center, t.Size)
}

// Top returns the center of the tile's upper face.
func (t *Tile) Top() core.Vec3 {
	return core.V3(t.Center.X, t.Center.Y+t.Size/2, t.Center.Z)
}

// Coordinates is the running placement cursor. It holds the center of the
// most recently placed tile.
type Coordinates struct {
	X, Y, Z float64
}

// Vec returns the cursor as a vector.
func (c Coordinates) Vec() core.Vec3 {
	return core.V3(c.X, c.Y, c.Z)
}

// Advance moves the cursor one tile in the given class.
func (c Coordinates) Advance(p Position, step float64) Coordinates {
	c.Y -= step
	if p == PositionRight {
		c.X += step
	} else {
		c.Z += step
	}
	return c
}

// ScenePort receives tiles as they enter and leave the window.
type ScenePort interface {
	AttachTile(t *Tile)
	DetachTile(t *Tile)
}
