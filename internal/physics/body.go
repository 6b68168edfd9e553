// Package physics is a minimal rigid-body host for the track.
//
// It steps a single dynamic actor under gravity against static tile bodies,
// resolves landings on tile tops, and reports contact-begin events filtered
// by category bit masks.
package physics

import (
	"github.com/vovakirdan/tileroll/internal/core"
	"github.com/vovakirdan/tileroll/internal/track"
)

// Category bits. Dead-zones and spikes share the hazard bit.
const (
	CategoryPlayer uint32 = 1 << iota
	CategoryTile
	CategoryHazard
)

// Body is a static collider.
type Body struct {
	Box             core.AABB
	Category        uint32
	CollisionMask   uint32 // Categories this body is pushed out of
	ContactTestMask uint32 // Categories that raise contact-begin events
	Tile            *track.Tile
}

// IsHazard reports whether the body carries the hazard bit.
func (b *Body) IsHazard() bool {
	return b.Category&CategoryHazard != 0
}

// IsTile reports whether the body carries the tile bit.
func (b *Body) IsTile() bool {
	return b.Category&CategoryTile != 0
}

// RigidBody is the dynamic actor body.
type RigidBody struct {
	Body
	Velocity        core.Vec3
	AngularVelocity core.Vec3
	Rotation        core.Vec3 // Euler angles in radians
	Mass            float64
	Kinematic       bool // Driven by an action; gravity and collision response are skipped
	Resting         bool // Supported by a tile after the last step
}

// NewPlayerBody creates the actor body for a cube of the given edge length.
func NewPlayerBody(center core.Vec3, size, mass float64) *RigidBody {
	return &RigidBody{
		Body: Body{
			Box:             core.Cube(center, size),
			Category:        CategoryPlayer,
			CollisionMask:   CategoryTile,
			ContactTestMask: CategoryTile | CategoryHazard,
		},
		Mass: mass,
	}
}

// ApplyImpulse changes velocity by j / mass.
func (r *RigidBody) ApplyImpulse(j core.Vec3) {
	m := r.Mass
	if m <= 0 {
		m = 1
	}
	r.Velocity = r.Velocity.Add(j.Scale(1 / m))
	r.Resting = false
}

// Halt zeroes linear and angular velocity.
func (r *RigidBody) Halt() {
	r.Velocity = core.Vec3{}
	r.AngularVelocity = core.Vec3{}
}

// Speed returns the magnitude of the linear velocity.
func (r *RigidBody) Speed() float64 {
	return r.Velocity.Len()
}

// tileBody creates the collider for a track tile.
func tileBody(t *track.Tile) *Body {
	cat := CategoryTile
	if t.Hazard {
		cat |= CategoryHazard
	}
	return &Body{
		Box:             t.Box(),
		Category:        cat,
		CollisionMask:   CategoryPlayer,
		ContactTestMask: CategoryPlayer,
		Tile:            t,
	}
}

// deadZoneBody creates the sensor under a tile's gap.
func deadZoneBody(t *track.Tile) *Body {
	return &Body{
		Box:             t.DeadZone.Box,
		Category:        CategoryHazard,
		ContactTestMask: CategoryPlayer,
		Tile:            t,
	}
}

// NewKillFloor creates a wide hazard sensor. Anything that falls off the
// track eventually reaches it.
func NewKillFloor(center core.Vec3, width float64) *Body {
	return &Body{
		Box:             core.NewAABB(center, core.V3(width, 1, width)),
		Category:        CategoryHazard,
		ContactTestMask: CategoryPlayer,
	}
}
