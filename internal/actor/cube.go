// Package actor implements the player cube: a rigid body that hops one tile
// per swipe through a timed, non-interruptible grouped action.
package actor

import (
	"errors"

	"github.com/vovakirdan/tileroll/internal/config"
	"github.com/vovakirdan/tileroll/internal/core"
	"github.com/vovakirdan/tileroll/internal/physics"
)

// Skin is the cube's visual material. Changing it never touches physics.
type Skin struct {
	Color     core.Color
	Animation string
}

// Cube is the player actor.
type Cube struct {
	body     *physics.RigidBody
	cfg      config.PlayerConfig
	step     float64
	duration float64
	skin     Skin

	action *group
	done   func()
}

// New creates a cube at the configured spawn position.
func New(cfg config.PlayerConfig, step float64) (*Cube, error) {
	if cfg.Size <= 0 || cfg.MoveDuration <= 0 || step <= 0 {
		return nil, errors.New("actor: invalid cube geometry")
	}
	return &Cube{
		body:     physics.NewPlayerBody(cfg.InitialVec(), cfg.Size, cfg.Mass),
		cfg:      cfg,
		step:     step,
		duration: cfg.MoveDuration,
		skin:     Skin{Color: core.ColorWhite, Animation: "basic"},
	}, nil
}

// Body returns the cube's rigid body.
func (c *Cube) Body() *physics.RigidBody {
	return c.body
}

// Position returns the cube's center.
func (c *Cube) Position() core.Vec3 {
	return c.body.Box.Center
}

// Rotation returns the cube's Euler rotation in radians.
func (c *Cube) Rotation() core.Vec3 {
	return c.body.Rotation
}

// IsMoving reports whether a hop is in flight.
func (c *Cube) IsMoving() bool {
	return c.action != nil
}

// SetMoveDuration changes the duration of subsequent hops.
func (c *Cube) SetMoveDuration(d float64) {
	if d > 0 {
		c.duration = d
	}
}

// Move starts a hop in dir. It returns false without side effects if a hop
// is already in flight or dir is not a movement direction. done runs exactly
// once, from Step, when the hop completes.
func (c *Cube) Move(dir core.Direction, done func()) bool {
	if c.action != nil || !dir.Valid() {
		return false
	}
	c.body.Halt()
	c.body.Rotation = core.Vec3{}
	c.body.Kinematic = true
	c.body.Resting = false
	c.action = moveFor(c.body.Box.Center, dir, c.step, c.cfg.JumpHeight, c.duration)
	c.done = done
	return true
}

// Step advances the in-flight hop, if any.
func (c *Cube) Step(dt float64) {
	if c.action == nil {
		return
	}
	if !c.action.advance(c.body, dt) {
		return
	}
	done := c.done
	c.action = nil
	c.done = nil
	c.body.Kinematic = false
	if done != nil {
		done()
	}
}

// Stop zeroes linear and angular velocity.
func (c *Cube) Stop() {
	c.body.Halt()
}

// Reset stops the cube, drops any hop in flight without completing it, and
// restores the spawn position and rotation.
func (c *Cube) Reset() {
	c.Stop()
	c.action = nil
	c.done = nil
	c.body.Kinematic = false
	c.body.Resting = false
	c.body.Rotation = core.Vec3{}
	c.body.Box.Center = c.cfg.InitialVec()
}

// ApplyGameOverImpulse knocks the cube downward off the track.
func (c *Cube) ApplyGameOverImpulse() {
	c.body.ApplyImpulse(core.V3(0, -c.cfg.GameOverImpulse, 0))
}

// IsAtRest reports whether the cube is supported and not moving.
func (c *Cube) IsAtRest(restSpeed float64) bool {
	return c.action == nil && c.body.Resting && c.body.Speed() <= restSpeed
}

// SnapTo aligns a resting cube with the center of a tile's upper face so
// float drift never accumulates across hops.
func (c *Cube) SnapTo(top core.Vec3) {
	if c.action != nil {
		return
	}
	c.body.Box.Center = core.V3(top.X, top.Y+c.body.Box.Half.Y, top.Z)
}

// UpdateModel swaps the visual skin.
func (c *Cube) UpdateModel(s Skin) {
	c.skin = s
}

// Skin returns the current skin.
func (c *Cube) Skin() Skin {
	return c.skin
}
