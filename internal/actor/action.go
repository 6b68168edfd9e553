package actor

import (
	"math"

	"github.com/vovakirdan/tileroll/internal/core"
	"github.com/vovakirdan/tileroll/internal/physics"
)

// motion writes one component of a move into the body at progress u in [0, 1].
type motion func(b *physics.RigidBody, u float64)

// group runs motions side by side over one duration and finishes once.
type group struct {
	duration float64
	elapsed  float64
	motions  []motion
}

// advance applies all motions at the new progress and reports completion.
func (g *group) advance(b *physics.RigidBody, dt float64) bool {
	g.elapsed += dt
	u := 1.0
	if g.duration > 0 {
		u = core.ClampF(g.elapsed/g.duration, 0, 1)
	}
	for _, m := range g.motions {
		m(b, u)
	}
	return u >= 1
}

// translate moves the body linearly from one center to another.
func translate(from, offset core.Vec3) motion {
	return func(b *physics.RigidBody, u float64) {
		b.Box.Center = from.Add(offset.Scale(u))
	}
}

// jump lifts the body along a rise-then-fall arc on top of the translation.
// It must run after translate.
func jump(height float64) motion {
	return func(b *physics.RigidBody, u float64) {
		var h float64
		if u < 0.5 {
			h = height * core.EaseOut(2*u)
		} else {
			h = height * (1 - core.EaseIn(2*u-1))
		}
		b.Box.Center.Y += h
	}
}

// rotate turns the body by angle radians about axis.
func rotate(axis core.Vec3, angle float64) motion {
	return func(b *physics.RigidBody, u float64) {
		b.Rotation = axis.Scale(angle * u)
	}
}

// moveFor builds the grouped hop for a swipe.
func moveFor(from core.Vec3, dir core.Direction, step, height, duration float64) *group {
	var offset, axis core.Vec3
	var angle float64
	switch dir {
	case core.DirRight:
		offset = core.V3(step, -step, 0)
		axis = core.V3(0, 0, 1)
		angle = -math.Pi / 2
	default:
		offset = core.V3(0, -step, step)
		axis = core.V3(1, 0, 0)
		angle = math.Pi / 2
	}
	return &group{
		duration: duration,
		motions: []motion{
			translate(from, offset),
			jump(height),
			rotate(axis, angle),
		},
	}
}
