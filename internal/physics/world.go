package physics

import (
	"github.com/vovakirdan/tileroll/internal/config"
	"github.com/vovakirdan/tileroll/internal/track"
)

// Contact is a contact-begin event between the actor and a static body.
type Contact struct {
	Actor *RigidBody
	Body  *Body
}

// World holds the actor and the static bodies. It implements track.ScenePort.
// World is not safe for concurrent use; it is stepped from the host tick.
type World struct {
	cfg      config.PhysicsConfig
	actor    *RigidBody
	statics  []*Body
	byTile   map[*track.Tile][]*Body
	touching map[*Body]bool
	onBegin  func(Contact)
}

var _ track.ScenePort = (*World)(nil)

// NewWorld creates an empty world.
func NewWorld(cfg config.PhysicsConfig) *World {
	return &World{
		cfg:      cfg,
		byTile:   make(map[*track.Tile][]*Body),
		touching: make(map[*Body]bool),
	}
}

// SetActor installs the dynamic body.
func (w *World) SetActor(a *RigidBody) {
	w.actor = a
	w.touching = make(map[*Body]bool)
}

// Actor returns the dynamic body.
func (w *World) Actor() *RigidBody {
	return w.actor
}

// OnContactBegin registers the contact-begin callback.
func (w *World) OnContactBegin(fn func(Contact)) {
	w.onBegin = fn
}

// AttachTile adds a tile, its dead-zone and its spike to the world.
func (w *World) AttachTile(t *track.Tile) {
	bodies := []*Body{tileBody(t)}
	if t.DeadZone != nil {
		bodies = append(bodies, deadZoneBody(t))
	}
	if t.Spike != nil {
		bodies = append(bodies, tileBody(t.Spike))
	}
	w.byTile[t] = bodies
	w.statics = append(w.statics, bodies...)
}

// DetachTile removes a tile and everything attached with it.
func (w *World) DetachTile(t *track.Tile) {
	for _, b := range w.byTile[t] {
		w.RemoveBody(b)
	}
	delete(w.byTile, t)
}

// AddBody adds a free-standing static body.
func (w *World) AddBody(b *Body) {
	w.statics = append(w.statics, b)
}

// RemoveBody removes a static body. Unknown bodies are ignored.
func (w *World) RemoveBody(b *Body) {
	for i, s := range w.statics {
		if s == b {
			w.statics = append(w.statics[:i], w.statics[i+1:]...)
			break
		}
	}
	delete(w.touching, b)
}

// Bodies returns the static bodies in attach order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, len(w.statics))
	copy(out, w.statics)
	return out
}

// Step advances the actor by dt seconds and delivers contact-begin events.
func (w *World) Step(dt float64) {
	a := w.actor
	if a == nil {
		return
	}

	if !a.Kinematic {
		w.integrate(a, dt)
	}

	begins := w.detectContacts(a)
	if w.onBegin == nil {
		return
	}
	for _, b := range begins {
		// An earlier callback may have detached this body.
		if !w.touching[b] {
			continue
		}
		w.onBegin(Contact{Actor: a, Body: b})
	}
}

func (w *World) integrate(a *RigidBody, dt float64) {
	prevBottom := a.Box.Bottom()

	a.Velocity.Y += w.cfg.Gravity * dt
	if w.cfg.MaxFallSpeed > 0 && a.Velocity.Y < -w.cfg.MaxFallSpeed {
		a.Velocity.Y = -w.cfg.MaxFallSpeed
	}
	a.Box = a.Box.Translate(a.Velocity.Scale(dt))
	a.Rotation = a.Rotation.Add(a.AngularVelocity.Scale(dt))
	a.Resting = false

	support := w.support(a, prevBottom)
	if support == nil {
		return
	}
	a.Box.Center.Y = support.Box.Top() + a.Box.Half.Y
	a.Halt()
	a.Resting = true
}

// support returns the highest collidable body whose top the actor crossed
// during the last translation.
func (w *World) support(a *RigidBody, prevBottom float64) *Body {
	var best *Body
	bottom := a.Box.Bottom()
	for _, b := range w.statics {
		if a.CollisionMask&b.Category == 0 || b.CollisionMask&a.Category == 0 {
			continue
		}
		top := b.Box.Top()
		if prevBottom < top-w.cfg.ContactEps || bottom >= top {
			continue
		}
		if !a.Box.OverlapsXZ(b.Box) {
			continue
		}
		if best == nil || top > best.Box.Top() {
			best = b
		}
	}
	return best
}

func (w *World) detectContacts(a *RigidBody) []*Body {
	current := make(map[*Body]bool, len(w.touching))
	var begins []*Body
	for _, b := range w.statics {
		if a.ContactTestMask&b.Category == 0 {
			continue
		}
		if !a.Box.Touches(b.Box, w.cfg.ContactEps) {
			continue
		}
		current[b] = true
		if !w.touching[b] {
			begins = append(begins, b)
		}
	}
	w.touching = current
	return begins
}
