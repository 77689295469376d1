package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/cowsim/internal/dynamo"
)

// Body is a circular point mass. The zero value is not usable; construct
// bodies with NewBody so mass and radius are validated.
type Body struct {
	pos     dynamo.Vec2
	vel     dynamo.Vec2
	impulse dynamo.Vec2
	radius  float64
	mass    float64
	member  bool
}

// NewBody validates mass and radius and returns a body with zero pending impulse.
func NewBody(pos, vel dynamo.Vec2, radius, mass float64, member bool) (*Body, error) {
	if !positiveFinite(mass) {
		return nil, fmt.Errorf("mass %v: %w", mass, dynamo.ErrInvalidBody)
	}
	if !positiveFinite(radius) {
		return nil, fmt.Errorf("radius %v: %w", radius, dynamo.ErrInvalidBody)
	}
	if !dynamo.IsFinite(pos) || !dynamo.IsFinite(vel) {
		return nil, fmt.Errorf("position %v velocity %v: %w", pos, vel, dynamo.ErrInvalidBody)
	}
	return &Body{
		pos:    pos,
		vel:    vel,
		radius: radius,
		mass:   mass,
		member: member,
	}, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func (b *Body) Position() dynamo.Vec2 { return b.pos }
func (b *Body) Velocity() dynamo.Vec2 { return b.vel }
func (b *Body) Impulse() dynamo.Vec2  { return b.impulse }
func (b *Body) Radius() float64       { return b.radius }
func (b *Body) Mass() float64         { return b.mass }
func (b *Body) IsSystemMember() bool  { return b.member }

func (b *Body) SetPosition(p dynamo.Vec2) { b.pos = p }
func (b *Body) SetVelocity(v dynamo.Vec2) { b.vel = v }

// ApplyImpulse adds f to the pending impulse for the current step.
func (b *Body) ApplyImpulse(f dynamo.Vec2) { b.impulse = dynamo.Add(b.impulse, f) }

// ResetImpulse clears the pending impulse and returns what was accumulated.
func (b *Body) ResetImpulse() dynamo.Vec2 {
	f := b.impulse
	b.impulse = dynamo.Zero
	return f
}

// Advance moves the body along its current velocity for dt.
func (b *Body) Advance(dt float64) {
	b.pos = dynamo.Add(b.pos, dynamo.Scale(b.vel, dt))
}

// KineticEnergy returns m|v|²/2.
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.mass * dynamo.Dot(b.vel, b.vel)
}

// IsFinite reports whether position and velocity are free of NaN and Inf.
func (b *Body) IsFinite() bool {
	return dynamo.IsFinite(b.pos) && dynamo.IsFinite(b.vel)
}

// Snapshot returns a copy of the body's observable state.
func (b *Body) Snapshot() Snapshot {
	return Snapshot{
		Position: b.pos,
		Velocity: b.vel,
		Radius:   b.radius,
		Mass:     b.mass,
		Member:   b.member,
	}
}

// Clone returns an independent copy, including the pending impulse.
func (b *Body) Clone() *Body {
	c := *b
	return &c
}

// Snapshot is a read-only copy of a body, handed to renderers and stores.
type Snapshot struct {
	Position dynamo.Vec2 `json:"position"`
	Velocity dynamo.Vec2 `json:"velocity"`
	Radius   float64     `json:"radius"`
	Mass     float64     `json:"mass"`
	Member   bool        `json:"member"`
}
