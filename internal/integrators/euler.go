package integrators

import (
	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
)

// Integrator advances a single body by dt using its pending impulse, and
// consumes that impulse.
type Integrator interface {
	Name() string
	Step(b *physics.Body, dt float64)
}

// SymplecticEuler is the engine's stepper: velocity first, then position
// from the updated velocity.
//
// The pending impulse is treated as a force and scaled by dt/m, so a body
// whose impulse was accumulated as force·dt sees dt applied twice. The
// engine keeps that scaling.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (e *SymplecticEuler) Name() string { return "euler" }

func (e *SymplecticEuler) Step(b *physics.Body, dt float64) {
	f := b.ResetImpulse()
	dv := dynamo.Scale(f, dt/b.Mass())
	b.SetVelocity(dynamo.Add(b.Velocity(), dv))
	b.Advance(dt)
}

// ExplicitEuler moves the body along its old velocity before applying the
// impulse. Only used to compare energy behaviour against SymplecticEuler.
type ExplicitEuler struct{}

func NewExplicitEuler() *ExplicitEuler {
	return &ExplicitEuler{}
}

func (e *ExplicitEuler) Name() string { return "explicit" }

func (e *ExplicitEuler) Step(b *physics.Body, dt float64) {
	f := b.ResetImpulse()
	b.Advance(dt)
	dv := dynamo.Scale(f, dt/b.Mass())
	b.SetVelocity(dynamo.Add(b.Velocity(), dv))
}
