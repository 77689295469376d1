package integrators

import (
	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
)

// ImpulseEuler reads the pending impulse as momentum already integrated over
// the step, so dv = impulse/m with no extra dt factor.
type ImpulseEuler struct{}

func NewImpulseEuler() *ImpulseEuler {
	return &ImpulseEuler{}
}

func (e *ImpulseEuler) Name() string { return "impulse" }

func (e *ImpulseEuler) Step(b *physics.Body, dt float64) {
	f := b.ResetImpulse()
	b.SetVelocity(dynamo.Add(b.Velocity(), dynamo.Scale(f, 1/b.Mass())))
	b.Advance(dt)
}
