package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
)

func newBody(t testing.TB, pos, vel dynamo.Vec2, mass float64) *physics.Body {
	t.Helper()
	b, err := physics.NewBody(pos, vel, 1, mass, true)
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	return b
}

func TestSymplecticEulerStep(t *testing.T) {
	b := newBody(t, dynamo.V(0, 0), dynamo.V(20, 5), 5)
	b.ApplyImpulse(dynamo.V(25, 0))

	NewSymplecticEuler().Step(b, 0.01)

	// dv = 25 * 0.01 / 5 = 0.05; x = v_new * dt.
	wantV := dynamo.V(20.05, 5)
	wantX := dynamo.V(0.2005, 0.05)
	if math.Abs(b.Velocity().X-wantV.X) > 1e-12 || math.Abs(b.Velocity().Y-wantV.Y) > 1e-12 {
		t.Errorf("velocity = %v, want %v", b.Velocity(), wantV)
	}
	if math.Abs(b.Position().X-wantX.X) > 1e-12 || math.Abs(b.Position().Y-wantX.Y) > 1e-12 {
		t.Errorf("position = %v, want %v", b.Position(), wantX)
	}
	if b.Impulse() != dynamo.Zero {
		t.Errorf("impulse not consumed: %v", b.Impulse())
	}
}

func TestExplicitEulerUsesOldVelocity(t *testing.T) {
	b := newBody(t, dynamo.V(0, 0), dynamo.V(1, 0), 2)
	b.ApplyImpulse(dynamo.V(4, 0))

	NewExplicitEuler().Step(b, 0.5)

	if math.Abs(b.Position().X-0.5) > 1e-12 {
		t.Errorf("position = %v, want 0.5 (old velocity)", b.Position().X)
	}
	if math.Abs(b.Velocity().X-2) > 1e-12 {
		t.Errorf("velocity = %v, want 2", b.Velocity().X)
	}
	if b.Impulse() != dynamo.Zero {
		t.Error("impulse not consumed")
	}
}

func TestImpulseEulerSingleDt(t *testing.T) {
	b := newBody(t, dynamo.V(0, 0), dynamo.V(0, 0), 4)
	b.ApplyImpulse(dynamo.V(0, 8))

	NewImpulseEuler().Step(b, 0.1)

	if math.Abs(b.Velocity().Y-2) > 1e-12 {
		t.Errorf("velocity = %v, want 2", b.Velocity().Y)
	}
	if math.Abs(b.Position().Y-0.2) > 1e-12 {
		t.Errorf("position = %v, want 0.2", b.Position().Y)
	}
}

func TestZeroDtLeavesBodyInPlace(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			integ, err := Get(name)
			if err != nil {
				t.Fatal(err)
			}
			b := newBody(t, dynamo.V(3, 4), dynamo.V(1, 1), 1)
			b.ApplyImpulse(dynamo.V(1, 0))
			integ.Step(b, 0)
			if b.Position() != dynamo.V(3, 4) {
				t.Errorf("position moved with dt=0: %v", b.Position())
			}
			if b.Impulse() != dynamo.Zero {
				t.Error("impulse must be consumed even with dt=0")
			}
		})
	}
}

// A body on a spring-like restoring impulse: symplectic Euler keeps the
// oscillation bounded where explicit Euler spirals outwards.
func TestSymplecticEnergyBehaviour(t *testing.T) {
	run := func(integ Integrator) float64 {
		b := newBody(t, dynamo.V(1, 0), dynamo.V(0, 0), 1)
		dt := 0.05
		maxR := 0.0
		for i := 0; i < 2000; i++ {
			b.ApplyImpulse(dynamo.Scale(b.Position(), -1))
			integ.Step(b, dt)
			maxR = math.Max(maxR, dynamo.Norm(b.Position()))
		}
		return maxR
	}

	sym := run(NewSymplecticEuler())
	exp := run(NewExplicitEuler())

	if sym > 1.1 {
		t.Errorf("symplectic amplitude grew to %v", sym)
	}
	if exp <= sym {
		t.Errorf("explicit amplitude %v should exceed symplectic %v", exp, sym)
	}
}

func TestRegistry(t *testing.T) {
	if _, err := Get("rk4"); err == nil {
		t.Error("expected error for unknown integrator")
	}
	integ, err := Get(Default)
	if err != nil {
		t.Fatal(err)
	}
	if integ.Name() != Default {
		t.Errorf("Name() = %s, want %s", integ.Name(), Default)
	}
	if len(Names()) != 3 {
		t.Errorf("expected 3 integrators, got %v", Names())
	}
}

func BenchmarkSymplecticEuler(b *testing.B) {
	integ := NewSymplecticEuler()
	body := newBody(b, dynamo.V(1, 0), dynamo.V(0, 1), 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		body.ApplyImpulse(dynamo.V(-1e-3, 0))
		integ.Step(body, 0.01)
	}
}
