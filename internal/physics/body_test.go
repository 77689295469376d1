package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/cowsim/internal/dynamo"
)

func mustBody(t testing.TB, pos, vel dynamo.Vec2, radius, mass float64, member bool) *Body {
	t.Helper()
	b, err := NewBody(pos, vel, radius, mass, member)
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	return b
}

func TestNewBody_Validation(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		mass   float64
		pos    dynamo.Vec2
		ok     bool
	}{
		{"valid", 5, 5, dynamo.Zero, true},
		{"zero mass", 5, 0, dynamo.Zero, false},
		{"negative mass", 5, -1, dynamo.Zero, false},
		{"zero radius", 0, 1, dynamo.Zero, false},
		{"negative radius", -2, 1, dynamo.Zero, false},
		{"nan mass", 1, math.NaN(), dynamo.Zero, false},
		{"inf radius", math.Inf(1), 1, dynamo.Zero, false},
		{"nan position", 1, 1, dynamo.V(math.NaN(), 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBody(tt.pos, dynamo.Zero, tt.radius, tt.mass, true)
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if b.Mass() != tt.mass || b.Radius() != tt.radius {
					t.Errorf("got mass %v radius %v", b.Mass(), b.Radius())
				}
				return
			}
			if !errors.Is(err, dynamo.ErrInvalidBody) {
				t.Errorf("expected ErrInvalidBody, got %v", err)
			}
		})
	}
}

func TestBody_ImpulseLifecycle(t *testing.T) {
	b := mustBody(t, dynamo.Zero, dynamo.Zero, 1, 1, true)

	b.ApplyImpulse(dynamo.V(1, 2))
	b.ApplyImpulse(dynamo.V(3, -1))
	if b.Impulse() != dynamo.V(4, 1) {
		t.Errorf("accumulated impulse = %v, want (4, 1)", b.Impulse())
	}

	got := b.ResetImpulse()
	if got != dynamo.V(4, 1) {
		t.Errorf("ResetImpulse returned %v", got)
	}
	if b.Impulse() != dynamo.Zero {
		t.Errorf("impulse not cleared: %v", b.Impulse())
	}
}

func TestBody_SnapshotAndClone(t *testing.T) {
	b := mustBody(t, dynamo.V(1, 2), dynamo.V(3, 4), 5, 6, false)
	snap := b.Snapshot()
	if snap.Position != dynamo.V(1, 2) || snap.Velocity != dynamo.V(3, 4) || snap.Radius != 5 || snap.Mass != 6 || snap.Member {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	c := b.Clone()
	c.SetPosition(dynamo.V(9, 9))
	if b.Position() != dynamo.V(1, 2) {
		t.Error("Clone shares state with original")
	}

	if ke := b.KineticEnergy(); math.Abs(ke-75) > 1e-12 {
		t.Errorf("KineticEnergy = %v, want 75", ke)
	}
}
