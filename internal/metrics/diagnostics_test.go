package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
)

func body(t testing.TB, x, y, vx, vy, mass float64, member bool) *physics.Body {
	t.Helper()
	b, err := physics.NewBody(dynamo.V(x, y), dynamo.V(vx, vy), 1, mass, member)
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	return b
}

func TestCenterOfMass(t *testing.T) {
	bodies := []*physics.Body{
		body(t, 0, 0, 0, 0, 1, true),
		body(t, 10, 0, 0, 0, 3, true),
	}
	com := CenterOfMass(bodies)
	if math.Abs(com.X-7.5) > 1e-12 || math.Abs(com.Y) > 1e-12 {
		t.Errorf("CenterOfMass = %v, want (7.5, 0)", com)
	}
}

func TestCenterOfMass_IgnoresNonMembers(t *testing.T) {
	members := []*physics.Body{
		body(t, -5, 2, 0, 0, 2, true),
		body(t, 5, 4, 0, 0, 2, true),
	}
	before := CenterOfMass(members)

	withHeavy := append(members, body(t, 1000, -1000, 0, 0, 1e9, false))
	after := CenterOfMass(withHeavy)

	if before != after {
		t.Errorf("non-member changed COM: %v -> %v", before, after)
	}
}

func TestCenterOfMass_NoMembers(t *testing.T) {
	tests := []struct {
		name   string
		bodies []*physics.Body
	}{
		{"empty", nil},
		{"only non-members", []*physics.Body{body(t, 1, 1, 0, 0, 5, false)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			com := CenterOfMass(tt.bodies)
			if !math.IsNaN(com.X) || !math.IsNaN(com.Y) {
				t.Errorf("expected (NaN, NaN), got %v", com)
			}
		})
	}
}

func TestKineticEnergy(t *testing.T) {
	bodies := []*physics.Body{
		body(t, 0, 0, 3, 4, 2, true),   // 25
		body(t, 0, 0, 1, 0, 4, true),   // 2
		body(t, 0, 0, 10, 0, 9, false), // ignored
	}
	if ke := KineticEnergy(bodies); math.Abs(ke-27) > 1e-12 {
		t.Errorf("KineticEnergy = %v, want 27", ke)
	}
}

func TestPotentialEnergy(t *testing.T) {
	bodies := []*physics.Body{
		body(t, 0, 0, 0, 0, 2, true),
		body(t, 3, 4, 0, 0, 5, true),
		body(t, 0, 1, 0, 0, 100, false),
	}
	// -G m1 m2 / r = -10 * 2 * 5 / 5
	if pe := PotentialEnergy(bodies, 10); math.Abs(pe+20) > 1e-12 {
		t.Errorf("PotentialEnergy = %v, want -20", pe)
	}

	three := append(bodies[:2:2], body(t, 0, 10, 0, 0, 1, true))
	want := -10*2*5/5.0 - 10*2*1/10.0 - 10*5*1/math.Hypot(3, 6)
	if pe := PotentialEnergy(three, 10); math.Abs(pe-want) > 1e-12 {
		t.Errorf("PotentialEnergy = %v, want %v", pe, want)
	}
}

func TestMomentumAndAngularMomentum(t *testing.T) {
	bodies := []*physics.Body{
		body(t, 1, 0, 0, 2, 3, true),
		body(t, 0, 0, -1, 0, 2, false),
	}
	p := Momentum(bodies)
	if p != dynamo.V(-2, 6) {
		t.Errorf("Momentum = %v, want (-2, 6)", p)
	}
	if l := AngularMomentum(bodies); math.Abs(l-6) > 1e-12 {
		t.Errorf("AngularMomentum = %v, want 6", l)
	}
}
