package metrics

import (
	"math"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
)

// CenterOfMass returns the mass-weighted mean position of the system
// members. With no members the result is (NaN, NaN); callers must check
// with dynamo.IsNaN before using it.
func CenterOfMass(bodies []*physics.Body) dynamo.Vec2 {
	var sum dynamo.Vec2
	total := 0.0
	for _, b := range bodies {
		if !b.IsSystemMember() {
			continue
		}
		total += b.Mass()
		sum = dynamo.Add(sum, dynamo.Scale(b.Position(), b.Mass()))
	}
	if total == 0 {
		return dynamo.V(math.NaN(), math.NaN())
	}
	return dynamo.Scale(sum, 1/total)
}

// KineticEnergy sums m|v|²/2 over system members.
func KineticEnergy(bodies []*physics.Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		if b.IsSystemMember() {
			ke += b.KineticEnergy()
		}
	}
	return ke
}

// PotentialEnergy sums -G·m_i·m_j/r over every pair of system members.
// Coincident members contribute -Inf.
func PotentialEnergy(bodies []*physics.Body, g float64) float64 {
	pe := 0.0
	for i := 0; i < len(bodies); i++ {
		bi := bodies[i]
		if !bi.IsSystemMember() {
			continue
		}
		for j := i + 1; j < len(bodies); j++ {
			bj := bodies[j]
			if !bj.IsSystemMember() {
				continue
			}
			r := dynamo.Norm(dynamo.Sub(bi.Position(), bj.Position()))
			pe -= g * bi.Mass() * bj.Mass() / r
		}
	}
	return pe
}

// TotalEnergy is KineticEnergy + PotentialEnergy.
func TotalEnergy(bodies []*physics.Body, g float64) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(bodies, g)
}

// Momentum returns Σ m·v over every body, members or not.
func Momentum(bodies []*physics.Body) dynamo.Vec2 {
	var p dynamo.Vec2
	for _, b := range bodies {
		p = dynamo.Add(p, dynamo.Scale(b.Velocity(), b.Mass()))
	}
	return p
}

// AngularMomentum returns Σ m (x × v) about the origin over every body.
func AngularMomentum(bodies []*physics.Body) float64 {
	l := 0.0
	for _, b := range bodies {
		x, v := b.Position(), b.Velocity()
		l += b.Mass() * (x.X*v.Y - x.Y*v.X)
	}
	return l
}
