package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
	"github.com/san-kum/cowsim/internal/sim"
)

// LyapunovExponent estimates the largest Lyapunov exponent of a scenario
// with the two-trajectory method. build must return identical, freshly
// populated simulators. The first body of the second world is displaced by
// d0 along x; after every step the phase-space separation of the two worlds
// is measured and the perturbed world is pulled back to distance d0.
//
//	λ ≈ Σ ln(d_i / d0) / t
func LyapunovExponent(build func(...sim.Option) (*sim.Simulator, error), dt, duration, d0 float64) (float64, error) {
	if !(d0 > 0) || math.IsInf(d0, 0) {
		return 0, fmt.Errorf("perturbation %v: %w", d0, dynamo.ErrInvalidConfig)
	}
	if !(dt > 0) || !(duration > 0) {
		return 0, fmt.Errorf("dt %v duration %v: %w", dt, duration, dynamo.ErrInvalidConfig)
	}
	n := math.Round(duration / dt)
	if n < 1 || n > sim.MaxSteps {
		return 0, fmt.Errorf("duration %v at dt %v gives %v steps: %w", duration, dt, n, dynamo.ErrInvalidConfig)
	}
	steps := int(n)

	base, err := build()
	if err != nil {
		return 0, err
	}
	pert, err := build()
	if err != nil {
		return 0, err
	}
	handles := pert.Handles()
	if len(handles) == 0 || base.Len() != len(handles) {
		return 0, fmt.Errorf("need matching non-empty worlds: %w", dynamo.ErrInvalidConfig)
	}

	first, err := pert.Body(handles[0])
	if err != nil {
		return 0, err
	}
	if err := pert.SetPosition(handles[0], dynamo.Add(first.Position, dynamo.V(d0, 0))); err != nil {
		return 0, err
	}

	sumLog := 0.0
	for i := 0; i < steps; i++ {
		if err := base.Step(dt); err != nil {
			return 0, err
		}
		if err := pert.Step(dt); err != nil {
			return 0, err
		}

		a, b := base.Bodies(), pert.Bodies()
		sep := separation(a, b)
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for j, h := range handles {
			pos := dynamo.Add(a[j].Position, dynamo.Scale(dynamo.Sub(b[j].Position, a[j].Position), scale))
			vel := dynamo.Add(a[j].Velocity, dynamo.Scale(dynamo.Sub(b[j].Velocity, a[j].Velocity), scale))
			if err := pert.SetPosition(h, pos); err != nil {
				return 0, err
			}
			if err := pert.SetVelocity(h, vel); err != nil {
				return 0, err
			}
		}
	}

	return sumLog / (float64(steps) * dt), nil
}

// separation is the Euclidean distance between two worlds in phase space
// (every body's position and velocity).
func separation(a, b []physics.Snapshot) float64 {
	sum := 0.0
	for i := range a {
		dp := dynamo.Sub(b[i].Position, a[i].Position)
		dv := dynamo.Sub(b[i].Velocity, a[i].Velocity)
		sum += dynamo.Dot(dp, dp) + dynamo.Dot(dv, dv)
	}
	return math.Sqrt(sum)
}
