package physics

import "github.com/san-kum/cowsim/internal/dynamo"

// DefaultMinSeparation is the distance below which a pair is treated as
// coincident and skipped.
const DefaultMinSeparation = 1e-9

// ApplyGravitationalForces accumulates the attraction between every unordered
// pair into the bodies' pending impulses. Positions and velocities are not
// touched, so every pair sees the pre-step positions.
//
// Pairs closer than minSeparation are skipped; the number skipped is returned.
func ApplyGravitationalForces(bodies []*Body, g, minSeparation float64) int {
	skipped := 0
	n := len(bodies)

	for i := 0; i < n; i++ {
		bi := bodies[i]
		for j := i + 1; j < n; j++ {
			bj := bodies[j]

			delta := dynamo.Sub(bi.pos, bj.pos)
			r := dynamo.Norm(delta)
			if r < minSeparation {
				skipped++
				continue
			}

			f := g * bi.mass * bj.mass / (r * r)
			pull := dynamo.Scale(delta, f/r)

			// delta points from j to i, so i is pulled along -delta.
			bi.impulse = dynamo.Sub(bi.impulse, pull)
			bj.impulse = dynamo.Add(bj.impulse, pull)
		}
	}

	return skipped
}
