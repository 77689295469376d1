package physics

import "github.com/san-kum/cowsim/internal/dynamo"

// CollisionStats counts what ResolveCollisions did with touching pairs.
type CollisionStats struct {
	Resolved    int // velocities exchanged
	Separating  int // touching but already moving apart
	Degenerate  int // coincident centres, left untouched
	NoBacktrack int // resolved without repositioning (relative speed ~0)
}

// Add accumulates o into s.
func (s *CollisionStats) Add(o CollisionStats) {
	s.Resolved += o.Resolved
	s.Separating += o.Separating
	s.Degenerate += o.Degenerate
	s.NoBacktrack += o.NoBacktrack
}

// ResolveCollisions applies elastic two-body collisions to every touching
// pair. Positions and velocities are overwritten in place, so it must run
// after integration on the integrated state.
//
// Overlapping pairs are moved back along their incoming velocities to the
// estimated moment of contact, given their outgoing velocities, then moved
// forward again by the same amount of time.
func ResolveCollisions(bodies []*Body, minSeparation float64) CollisionStats {
	var stats CollisionStats
	n := len(bodies)

	for i := 0; i < n; i++ {
		b1 := bodies[i]
		for j := i + 1; j < n; j++ {
			b2 := bodies[j]

			x1, x2 := b1.pos, b2.pos
			dx := dynamo.Sub(x1, x2)
			r := dynamo.Norm(dx)
			contact := b1.radius + b2.radius
			if r > contact {
				continue
			}
			if r < minSeparation {
				stats.Degenerate++
				continue
			}

			v1, v2 := b1.vel, b2.vel
			m1, m2 := b1.mass, b2.mass
			r2 := r * r

			v1p, v2p := elasticVelocities(x1, x2, v1, v2, m1, m2, r2)

			rVec := dynamo.Sub(x2, x1)
			vVec := dynamo.Sub(v1p, v2p)
			if dynamo.Dot(rVec, vVec) >= 0 {
				stats.Separating++
				continue
			}
			stats.Resolved++

			k := dynamo.Norm(dynamo.Sub(v1, v2))
			if k < minSeparation {
				stats.NoBacktrack++
				b1.vel, b2.vel = v1p, v2p
				continue
			}

			backtrackT := -(contact - r) / k
			b1.Advance(backtrackT)
			b2.Advance(backtrackT)

			b1.vel, b2.vel = v1p, v2p

			b1.Advance(-backtrackT)
			b2.Advance(-backtrackT)
		}
	}

	return stats
}

// elasticVelocities returns the post-collision velocities of two discs in
// contact along x1-x2, where r2 is |x1-x2|².
func elasticVelocities(x1, x2, v1, v2 dynamo.Vec2, m1, m2, r2 float64) (dynamo.Vec2, dynamo.Vec2) {
	total := m1 + m2

	d12 := dynamo.Sub(x1, x2)
	c1 := 2 * m2 / total * dynamo.Dot(dynamo.Sub(v1, v2), d12) / r2
	v1p := dynamo.Sub(v1, dynamo.Scale(d12, c1))

	d21 := dynamo.Sub(x2, x1)
	c2 := 2 * m1 / total * dynamo.Dot(dynamo.Sub(v2, v1), d21) / r2
	v2p := dynamo.Sub(v2, dynamo.Scale(d21, c2))

	return v1p, v2p
}
