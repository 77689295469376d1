// Package physics implements the body model and the pairwise interactions
// of the cow simulation:
//
//   - [Body]: a circular point mass with a pending impulse accumulator
//   - [ApplyGravitationalForces]: Newtonian attraction over every pair
//   - [ResolveCollisions]: elastic collisions with position backtracking
//
// Every pass is O(n²) and visits each unordered pair exactly once.
//
// # Degenerate geometry
//
// Pairs closer than the configured minimum separation have no defined
// direction. Gravity skips them entirely; collision resolution skips them
// too, and skips the backtrack when the relative speed is below the same
// threshold. Skips are counted so callers can surface them.
package physics
