// Package dynamo provides the primitives shared by every cowsim package.
//
// It defines:
//
//   - [Vec2]: immutable 2D vector with [Add], [Sub], [Scale] and [Dot]
//   - the sentinel errors returned by the engine ([ErrInvalidBody],
//     [ErrInvalidTimestep], [ErrInvalidState], ...)
//   - [SimulationError]: an error annotated with step, time and body
//   - [ParallelFor]: chunked fan-out for per-body integration of large worlds
//
// # Numeric edge cases
//
// Vector operations do not guard against NaN or Inf. Callers that divide by
// a length must check it first; [IsFinite] is provided for validating state
// after a step.
package dynamo
