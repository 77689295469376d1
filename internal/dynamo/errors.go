package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidBody indicates a body with non-positive or non-finite mass or radius.
	ErrInvalidBody = errors.New("dynamo: invalid body (mass and radius must be positive and finite)")

	// ErrInvalidConfig indicates a world or scenario configuration outside valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrInvalidTimestep indicates a negative or non-finite dt passed to Step.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be finite and non-negative")

	// ErrInvalidState indicates NaN or Inf leaked into a body's position or velocity.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownBody indicates a handle that does not name a live body.
	ErrUnknownBody = errors.New("dynamo: unknown body handle")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Body    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Body >= 0 {
		return fmt.Sprintf("step %d (t=%.4f) body %d: %v", e.Step, e.Time, e.Body, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
