// Package analysis provides post-run and chaos diagnostics for N-body
// scenarios.
//
//   - [LyapunovExponent]: largest Lyapunov exponent from two nearby worlds
//   - [PowerSpectrum], [DominantPeriod]: oscillation analysis of a sampled
//     signal such as kinetic energy or body separation
//   - [BodyPhasePortrait], [SeparationPortrait]: phase-space trajectories
//     from recorded frames, rendered with [PhasePortraitToASCII]
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates sensitive dependence on
// initial conditions:
//
//	lambda, err := analysis.LyapunovExponent(cfg.Build, cfg.Dt, cfg.Duration, 1e-6)
//	if err == nil && lambda > 0 {
//	    // chaotic
//	}
package analysis
