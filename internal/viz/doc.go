// Package viz renders a running simulation in the terminal.
//
// [Model] is a Bubble Tea program that steps a [sim.Simulator] on a fixed
// frame clock and draws it on a braille [Canvas]. The [Camera] follows the
// centre of mass of the system members. Members are drawn as filled discs,
// other bodies as outlines, and the centre-of-mass trail as a polyline.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	+/-   - Zoom
//	T     - Cycle color themes
//	S     - Save an SVG snapshot
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	[]    - Replay recent frames
//
// With a scenario watcher attached the model rebuilds the simulator whenever
// the scenario file changes.
package viz
