package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
)

// Axis selects a coordinate of a body's phase space.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// PhasePortrait holds the points of a 2D phase-space trajectory.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []dynamo.Vec2
}

// BodyPhasePortrait plots one coordinate of a body against its velocity
// over recorded frames. Frames missing the body are skipped.
func BodyPhasePortrait(frames [][]physics.Snapshot, body int, axis Axis) *PhasePortrait {
	portrait := &PhasePortrait{
		XLabel: axis.String(),
		YLabel: "v" + axis.String(),
		Points: make([]dynamo.Vec2, 0, len(frames)),
	}
	for _, frame := range frames {
		if body < 0 || body >= len(frame) {
			continue
		}
		b := frame[body]
		if axis == AxisY {
			portrait.Points = append(portrait.Points, dynamo.V(b.Position.Y, b.Velocity.Y))
		} else {
			portrait.Points = append(portrait.Points, dynamo.V(b.Position.X, b.Velocity.X))
		}
	}
	return portrait
}

// SeparationPortrait plots the distance between two bodies against its rate
// of change, the natural phase plane of a bound pair.
func SeparationPortrait(frames [][]physics.Snapshot, a, b int) *PhasePortrait {
	portrait := &PhasePortrait{
		XLabel: fmt.Sprintf("|r%d-r%d|", a, b),
		YLabel: "d/dt",
		Points: make([]dynamo.Vec2, 0, len(frames)),
	}
	for _, frame := range frames {
		if a < 0 || b < 0 || a >= len(frame) || b >= len(frame) {
			continue
		}
		rel := dynamo.Sub(frame[a].Position, frame[b].Position)
		vel := dynamo.Sub(frame[a].Velocity, frame[b].Velocity)
		r := dynamo.Norm(rel)
		rate := 0.0
		if r > 0 {
			rate = dynamo.Dot(rel, vel) / r
		}
		portrait.Points = append(portrait.Points, dynamo.V(r, rate))
	}
	return portrait
}

// PhasePortraitToASCII renders the portrait on a width x height character
// grid with axes drawn where they cross the visible area. Non-finite points
// are skipped.
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range portrait.Points {
		if !dynamo.IsFinite(p) {
			continue
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if minX > maxX {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			if grid[r][c] == '│' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '─'
			}
		}
	}

	for _, p := range portrait.Points {
		if !dynamo.IsFinite(p) {
			continue
		}
		grid[row(p.Y)][col(p.X)] = '•'
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s vs %s\n", portrait.YLabel, portrait.XLabel)
	for _, r := range grid {
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	return sb.String()
}
