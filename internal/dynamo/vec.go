package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a 2D vector value. Operations never mutate their operands.
type Vec2 = r2.Vec

// Zero is the zero vector.
var Zero = Vec2{}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func Add(a, b Vec2) Vec2 { return r2.Add(a, b) }

// Sub returns a - b. Force and collision formulas rely on this orientation.
func Sub(a, b Vec2) Vec2 { return r2.Sub(a, b) }

func Scale(v Vec2, s float64) Vec2 { return r2.Scale(s, v) }

func Dot(a, b Vec2) float64 { return r2.Dot(a, b) }

// Norm returns the Euclidean length of v.
func Norm(v Vec2) float64 { return r2.Norm(v) }

// IsFinite reports whether both components are neither NaN nor infinite.
func IsFinite(v Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// IsNaN reports whether either component is NaN.
func IsNaN(v Vec2) bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y)
}
