package viz

import (
	"math"

	"github.com/san-kum/cowsim/internal/dynamo"
)

const (
	minZoom = 0.01
	maxZoom = 100
)

// Camera maps world coordinates to canvas pixels. It follows the system's
// centre of mass; when that is undefined the world origin stays centred.
type Camera struct {
	// Zoom is canvas pixels per world unit.
	Zoom   float64
	focus  dynamo.Vec2
	width  int
	height int
}

func NewCamera(width, height int, zoom float64) *Camera {
	return &Camera{Zoom: zoom, width: width, height: height}
}

// Follow recentres on com. A NaN centre of mass resets the focus to the origin.
func (c *Camera) Follow(com dynamo.Vec2) {
	if dynamo.IsNaN(com) {
		c.focus = dynamo.Zero
		return
	}
	c.focus = com
}

func (c *Camera) Focus() dynamo.Vec2 { return c.focus }

// Offset is the translation added to scaled world positions.
func (c *Camera) Offset() dynamo.Vec2 {
	return dynamo.Sub(dynamo.V(float64(c.width)/2, float64(c.height)/2), dynamo.Scale(c.focus, c.Zoom))
}

// Project returns the canvas pixel for world position p. Canvas y grows
// downwards, matching world y.
func (c *Camera) Project(p dynamo.Vec2) (int, int) {
	s := c.ToScreen(p)
	return int(math.Round(s.X)), int(math.Round(s.Y))
}

// ToScreen is Project without rounding.
func (c *Camera) ToScreen(p dynamo.Vec2) dynamo.Vec2 {
	return dynamo.Add(dynamo.Scale(p, c.Zoom), c.Offset())
}

// ToWorld inverts ToScreen.
func (c *Camera) ToWorld(screen dynamo.Vec2) dynamo.Vec2 {
	return dynamo.Scale(dynamo.Sub(screen, c.Offset()), 1/c.Zoom)
}

// Resize changes the viewport size, keeping focus and zoom.
func (c *Camera) Resize(width, height int) {
	c.width, c.height = width, height
}

// ProjectRadius converts a world length to whole pixels.
func (c *Camera) ProjectRadius(r float64) int {
	return int(math.Round(r * c.Zoom))
}

func (c *Camera) ZoomBy(f float64) {
	c.Zoom = math.Min(maxZoom, math.Max(minZoom, c.Zoom*f))
}

// FitZoom picks a zoom that keeps every position inside the canvas around
// the current focus, with a small margin.
func (c *Camera) FitZoom(positions []dynamo.Vec2) {
	extent := 0.0
	for _, p := range positions {
		d := dynamo.Sub(p, c.focus)
		extent = math.Max(extent, math.Max(math.Abs(d.X), math.Abs(d.Y)))
	}
	if extent == 0 {
		return
	}
	half := math.Min(float64(c.width), float64(c.height)) / 2
	c.Zoom = math.Min(maxZoom, math.Max(minZoom, 0.9*half/extent))
}
