package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/storage"
)

const (
	background  = "#0a0a0a"
	memberColor = "#ff4444"
	otherColor  = "#ffffff"
	trailColor  = "#00ff00"
)

// bounds is the world rectangle mapped onto the SVG viewport.
type bounds struct {
	minX, minY, maxX, maxY float64
}

func newBounds() bounds {
	return bounds{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
}

func (b *bounds) add(p dynamo.Vec2, pad float64) {
	if !dynamo.IsFinite(p) {
		return
	}
	b.minX = math.Min(b.minX, p.X-pad)
	b.maxX = math.Max(b.maxX, p.X+pad)
	b.minY = math.Min(b.minY, p.Y-pad)
	b.maxY = math.Max(b.maxY, p.Y+pad)
}

func (b bounds) empty() bool { return b.minX > b.maxX }

// viewport keeps the world aspect ratio and adds a 10% margin.
type viewport struct {
	scale, offX, offY float64
}

func newViewport(b bounds, width, height int) viewport {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	scale := math.Min(float64(width)/(rangeX*1.2), float64(height)/(rangeY*1.2))
	cx := (b.minX + b.maxX) / 2
	cy := (b.minY + b.maxY) / 2
	return viewport{
		scale: scale,
		offX:  float64(width)/2 - cx*scale,
		offY:  float64(height)/2 - cy*scale,
	}
}

func (v viewport) point(p dynamo.Vec2) (float64, float64) {
	return p.X*v.scale + v.offX, p.Y*v.scale + v.offY
}

// TrajectoryToSVG draws a recorded run: one path per body, the
// centre-of-mass trail in green and every body at its final position.
// Members are red and other bodies white. World y grows downwards, as on
// screen.
func TrajectoryToSVG(traj *storage.Trajectory, width, height int) string {
	if traj == nil || len(traj.Frames) == 0 {
		return ""
	}

	b := newBounds()
	for _, frame := range traj.Frames {
		for _, body := range frame {
			b.add(body.Position, body.Radius)
		}
	}
	for _, c := range traj.CenterOfMass {
		b.add(c, 0)
	}
	if b.empty() {
		return ""
	}
	vp := newViewport(b, width, height)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	numBodies := len(traj.Frames[0])
	for i := 0; i < numBodies; i++ {
		points := make([]dynamo.Vec2, 0, len(traj.Frames))
		member := traj.Frames[0][i].Member
		for _, frame := range traj.Frames {
			if i < len(frame) {
				points = append(points, frame[i].Position)
			}
		}
		color := otherColor
		if member {
			color = memberColor
		}
		writePath(&sb, vp, points, color, 1, 0.5)
	}

	writePath(&sb, vp, traj.CenterOfMass, trailColor, 1.5, 1)

	last := traj.Frames[len(traj.Frames)-1]
	for _, body := range last {
		if !dynamo.IsFinite(body.Position) {
			continue
		}
		x, y := vp.point(body.Position)
		color := otherColor
		if body.Member {
			color = memberColor
		}
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
			x, y, math.Max(body.Radius*vp.scale, 1), color)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// writePath emits a polyline, breaking it wherever a point is undefined.
func writePath(sb *strings.Builder, vp viewport, points []dynamo.Vec2, color string, width, opacity float64) {
	var d strings.Builder
	pen := false
	for _, p := range points {
		if !dynamo.IsFinite(p) {
			pen = false
			continue
		}
		x, y := vp.point(p)
		if pen {
			fmt.Fprintf(&d, " L%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&d, " M%.1f,%.1f", x, y)
			pen = true
		}
	}
	if d.Len() == 0 {
		return
	}
	fmt.Fprintf(sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"%.1f\" stroke-opacity=\"%.2f\" d=\"%s\"/>\n",
		color, width, opacity, strings.TrimSpace(d.String()))
}
