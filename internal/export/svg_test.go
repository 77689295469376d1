package export

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
	"github.com/san-kum/cowsim/internal/storage"
)

func body(x, y float64, member bool) physics.Snapshot {
	return physics.Snapshot{Position: dynamo.V(x, y), Radius: 5, Mass: 5, Member: member}
}

func TestTrajectoryToSVG(t *testing.T) {
	traj := &storage.Trajectory{
		Times: []float64{0, 1, 2},
		CenterOfMass: []dynamo.Vec2{
			dynamo.V(0, 0), dynamo.V(1, 0), dynamo.V(2, 0),
		},
		Frames: [][]physics.Snapshot{
			{body(-10, 0, true), body(10, 0, true), body(0, 50, false)},
			{body(-8, 1, true), body(10, 1, true), body(0, 50, false)},
			{body(-6, 2, true), body(10, 2, true), body(0, 50, false)},
		},
	}

	svg := TrajectoryToSVG(traj, 400, 300)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if n := strings.Count(svg, "<path"); n != 4 {
		t.Errorf("expected 3 body paths and a trail, got %d paths", n)
	}
	if n := strings.Count(svg, "<circle"); n != 3 {
		t.Errorf("expected 3 final bodies, got %d", n)
	}
	if n := strings.Count(svg, `fill="`+memberColor+`"`); n != 2 {
		t.Errorf("expected 2 member discs, got %d", n)
	}
	if !strings.Contains(svg, `stroke="`+trailColor+`"`) {
		t.Error("trail missing")
	}
}

func TestTrajectoryToSVGUndefinedCenterOfMass(t *testing.T) {
	nan := dynamo.V(math.NaN(), math.NaN())
	traj := &storage.Trajectory{
		Times:        []float64{0, 1, 2, 3},
		CenterOfMass: []dynamo.Vec2{dynamo.V(0, 0), nan, dynamo.V(1, 1), dynamo.V(2, 2)},
		Frames: [][]physics.Snapshot{
			{body(0, 0, false)}, {body(1, 1, false)}, {body(2, 2, false)}, {body(3, 3, false)},
		},
	}

	svg := TrajectoryToSVG(traj, 100, 100)
	if strings.Contains(svg, "NaN") {
		t.Error("NaN leaked into svg")
	}
	trail := svg[strings.Index(svg, `stroke="`+trailColor+`"`):]
	trail = trail[:strings.Index(trail, "/>")]
	if n := strings.Count(trail, "M"); n != 2 {
		t.Errorf("trail should restart after the gap, got %d moves in %q", n, trail)
	}
}

func TestTrajectoryToSVGEmpty(t *testing.T) {
	if svg := TrajectoryToSVG(nil, 10, 10); svg != "" {
		t.Errorf("nil trajectory gave %q", svg)
	}
	if svg := TrajectoryToSVG(&storage.Trajectory{}, 10, 10); svg != "" {
		t.Errorf("empty trajectory gave %q", svg)
	}
}
