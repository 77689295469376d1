package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/cowsim/internal/config"
	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
	"github.com/san-kum/cowsim/internal/sim"
)

func TestDominantPeriod(t *testing.T) {
	const (
		n        = 200
		interval = 0.1
		samples  = 20
	)
	data := make([]float64, n)
	for i := range data {
		data[i] = 5 + 3*math.Sin(2*math.Pi*float64(i)/samples)
	}

	period, ok := DominantPeriod(data, interval)
	if !ok {
		t.Fatal("no period found")
	}
	if math.Abs(period-samples*interval) > 1e-9 {
		t.Errorf("period = %v, want %v", period, samples*interval)
	}
}

func TestDominantPeriodRejects(t *testing.T) {
	tests := []struct {
		name string
		data []float64
	}{
		{"short", []float64{1, 2, 3}},
		{"flat", []float64{2, 2, 2, 2, 2, 2}},
		{"nan", []float64{1, 2, math.NaN(), 1, 2, 1}},
		{"inf", []float64{1, 2, math.Inf(-1), 1, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := DominantPeriod(tt.data, 1); ok {
				t.Error("expected no period")
			}
		})
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum([]float64{10, 12, 10, 8, 10, 12, 10, 8})
	if len(ps) != 5 {
		t.Fatalf("bins = %d, want 5", len(ps))
	}
	if ps[0] > 1e-9 {
		t.Errorf("DC bin = %v, want 0", ps[0])
	}
	if ps[2] < ps[1] || ps[2] < ps[3] {
		t.Errorf("quarter-rate signal should peak in bin 2: %v", ps)
	}
}

func frames() [][]physics.Snapshot {
	out := make([][]physics.Snapshot, 0, 10)
	for i := 0; i < 10; i++ {
		x := float64(i)
		out = append(out, []physics.Snapshot{
			{Position: dynamo.V(-x, 0), Velocity: dynamo.V(-1, 0), Radius: 1, Mass: 1},
			{Position: dynamo.V(x, 1), Velocity: dynamo.V(1, 2), Radius: 1, Mass: 1},
		})
	}
	return out
}

func TestBodyPhasePortrait(t *testing.T) {
	p := BodyPhasePortrait(frames(), 1, AxisY)
	if len(p.Points) != 10 || p.Points[3] != dynamo.V(1, 2) {
		t.Errorf("points = %v", p.Points)
	}
	if p.XLabel != "y" || p.YLabel != "vy" {
		t.Errorf("labels %s/%s", p.XLabel, p.YLabel)
	}
	if got := BodyPhasePortrait(frames(), 7, AxisX); len(got.Points) != 0 {
		t.Errorf("missing body produced %d points", len(got.Points))
	}
}

func TestSeparationPortrait(t *testing.T) {
	p := SeparationPortrait(frames(), 0, 1)
	// At i=0 the offset is (0,-1) and the relative velocity (-2,-2).
	if got := p.Points[0]; got != dynamo.V(1, 2) {
		t.Errorf("first point = %v, want (1, 2)", got)
	}
}

func TestPhasePortraitToASCII(t *testing.T) {
	p := &PhasePortrait{
		XLabel: "x", YLabel: "vx",
		Points: []dynamo.Vec2{dynamo.V(-1, -1), dynamo.V(1, 1), dynamo.V(math.NaN(), 0)},
	}
	out := PhasePortraitToASCII(p, 21, 11)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "vx vs x" || len(lines) != 12 {
		t.Fatalf("unexpected layout:\n%s", out)
	}
	if n := strings.Count(out, "•"); n != 2 {
		t.Errorf("dots = %d, want 2", n)
	}
	if !strings.Contains(out, "┼") {
		t.Error("axes missing")
	}
	if PhasePortraitToASCII(&PhasePortrait{}, 10, 10) != "" {
		t.Error("empty portrait rendered")
	}
}

func TestLyapunovExponentFreeBodies(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.G = 0
	cfg.Collisions = false
	cfg.Bodies = []config.BodyConfig{
		{X: 0, Y: 0, VX: 1, Radius: 1, Mass: 1},
		{X: 100, Y: 0, VY: 1, Radius: 1, Mass: 1},
	}

	lambda, err := LyapunovExponent(cfg.Build, 0.01, 1, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(lambda) > 1e-6 {
		t.Errorf("free bodies diverged: lambda = %v", lambda)
	}
}

func TestLyapunovExponentGravitating(t *testing.T) {
	cfg := config.GetPreset("slingshot")
	lambda, err := LyapunovExponent(cfg.Build, cfg.Dt, 0.5, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		t.Errorf("lambda = %v", lambda)
	}
}

func TestLyapunovExponentInvalid(t *testing.T) {
	empty := func(opts ...sim.Option) (*sim.Simulator, error) { return sim.New(sim.DefaultConfig(), opts...) }
	if _, err := LyapunovExponent(empty, 0.01, 1, 1e-6); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("empty world: %v", err)
	}
	if _, err := LyapunovExponent(empty, 0.01, 1, 0); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("zero perturbation: %v", err)
	}
	pair := config.GetPreset("pair")
	if _, err := LyapunovExponent(pair.Build, 0.01, 0.004, 1e-6); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("duration shorter than one step: %v", err)
	}
}
