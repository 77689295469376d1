package metrics

import (
	"math"

	"github.com/san-kum/cowsim/internal/physics"
	"gonum.org/v1/gonum/stat"
)

// Energy reports the mean total energy of the system members over a run.
type Energy struct {
	name        string
	g           float64
	samples     int
	totalEnergy float64
}

func NewEnergy(g float64) *Energy {
	return &Energy{name: "energy", g: g}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(bodies []*physics.Body, t float64) {
	e.totalEnergy += TotalEnergy(bodies, e.g)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks |E(t) - E(0)| / |E(0)| and reports its maximum.
type EnergyDrift struct {
	name          string
	g             float64
	initialEnergy float64
	drifts        []float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", g: g}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies []*physics.Body, t float64) {
	energy := TotalEnergy(bodies, e.g)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy == 0 || math.IsInf(energy, 0) || math.IsNaN(energy) {
		return
	}
	drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
	e.drifts = append(e.drifts, drift)
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// MeanStdDev summarises the recorded drift samples.
func (e *EnergyDrift) MeanStdDev() (mean, std float64) {
	if len(e.drifts) == 0 {
		return 0, 0
	}
	if len(e.drifts) == 1 {
		return e.drifts[0], 0
	}
	return stat.MeanStdDev(e.drifts, nil)
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.drifts = e.drifts[:0]
	e.maxDrift = 0
	e.samples = 0
}
