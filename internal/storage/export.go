package storage

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
)

type ExportData struct {
	ID           string               `json:"id"`
	Scenario     string               `json:"scenario"`
	Integrator   string               `json:"integrator"`
	G            float64              `json:"g"`
	Dt           float64              `json:"dt"`
	Duration     float64              `json:"duration"`
	Samples      int                  `json:"samples"`
	Times        []float64            `json:"times"`
	CenterOfMass []*point             `json:"center_of_mass"`
	Kinetic      []*float64           `json:"kinetic"`
	Potential    []*float64           `json:"potential"`
	Frames       [][]physics.Snapshot `json:"frames"`
	Metrics      map[string]float64   `json:"metrics"`
}

// point and the nullable energies encode undefined values as null rather
// than NaN or Inf, which encoding/json rejects.
type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func newExportData(meta *RunMetadata, traj *Trajectory) ExportData {
	data := ExportData{
		ID:           meta.ID,
		Scenario:     meta.Scenario,
		Integrator:   meta.Integrator,
		G:            meta.G,
		Dt:           meta.Dt,
		Duration:     meta.Duration,
		Samples:      len(traj.Times),
		Times:        traj.Times,
		CenterOfMass: make([]*point, len(traj.CenterOfMass)),
		Kinetic:      nullable(traj.Kinetic),
		Potential:    nullable(traj.Potential),
		Frames:       traj.Frames,
		Metrics:      meta.Metrics,
	}
	for i, c := range traj.CenterOfMass {
		if dynamo.IsNaN(c) {
			continue
		}
		data.CenterOfMass[i] = &point{X: c.X, Y: c.Y}
	}
	return data
}

func nullable(vals []float64) []*float64 {
	out := make([]*float64, len(vals))
	for i := range vals {
		if math.IsNaN(vals[i]) || math.IsInf(vals[i], 0) {
			continue
		}
		out[i] = &vals[i]
	}
	return out
}

func ExportJSON(w io.Writer, meta *RunMetadata, traj *Trajectory) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, traj))
}

func ExportJSONFile(path string, meta *RunMetadata, traj *Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeAndClose(file, func(w io.Writer) error { return ExportJSON(w, meta, traj) })
}
