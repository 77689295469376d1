package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
	"github.com/san-kum/cowsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"

	// time, com_x, com_y, kinetic, potential
	leadingColumns = 5
	// x, y, vx, vy per body
	bodyColumns = 4
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// BodyInfo holds the per-body constants that states.csv does not repeat.
type BodyInfo struct {
	Radius float64 `json:"radius"`
	Mass   float64 `json:"mass"`
	Member bool    `json:"member"`
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Scenario   string
	Integrator string
	G          float64
	Dt         float64
	Duration   float64
}

type RunMetadata struct {
	ID                 string             `json:"id"`
	Scenario           string             `json:"scenario"`
	Timestamp          time.Time          `json:"timestamp"`
	G                  float64            `json:"g"`
	Dt                 float64            `json:"dt"`
	Duration           float64            `json:"duration"`
	Integrator         string             `json:"integrator"`
	Steps              int                `json:"steps"`
	Bodies             []BodyInfo         `json:"bodies"`
	EnergyDrift        *float64           `json:"energy_drift"`
	SkippedPairs       int                `json:"skipped_pairs"`
	CollisionsResolved int                `json:"collisions_resolved"`
	Metrics            map[string]float64 `json:"metrics"`
}

// Trajectory is a recorded run read back from disk.
type Trajectory struct {
	Times        []float64
	CenterOfMass []dynamo.Vec2
	Kinetic      []float64
	Potential    []float64
	Frames       [][]physics.Snapshot
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:                 runID,
		Scenario:           info.Scenario,
		Timestamp:          now,
		G:                  info.G,
		Dt:                 info.Dt,
		Duration:           info.Duration,
		Integrator:         info.Integrator,
		Steps:              result.StepsTaken,
		SkippedPairs:       result.Stats.SkippedPairs,
		CollisionsResolved: result.Stats.Collisions.Resolved,
		Metrics:            make(map[string]float64, len(result.Metrics)),
	}
	if isFinite(result.EnergyDrift) {
		drift := result.EnergyDrift
		meta.EnergyDrift = &drift
	}
	for name, v := range result.Metrics {
		if isFinite(v) {
			meta.Metrics[name] = v
		}
	}
	if len(result.Frames) > 0 {
		for _, b := range result.Frames[0] {
			meta.Bodies = append(meta.Bodies, BodyInfo{Radius: b.Radius, Mass: b.Mass, Member: b.Member})
		}
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	traj := &Trajectory{
		Times:        result.Times,
		CenterOfMass: result.CenterOfMass,
		Kinetic:      result.Kinetic,
		Potential:    result.Potential,
		Frames:       result.Frames,
	}
	if err := writeAndClose(csvFile, func(w io.Writer) error { return WriteCSV(w, traj) }); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeAndClose(f, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

// writeAndClose runs write against f and reports the first of the write and
// close errors, so a failed flush on close is not lost.
func writeAndClose(f io.WriteCloser, write func(io.Writer) error) error {
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV encodes one row per recorded frame.
func WriteCSV(out io.Writer, traj *Trajectory) error {
	w := csv.NewWriter(out)

	numBodies := 0
	if len(traj.Frames) > 0 {
		numBodies = len(traj.Frames[0])
	}

	header := []string{"time", "com_x", "com_y", "kinetic", "potential"}
	for i := 0; i < numBodies; i++ {
		header = append(header,
			fmt.Sprintf("b%d_x", i), fmt.Sprintf("b%d_y", i),
			fmt.Sprintf("b%d_vx", i), fmt.Sprintf("b%d_vy", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range traj.Times {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(traj.Times[i]))
		row = append(row, formatFloat(traj.CenterOfMass[i].X), formatFloat(traj.CenterOfMass[i].Y))
		row = append(row, formatFloat(traj.Kinetic[i]), formatFloat(traj.Potential[i]))
		for j := 0; j < numBodies; j++ {
			if j >= len(traj.Frames[i]) {
				row = append(row, "", "", "", "")
				continue
			}
			b := traj.Frames[i][j]
			row = append(row,
				formatFloat(b.Position.X), formatFloat(b.Position.Y),
				formatFloat(b.Velocity.X), formatFloat(b.Velocity.Y))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns stored runs, newest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s metadata: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory reads states.csv back, restoring body radii, masses and
// membership from the run metadata.
func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{}
	if len(records) < 2 {
		return traj, nil
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < leadingColumns {
			return nil, fmt.Errorf("run %s row %d: %d columns", runID, i, len(record))
		}

		vals := make([]float64, leadingColumns)
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(record[j], 64); err != nil {
				return nil, fmt.Errorf("run %s row %d: %w", runID, i, err)
			}
		}
		traj.Times = append(traj.Times, vals[0])
		traj.CenterOfMass = append(traj.CenterOfMass, dynamo.V(vals[1], vals[2]))
		traj.Kinetic = append(traj.Kinetic, vals[3])
		traj.Potential = append(traj.Potential, vals[4])

		frame := make([]physics.Snapshot, 0, len(meta.Bodies))
		for b, info := range meta.Bodies {
			off := leadingColumns + b*bodyColumns
			if off+bodyColumns > len(record) || record[off] == "" {
				break
			}
			var bv [bodyColumns]float64
			for k := range bv {
				if bv[k], err = strconv.ParseFloat(record[off+k], 64); err != nil {
					return nil, fmt.Errorf("run %s row %d body %d: %w", runID, i, b, err)
				}
			}
			frame = append(frame, physics.Snapshot{
				Position: dynamo.V(bv[0], bv[1]),
				Velocity: dynamo.V(bv[2], bv[3]),
				Radius:   info.Radius,
				Mass:     info.Mass,
				Member:   info.Member,
			})
		}
		traj.Frames = append(traj.Frames, frame)
	}

	return traj, nil
}
