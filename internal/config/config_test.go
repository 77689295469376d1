package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/cowsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.G != 10000 {
		t.Errorf("expected G 10000, got %f", cfg.G)
	}
	if cfg.Integrator != "euler" {
		t.Errorf("expected integrator euler, got %s", cfg.Integrator)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
name: tiny
dt: 0.02
bodies:
  - {x: 0, y: 0, vx: 1, radius: 2, mass: 3, member: true}
  - {x: 50, y: 0, radius: 2, mass: 3}
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Name != "tiny" || cfg.Dt != 0.02 {
		t.Errorf("got name %q dt %v", cfg.Name, cfg.Dt)
	}
	if cfg.G != DefaultG || cfg.Duration != DefaultDuration || !cfg.Collisions {
		t.Errorf("defaults not kept: %+v", cfg)
	}
	if len(cfg.Bodies) != 2 || !cfg.Bodies[0].Member || cfg.Bodies[1].Member {
		t.Errorf("bodies = %+v", cfg.Bodies)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"unbounded step count", func(c *Config) { c.Dt, c.Duration = 1e-300, 1e10 }},
		{"unknown integrator", func(c *Config) { c.Integrator = "rk4" }},
		{"negative gravity", func(c *Config) { c.G = -1 }},
		{"massless body", func(c *Config) { c.Bodies = []BodyConfig{{Radius: 1}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, dynamo.ErrInvalidConfig) && !errors.Is(err, dynamo.ErrInvalidBody) {
				t.Errorf("unexpected error kind: %v", err)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	want := GetPreset("slingshot")

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != want.Name || len(got.Bodies) != len(want.Bodies) {
		t.Errorf("loaded %+v, want %+v", got, want)
	}
	if got.Bodies[2].Mass != 500 || got.Bodies[2].Member {
		t.Errorf("attractor = %+v", got.Bodies[2])
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("pair")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Bodies[0].VX != 20 || cfg.Bodies[1].VX != -20 {
		t.Errorf("pair velocities = %+v", cfg.Bodies)
	}

	cfg.Bodies[0].VX = 99
	if Presets["pair"].Bodies[0].VX != 20 {
		t.Error("GetPreset returned a shared copy")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidAndBuild(t *testing.T) {
	names := ListPresets()
	if len(names) != 4 {
		t.Fatalf("expected 4 presets, got %v", names)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if err := cfg.Validate(); err != nil {
				t.Fatalf("invalid preset: %v", err)
			}
			s, err := cfg.Build()
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if s.Len() != len(cfg.Bodies) {
				t.Errorf("built %d bodies, want %d", s.Len(), len(cfg.Bodies))
			}
			if err := s.Step(cfg.Dt); err != nil {
				t.Errorf("Step: %v", err)
			}
		})
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	if err := Save(path, DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	// Writes to other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Name = "edited"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		abs, _ := filepath.Abs(path)
		if got != abs {
			t.Errorf("event for %q, want %q", got, abs)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event")
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()
	for i, name := range ParamNames {
		if err := cfg.SetParam(name, float64(i+1)); err != nil {
			t.Fatalf("SetParam(%s): %v", name, err)
		}
	}
	if cfg.Dt != 1 || cfg.Duration != 2 || cfg.G != 3 || cfg.MinSeparation != 4 {
		t.Errorf("params not applied: %+v", cfg)
	}
	if err := cfg.SetParam("mass", 1); err == nil {
		t.Error("unknown parameter accepted")
	}
}
