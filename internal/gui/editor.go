package gui

import (
	"fmt"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/sim"
)

// Stage is the placement layer's input mode.
type Stage int

const (
	Placing Stage = iota
	Aiming
	Running
)

func (s Stage) String() string {
	switch s {
	case Placing:
		return "place"
	case Aiming:
		return "aim"
	case Running:
		return "running"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Template holds the properties given to the next placed body.
type Template struct {
	Mass   float64
	Radius float64
	Member bool
}

func (t Template) String() string {
	kind := "other"
	if t.Member {
		kind = "member"
	}
	return fmt.Sprintf("m=%.4g r=%.4g %s", t.Mass, t.Radius, kind)
}

// Editor alternates between placing a body and aiming it. The first click
// adds a resting body at the cursor, the second sets its velocity to
// release minus placement. Start locks the editor.
type Editor struct {
	sim    *sim.Locked
	tmpl   Template
	stage  Stage
	placed sim.Handle
	anchor dynamo.Vec2
}

func NewEditor(s *sim.Locked, tmpl Template) *Editor {
	return &Editor{sim: s, tmpl: tmpl}
}

func (e *Editor) Stage() Stage           { return e.stage }
func (e *Editor) Template() Template     { return e.tmpl }
func (e *Editor) SetTemplate(t Template) { e.tmpl = t }

// Anchor is the position of the body being aimed.
func (e *Editor) Anchor() (dynamo.Vec2, bool) {
	return e.anchor, e.stage == Aiming
}

// Click handles a click at world position p. Clicks after Start are ignored.
func (e *Editor) Click(p dynamo.Vec2) error {
	var err error
	switch e.stage {
	case Placing:
		var h sim.Handle
		e.sim.Do(func(s *sim.Simulator) {
			h, err = s.AddBody(p, dynamo.Zero, e.tmpl.Radius, e.tmpl.Mass, e.tmpl.Member)
		})
		if err != nil {
			return err
		}
		e.placed, e.anchor, e.stage = h, p, Aiming
	case Aiming:
		e.sim.Do(func(s *sim.Simulator) {
			err = s.SetVelocity(e.placed, dynamo.Sub(p, e.anchor))
		})
		if err != nil {
			return err
		}
		e.stage = Placing
	}
	return nil
}

// Start ends placement. A body still being aimed keeps zero velocity.
func (e *Editor) Start() { e.stage = Running }

// Reopen returns to placement, used after the world is replaced.
func (e *Editor) Reopen() { e.stage = Placing }

func (e *Editor) ToggleMember() { e.tmpl.Member = !e.tmpl.Member }

// ScaleMass and ScaleRadius multiply the template; non-positive results are
// ignored so the template always describes a valid body.
func (e *Editor) ScaleMass(f float64) {
	if m := e.tmpl.Mass * f; m > 0 && dynamo.IsFinite(dynamo.V(m, 0)) {
		e.tmpl.Mass = m
	}
}

func (e *Editor) ScaleRadius(f float64) {
	if r := e.tmpl.Radius * f; r > 0 && dynamo.IsFinite(dynamo.V(r, 0)) {
		e.tmpl.Radius = r
	}
}
