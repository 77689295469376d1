package metrics

import (
	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
)

// Boundedness is the fraction of samples in which every system member stayed
// within radius of the centre of mass.
type Boundedness struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewBoundedness(radius float64) *Boundedness {
	return &Boundedness{
		name:   "bounded",
		radius: radius,
	}
}

func (s *Boundedness) Name() string {
	return s.name
}

func (s *Boundedness) Observe(bodies []*physics.Body, t float64) {
	s.samples++
	com := CenterOfMass(bodies)
	if dynamo.IsNaN(com) {
		return
	}
	for _, b := range bodies {
		if !b.IsSystemMember() {
			continue
		}
		if dynamo.Norm(dynamo.Sub(b.Position(), com)) > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Boundedness) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Boundedness) Reset() {
	s.violations = 0
	s.samples = 0
}
