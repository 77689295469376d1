package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/sim"
)

func addBody(s *sim.Simulator, pos, vel dynamo.Vec2, radius, mass float64, member bool) sim.Handle {
	h, err := s.AddBody(pos, vel, radius, mass, member)
	Expect(err).NotTo(HaveOccurred())
	return h
}

var _ = Describe("Simulator", func() {
	var s *sim.Simulator

	BeforeEach(func() {
		var err error
		s, err = sim.New(sim.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("gravity", func() {
		It("keeps total momentum constant for a bound cluster", func() {
			for i := 0; i < 6; i++ {
				angle := float64(i) * math.Pi / 3
				pos := dynamo.V(200*math.Cos(angle), 200*math.Sin(angle))
				vel := dynamo.V(-40*math.Sin(angle), 40*math.Cos(angle))
				addBody(s, pos, vel, 4, float64(3+i), true)
			}
			p0 := s.Momentum()

			for i := 0; i < 1000; i++ {
				Expect(s.Step(0.001)).To(Succeed())
			}

			p1 := s.Momentum()
			Expect(p1.X).To(BeNumerically("~", p0.X, 1e-6))
			Expect(p1.Y).To(BeNumerically("~", p0.Y, 1e-6))
		})

		It("pulls a resting pair toward each other symmetrically", func() {
			a := addBody(s, dynamo.V(-50, 0), dynamo.Zero, 2, 3, true)
			b := addBody(s, dynamo.V(50, 0), dynamo.Zero, 2, 3, true)

			Expect(s.Step(0.01)).To(Succeed())

			ba, err := s.Body(a)
			Expect(err).NotTo(HaveOccurred())
			bb, err := s.Body(b)
			Expect(err).NotTo(HaveOccurred())

			Expect(ba.Velocity.X).To(BeNumerically(">", 0))
			Expect(bb.Velocity.X).To(BeNumerically("~", -ba.Velocity.X, 1e-12))
			Expect(ba.Velocity.Y).To(BeZero())
		})

		It("skips coincident bodies instead of producing NaN", func() {
			addBody(s, dynamo.V(10, 10), dynamo.Zero, 1, 1, true)
			addBody(s, dynamo.V(10, 10), dynamo.Zero, 1, 1, true)

			Expect(s.Step(0.01)).To(Succeed())
			Expect(s.Stats().SkippedPairs).To(Equal(1))
			Expect(s.Stats().Collisions.Degenerate).To(Equal(1))
			for _, b := range s.Bodies() {
				Expect(dynamo.IsFinite(b.Position)).To(BeTrue())
			}
		})
	})

	Describe("collisions", func() {
		BeforeEach(func() {
			var err error
			cfg := sim.DefaultConfig()
			cfg.G = 0
			s, err = sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("conserves kinetic energy in an oblique impact", func() {
			addBody(s, dynamo.V(0, 0), dynamo.V(10, 0), 5, 2, true)
			addBody(s, dynamo.V(12, 6), dynamo.V(-4, 0), 5, 3, true)
			ke0 := s.KineticEnergy()

			for i := 0; i < 40 && s.Stats().Collisions.Resolved == 0; i++ {
				Expect(s.Step(0.01)).To(Succeed())
			}

			Expect(s.Stats().Collisions.Resolved).To(Equal(1))
			Expect(s.KineticEnergy()).To(BeNumerically("~", ke0, 1e-9))
		})

		It("leaves bodies short of contact untouched", func() {
			h := addBody(s, dynamo.V(0, 0), dynamo.V(1, 0), 5, 1, true)
			addBody(s, dynamo.V(30, 0), dynamo.Zero, 5, 1, true)

			Expect(s.Step(1)).To(Succeed())

			b, err := s.Body(h)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Velocity).To(Equal(dynamo.V(1, 0)))
			Expect(s.Stats().Collisions).To(BeZero())
		})
	})

	Describe("centre of mass", func() {
		It("ignores bodies that are not system members", func() {
			addBody(s, dynamo.V(0, 0), dynamo.Zero, 1, 1, true)
			addBody(s, dynamo.V(10, 0), dynamo.Zero, 1, 1, true)
			addBody(s, dynamo.V(1000, 1000), dynamo.Zero, 1, 1e6, false)

			com := s.CenterOfMass()
			Expect(com.X).To(BeNumerically("~", 5, 1e-12))
			Expect(com.Y).To(BeNumerically("~", 0, 1e-12))
		})

		It("is undefined when nothing is a member", func() {
			addBody(s, dynamo.V(3, 4), dynamo.Zero, 1, 1, false)
			Expect(math.IsNaN(s.CenterOfMass().X)).To(BeTrue())
		})
	})

	Describe("handles", func() {
		It("are never reused after removal", func() {
			seen := map[sim.Handle]bool{}
			for i := 0; i < 5; i++ {
				h := addBody(s, dynamo.V(float64(i)*20, 0), dynamo.Zero, 1, 1, true)
				Expect(seen).NotTo(HaveKey(h))
				seen[h] = true
				Expect(s.RemoveBody(h)).To(Succeed())
			}
			Expect(s.Len()).To(BeZero())
		})

		It("reports unknown handles", func() {
			_, err := s.Body(sim.Handle(7))
			Expect(err).To(MatchError(dynamo.ErrUnknownBody))
		})
	})
})
