package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/balsimlab/balsim/internal/physics"
)

var _ = Describe("Kinematics", func() {
	const g = 9.81

	Describe("Range", func() {
		It("matches the closed form for the reference launch", func() {
			Expect(physics.Range(100, math.Pi/4, g)).To(BeNumerically("~", 10000.0/g, 1e-9))
		})

		It("is symmetric about pi/4", func() {
			theta := 0.3
			Expect(physics.Range(80, theta, g)).To(
				BeNumerically("~", physics.Range(80, math.Pi/2-theta, g), 1e-9))
		})

		It("vanishes for flat and vertical launches", func() {
			Expect(physics.Range(100, 0, g)).To(BeNumerically("~", 0, 1e-9))
			Expect(physics.Range(100, math.Pi/2, g)).To(BeNumerically("~", 0, 1e-9))
		})

		It("vanishes at zero speed", func() {
			Expect(physics.Range(0, math.Pi/4, g)).To(BeZero())
		})

		It("peaks at pi/4", func() {
			best := physics.Range(60, math.Pi/4, g)
			for _, theta := range []float64{0.1, 0.5, 1.0, 1.4} {
				Expect(physics.Range(60, theta, g)).To(BeNumerically("<=", best))
			}
		})

		It("grows monotonically with speed", func() {
			prev := 0.0
			for v := 10.0; v <= 100; v += 10 {
				r := physics.Range(v, math.Pi/4, g)
				Expect(r).To(BeNumerically(">", prev))
				prev = r
			}
		})
	})

	Describe("VacuumHeight", func() {
		It("is zero at launch and at the range", func() {
			v, theta := 70.0, 0.6
			r := physics.Range(v, theta, g)

			Expect(physics.VacuumHeight(0, v, theta, g)).To(BeZero())
			Expect(physics.VacuumHeight(r, v, theta, g)).To(BeNumerically("~", 0, 1e-6))
		})

		It("reaches the apex at half range", func() {
			v, theta := 70.0, 0.6
			r := physics.Range(v, theta, g)
			sin := math.Sin(theta)
			apex := v * v * sin * sin / (2 * g)

			Expect(physics.VacuumHeight(r/2, v, theta, g)).To(BeNumerically("~", apex, 1e-6))
		})
	})

	Describe("VacuumFlightTime", func() {
		It("matches distance over horizontal speed", func() {
			v, theta := 70.0, 0.6
			r := physics.Range(v, theta, g)
			tf := physics.VacuumFlightTime(v, theta, g)

			Expect(tf * v * math.Cos(theta)).To(BeNumerically("~", r, 1e-9))
		})
	})

	Describe("RangeVsAngle", func() {
		It("samples inclusive endpoints", func() {
			c := physics.RangeVsAngle(50, 0, math.Pi/2, 10, g)

			Expect(c.X).To(HaveLen(10))
			Expect(c.Y).To(HaveLen(10))
			Expect(c.X[0]).To(BeZero())
			Expect(c.X[9]).To(BeNumerically("~", math.Pi/2, 1e-12))
		})

		It("clamps sample counts below two", func() {
			c := physics.RangeVsSpeed(0, 100, 1, g)
			Expect(c.X).To(HaveLen(2))
		})
	})
})
