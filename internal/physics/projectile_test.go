package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/balsimlab/balsim/internal/dynamo"
	"github.com/balsimlab/balsim/internal/physics"
)

var _ = Describe("Projectile", func() {
	Describe("Derive", func() {
		It("reduces to free fall when drag is zero", func() {
			p := physics.NewProjectile(0, 9.81, 0)
			x := dynamo.State{10, 30, 5, 20}

			dx := p.Derive(x, 0)

			Expect(dx[physics.PosX]).To(Equal(30.0))
			Expect(dx[physics.VelX]).To(BeZero())
			Expect(dx[physics.PosY]).To(Equal(20.0))
			Expect(dx[physics.VelY]).To(Equal(-9.81))
		})

		It("produces no drag acceleration when moving with the wind", func() {
			p := physics.NewProjectile(0.01, 9.81, 5)
			x := dynamo.State{0, 5, 0, 0}

			dx := p.Derive(x, 0)

			Expect(dx[physics.VelX]).To(BeZero())
			Expect(dx[physics.VelY]).To(Equal(-9.81))
		})

		It("pushes a resting projectile downwind", func() {
			p := physics.NewProjectile(0.01, 9.81, 5)
			x := dynamo.State{0, 0, 0, 0}

			dx := p.Derive(x, 0)

			// relative air speed is 5 against the wind, so drag acts downrange
			Expect(dx[physics.VelX]).To(BeNumerically("==", 0.01*5*5))
		})

		It("opposes motion with magnitude k*s^2", func() {
			k, v := 0.002, 40.0
			p := physics.NewProjectile(k, 9.81, 0)
			x := dynamo.State{0, v, 0, 0}

			dx := p.Derive(x, 0)

			Expect(dx[physics.VelX]).To(BeNumerically("~", -k*v*v, 1e-12))
		})

		It("stays finite at zero relative speed", func() {
			p := physics.NewProjectile(0.01, 9.81, 0)
			x := dynamo.State{0, 0, 0, 0}

			dx := p.Derive(x, 0)

			Expect(dx.IsValid()).To(BeTrue())
			Expect(dx[physics.VelX]).To(BeZero())
		})
	})

	Describe("LaunchState", func() {
		It("starts at the origin with the velocity decomposed by angle", func() {
			x := physics.LaunchState(100, math.Pi/4)

			Expect(x[physics.PosX]).To(BeZero())
			Expect(x[physics.PosY]).To(BeZero())
			Expect(x[physics.VelX]).To(BeNumerically("~", 100/math.Sqrt2, 1e-9))
			Expect(x[physics.VelY]).To(BeNumerically("~", 100/math.Sqrt2, 1e-9))
		})

		It("launches straight up at pi/2", func() {
			x := physics.LaunchState(50, math.Pi/2)

			Expect(x[physics.VelX]).To(BeNumerically("~", 0, 1e-12))
			Expect(x[physics.VelY]).To(BeNumerically("~", 50, 1e-9))
		})
	})

	Describe("Validate", func() {
		It("accepts zero drag", func() {
			Expect(physics.NewProjectile(0, 9.81, 0).Validate()).To(Succeed())
		})

		It("rejects non-positive gravity", func() {
			err := physics.NewProjectile(0.002, 0, 0).Validate()
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects negative drag", func() {
			err := physics.NewProjectile(-0.001, 9.81, 0).Validate()
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})
	})

	Describe("Energy", func() {
		It("sums kinetic and potential terms", func() {
			p := physics.NewProjectile(0, 10, 0)
			x := dynamo.State{0, 3, 2, 4}

			Expect(p.Energy(x)).To(BeNumerically("~", 0.5*25+10*2, 1e-12))
		})
	})

	Describe("SetParam", func() {
		It("round-trips through GetParams", func() {
			p := physics.NewProjectile(0.002, 9.81, 0)

			Expect(p.SetParam("wind", -3)).To(Succeed())
			Expect(p.GetParams()["wind"]).To(Equal(-3.0))
		})

		It("rejects unknown names", func() {
			p := physics.NewProjectile(0.002, 9.81, 0)
			Expect(p.SetParam("mass", 1)).NotTo(Succeed())
		})
	})
})
