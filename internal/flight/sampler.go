package flight

import (
	"math"
	"math/rand"

	"github.com/balsimlab/balsim/internal/physics"
)

// Sample is one dataset row: time plus the (possibly perturbed) position.
type Sample struct {
	T float64
	X float64
	Y float64
}

// Downsample keeps every nth trajectory checkpoint, n = round(interval/dt).
// The initial sample at t=0 is always kept.
func Downsample(res *Result, dt, interval float64) []Sample {
	n := int(math.Round(interval / dt))
	if n < 1 {
		n = 1
	}

	out := make([]Sample, 0, len(res.States)/n+1)
	for i := 0; i < len(res.States); i += n {
		out = append(out, Sample{
			T: res.Times[i],
			X: res.States[i][physics.PosX],
			Y: res.States[i][physics.PosY],
		})
	}
	return out
}

// Perturb adds independent uniform jitter in [-amp, amp] to each position
// coordinate. Timestamps are left exact. The input slice is not modified.
func Perturb(samples []Sample, amp float64, rng *rand.Rand) []Sample {
	out := make([]Sample, len(samples))
	for i, s := range samples {
		out[i] = Sample{
			T: s.T,
			X: s.X + uniform(rng, amp),
			Y: s.Y + uniform(rng, amp),
		}
	}
	return out
}

func uniform(rng *rand.Rand, amp float64) float64 {
	return (2*rng.Float64() - 1) * amp
}
