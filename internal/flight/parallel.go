package flight

import (
	"context"
	"sync"
)

// Volley runs the same launch several times concurrently. Each run gets
// its own simulator from the factory, so systems and integrator scratch
// state are never shared across goroutines.
type Volley struct {
	newSim  func() *Simulator
	numRuns int
}

func NewVolley(newSim func() *Simulator, numRuns int) *Volley {
	return &Volley{newSim: newSim, numRuns: numRuns}
}

func (v *Volley) Run(ctx context.Context, launch Launch, cfg Config) ([]*Result, error) {
	results := make([]*Result, v.numRuns)
	errs := make([]error, v.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < v.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = v.newSim().Fly(ctx, launch, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
