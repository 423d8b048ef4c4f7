package sim

import (
	"context"
	"sync"
)

// Factory builds a configured simulator for one replica seed.
type Factory func(seed int64) (*Simulator, error)

// Replicas runs independent copies of a simulation with consecutive seeds.
// Each replica owns its simulator, ensemble and trajectory, so replicas share
// nothing while they run.
type Replicas struct {
	factory   Factory
	numRuns   int
	seedStart int64
}

func NewReplicas(factory Factory, numRuns int, seedStart int64) *Replicas {
	return &Replicas{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

func (r *Replicas) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, r.numRuns)
	errs := make([]error, r.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < r.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, err := r.factory(r.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx, cfg)
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
