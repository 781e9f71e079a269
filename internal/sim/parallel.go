package sim

import (
	"context"
	"sync"

	"github.com/san-kum/multibody/internal/config"
	"github.com/san-kum/multibody/internal/linalg"
)

// Sweep runs each scenario concurrently and returns results in config
// order. Every goroutine builds its own system, so runs stay
// deterministic; the backend must be stateless. newMetrics, when
// non-nil, supplies a fresh metric set per run.
func Sweep(ctx context.Context, be linalg.Backend, cfgs []*config.Config, newMetrics func() []Metric) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		wg.Add(1)
		go func(idx int, cfg *config.Config) {
			defer wg.Done()

			sys, err := FromConfig(cfg, be)
			if err != nil {
				errs[idx] = err
				return
			}
			if err := sys.Init(); err != nil {
				errs[idx] = err
				return
			}

			r := NewRunner(sys)
			if newMetrics != nil {
				for _, m := range newMetrics() {
					r.AddMetric(m)
				}
			}

			results[idx], errs[idx] = r.Run(ctx, Config{
				Duration:    cfg.Duration,
				RecordEvery: cfg.RecordEvery,
			})
		}(i, cfg)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
