package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/multibody/internal/dynamics"
)

// Runner drives an initialized system through a timed run.
type Runner struct {
	sys       *dynamics.System
	metrics   []Metric
	observers []Observer
}

func NewRunner(sys *dynamics.System) *Runner {
	return &Runner{sys: sys}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run issues Duration/dt steps, recording a trajectory frame every
// RecordEvery steps (every step when zero). The partial result is
// returned alongside any step error or context cancellation.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	every := cfg.RecordEvery
	if every <= 0 {
		every = 1
	}

	// Round, don't truncate: Duration/dt sits a few ulps below an
	// integer for decimal increments like 0.001.
	steps := int(math.Round(cfg.Duration / r.sys.Dt()))
	result := &Result{
		Times:   make([]float64, 0, steps/every+1),
		Frames:  make([][]float64, 0, steps/every+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	r.record(result)
	r.observe(r.sys.Time())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := r.sys.Step(); err != nil {
			return result, err
		}
		result.Steps++

		r.observe(r.sys.Time())
		if (i+1)%every == 0 {
			r.record(result)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (r *Runner) observe(t float64) {
	for _, m := range r.metrics {
		m.Observe(r.sys, t)
	}
	for _, o := range r.observers {
		o.OnStep(r.sys, t)
	}
}

func (r *Runner) record(result *Result) {
	result.Times = append(result.Times, r.sys.Time())
	result.Frames = append(result.Frames, Frame(r.sys))
}

// Frame flattens the current mobile-body world positions into one
// trajectory row (fixed bodies are omitted).
func Frame(sys *dynamics.System) []float64 {
	row := make([]float64, 0, 3*sys.NumBodies())
	for i := 0; i < sys.NumBodies(); i++ {
		b := sys.Body(i)
		if b.Fixed() {
			continue
		}
		p := b.Position()
		row = append(row, p.X(), p.Y(), p.Z())
	}
	return row
}
