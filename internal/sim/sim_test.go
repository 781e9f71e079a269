package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/multibody/internal/config"
	"github.com/san-kum/multibody/internal/dynamics"
	"github.com/san-kum/multibody/internal/linalg"
)

func TestFromConfigCounts(t *testing.T) {
	cfg := config.Chain(3, 3)
	sys, err := FromConfig(cfg, linalg.NewDense())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if sys.NumBodies() != 4 {
		t.Errorf("bodies = %d, want 4", sys.NumBodies())
	}
	if sys.NumJoints() != 3 {
		t.Errorf("joints = %d, want 3", sys.NumJoints())
	}
	if !sys.Body(0).Fixed() {
		t.Error("first body should be the fixed anchor")
	}
}

func TestFromConfigClosesConstraints(t *testing.T) {
	cfg := config.Chain(5, 7)
	sys, err := FromConfig(cfg, linalg.NewDense())
	if err != nil {
		t.Fatal(err)
	}
	if err := sys.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if v := sys.ConstraintViolation(); v > 1e-12 {
		t.Errorf("generated chain starts with constraint violation %e", v)
	}
}

func TestFromConfigUnknownJointType(t *testing.T) {
	cfg := config.Chain(1, 3)
	cfg.Joints[0].Type = "prismatic"

	if _, err := FromConfig(cfg, linalg.NewDense()); err == nil {
		t.Error("expected error for unsupported joint type")
	}
}

func TestFromConfigBadJointIndex(t *testing.T) {
	cfg := config.Chain(1, 3)
	cfg.Joints[0].BodyJ = 7

	if _, err := FromConfig(cfg, linalg.NewDense()); !errors.Is(err, dynamics.ErrUnknownBody) {
		t.Errorf("expected ErrUnknownBody, got %v", err)
	}
}

func newTestRunner(t *testing.T, links int, dt float64) *Runner {
	t.Helper()

	cfg := config.Chain(links, 3)
	cfg.Dt = dt
	sys, err := FromConfig(cfg, linalg.NewDense())
	if err != nil {
		t.Fatal(err)
	}
	if err := sys.Init(); err != nil {
		t.Fatal(err)
	}
	return NewRunner(sys)
}

func TestRunnerStepsAndFrames(t *testing.T) {
	r := newTestRunner(t, 1, 0.001)

	result, err := r.Run(context.Background(), Config{Duration: 0.5, RecordEvery: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Steps != 500 {
		t.Errorf("steps = %d, want 500", result.Steps)
	}
	// Initial frame plus one every 10 steps.
	if len(result.Frames) != 51 {
		t.Errorf("frames = %d, want 51", len(result.Frames))
	}
	if len(result.Times) != len(result.Frames) {
		t.Errorf("times/frames length mismatch: %d vs %d", len(result.Times), len(result.Frames))
	}
	// One mobile body: three position components per frame.
	if len(result.Frames[0]) != 3 {
		t.Errorf("frame width = %d, want 3", len(result.Frames[0]))
	}
}

func TestRunnerInvalidDuration(t *testing.T) {
	r := newTestRunner(t, 1, 0.001)
	if _, err := r.Run(context.Background(), Config{Duration: 0}); err == nil {
		t.Error("expected error for zero duration")
	}
}

type countingObserver struct {
	calls int
}

func (c *countingObserver) OnStep(sys *dynamics.System, t float64) { c.calls++ }

func TestRunnerObserver(t *testing.T) {
	r := newTestRunner(t, 1, 0.01)
	obs := &countingObserver{}
	r.AddObserver(obs)

	if _, err := r.Run(context.Background(), Config{Duration: 1}); err != nil {
		t.Fatal(err)
	}

	// Once for the initial state, then once per step.
	if obs.calls != 101 {
		t.Errorf("observer called %d times, want 101", obs.calls)
	}
}

type fakeMetric struct {
	observed int
	resets   int
}

func (f *fakeMetric) Name() string                            { return "fake" }
func (f *fakeMetric) Observe(sys *dynamics.System, t float64) { f.observed++ }
func (f *fakeMetric) Value() float64                          { return float64(f.observed) }
func (f *fakeMetric) Reset()                                  { f.resets++; f.observed = 0 }

func TestRunnerMetrics(t *testing.T) {
	r := newTestRunner(t, 1, 0.01)
	m := &fakeMetric{}
	r.AddMetric(m)

	result, err := r.Run(context.Background(), Config{Duration: 0.5})
	if err != nil {
		t.Fatal(err)
	}

	if m.resets != 1 {
		t.Errorf("metric reset %d times, want 1", m.resets)
	}
	if result.Metrics["fake"] != 51 {
		t.Errorf("final metric value = %f, want 51", result.Metrics["fake"])
	}
}

func TestRunnerContextCancel(t *testing.T) {
	r := newTestRunner(t, 1, 0.001)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx, Config{Duration: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Steps != 0 {
		t.Error("cancelled run should return the partial result")
	}
}

func TestSweep(t *testing.T) {
	cfgs := []*config.Config{
		config.Chain(1, 3),
		config.Chain(2, 3),
		config.Chain(3, 3),
	}
	for _, cfg := range cfgs {
		cfg.Duration = 0.1
	}

	results, err := Sweep(context.Background(), linalg.NewDense(), cfgs, nil)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// Results keep config order: frame width grows with link count.
	for i, res := range results {
		want := 3 * (i + 1)
		if len(res.Frames[0]) != want {
			t.Errorf("result %d frame width = %d, want %d", i, len(res.Frames[0]), want)
		}
	}
}

func TestSweepPropagatesBuildError(t *testing.T) {
	bad := config.Chain(1, 3)
	bad.Joints[0].BodyJ = 9

	_, err := Sweep(context.Background(), linalg.NewDense(), []*config.Config{bad}, nil)
	if err == nil {
		t.Error("expected build error from sweep")
	}
}
