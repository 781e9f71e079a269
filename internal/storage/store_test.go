package storage

import (
	"math"
	"testing"

	"github.com/san-kum/multibody/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Times: []float64{0, 0.1, 0.2},
		Frames: [][]float64{
			{0, -1, 0, 0, -2, 0},
			{0.01, -0.99, 0.001, 0.02, -1.98, 0.002},
			{0.02, -0.98, 0.002, 0.04, -1.96, 0.004},
		},
		Metrics: map[string]float64{"constraint_drift": 1.5e-9},
		Steps:   200,
	}
}

func TestSaveAndList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := store.Save("double", 0.001, 0.2, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("listed %d runs, want 1", len(runs))
	}

	meta := runs[0]
	if meta.ID != runID {
		t.Errorf("id = %q, want %q", meta.ID, runID)
	}
	if meta.Name != "double" || meta.Steps != 200 || meta.Bodies != 2 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Metrics["constraint_drift"] != 1.5e-9 {
		t.Errorf("metric not persisted: %v", meta.Metrics)
	}
}

func TestLoadMetadata(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := store.Save("pendulum", 0.0005, 1.0, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Dt != 0.0005 || meta.Duration != 1.0 {
		t.Errorf("run settings mismatch: %+v", meta)
	}
}

func TestLoadTrajectoryRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	orig := sampleResult()
	runID, err := store.Save("double", 0.001, 0.2, orig)
	if err != nil {
		t.Fatal(err)
	}

	times, frames, err := store.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}

	if len(times) != len(orig.Times) || len(frames) != len(orig.Frames) {
		t.Fatalf("lengths changed: %d times, %d frames", len(times), len(frames))
	}
	for i := range times {
		if math.Abs(times[i]-orig.Times[i]) > 1e-6 {
			t.Errorf("time %d = %f, want %f", i, times[i], orig.Times[i])
		}
		for k := range frames[i] {
			if frames[i][k] != orig.Frames[i][k] {
				t.Errorf("frame %d component %d = %v, want %v", i, k, frames[i][k], orig.Frames[i][k])
			}
		}
	}
}

func TestListEmptyStore(t *testing.T) {
	store := New(t.TempDir() + "/never-created")

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("listed %d runs from empty store", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load("missing_123"); err == nil {
		t.Error("expected error for unknown run")
	}
	if _, _, err := store.LoadTrajectory("missing_123"); err == nil {
		t.Error("expected error for unknown trajectory")
	}
}
