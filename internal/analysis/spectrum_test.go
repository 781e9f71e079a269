package analysis

import (
	"math"
	"testing"
)

func TestDominantPeriodSine(t *testing.T) {
	// 2 Hz sine sampled at 100 Hz for 20 seconds.
	dt := 0.01
	data := make([]float64, 2000)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 2 * float64(i) * dt)
	}

	period := DominantPeriod(data, dt)
	if math.Abs(period-0.5)/0.5 > 0.05 {
		t.Errorf("period = %f, want 0.5 within 5%%", period)
	}
}

func TestDominantPeriodWithOffset(t *testing.T) {
	// A DC offset must not masquerade as the dominant component.
	dt := 0.02
	data := make([]float64, 1000)
	for i := range data {
		data[i] = 5 + 0.1*math.Sin(2*math.Pi*1.25*float64(i)*dt)
	}

	period := DominantPeriod(data, dt)
	if math.Abs(period-0.8)/0.8 > 0.05 {
		t.Errorf("period = %f, want 0.8 within 5%%", period)
	}
}

func TestDominantPeriodConstant(t *testing.T) {
	data := make([]float64, 256)
	for i := range data {
		data[i] = 3.14
	}

	if p := DominantPeriod(data, 0.01); p != 0 {
		t.Errorf("constant signal gave period %f, want 0", p)
	}
}

func TestDominantPeriodDegenerate(t *testing.T) {
	if p := DominantPeriod(nil, 0.01); p != 0 {
		t.Errorf("empty signal gave period %f", p)
	}
	if p := DominantPeriod([]float64{1}, 0.01); p != 0 {
		t.Errorf("single sample gave period %f", p)
	}
	if p := DominantPeriod([]float64{1, 2, 3}, 0); p != 0 {
		t.Errorf("zero dt gave period %f", p)
	}
}

func TestPowerSpectrumPadding(t *testing.T) {
	ps, n := PowerSpectrum(make([]float64, 5))
	if n != 8 {
		t.Errorf("padded length = %d, want 8", n)
	}
	if len(ps) != 4 {
		t.Errorf("spectrum length = %d, want 4", len(ps))
	}
}

func TestPowerSpectrumPeakBin(t *testing.T) {
	// Exactly 8 cycles over 256 samples lands on bin 8 with no leakage.
	data := make([]float64, 256)
	for i := range data {
		data[i] = math.Cos(2 * math.Pi * 8 * float64(i) / 256)
	}

	ps, n := PowerSpectrum(data)
	if n != 256 {
		t.Fatalf("padded length = %d, want 256", n)
	}

	peak := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	if peak != 8 {
		t.Errorf("peak at bin %d, want 8", peak)
	}
}
