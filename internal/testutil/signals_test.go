package testutil

import (
	"math"
	"testing"
)

type halver struct{}

func (halver) ProcessSample(x float64) float64 { return x / 2 }

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	RequireBitIdentical(t, a, b)

	c := DeterministicNoise(43, 1.0, 64)
	if d, _ := MaxAbsDiff(a, c); d == 0 {
		t.Fatal("different seeds produced identical noise")
	}
	for i, v := range a {
		if v < -1 || v >= 1 {
			t.Fatalf("a[%d] = %v out of range", i, v)
		}
	}
}

func TestImpulse(t *testing.T) {
	RequireSliceNearlyEqual(t, Impulse(4, 1), []float64{0, 1, 0, 0}, 0)
	RequireSliceNearlyEqual(t, Impulse(3, 5), []float64{0, 0, 0}, 0)
}

func TestRunAndToneGain(t *testing.T) {
	out := Run(halver{}, []float64{2, 4, -8})
	RequireSliceNearlyEqual(t, out, []float64{1, 2, -4}, 0)

	got := ToneGainDB(halver{}, 1000, 48000, 0, 4800)
	if math.Abs(got-(-6.0206)) > 1e-3 {
		t.Fatalf("ToneGainDB = %v, want -6.02", got)
	}
}

func TestRMS(t *testing.T) {
	if RMS(nil) != 0 {
		t.Fatal("RMS(nil) != 0")
	}
	if got := RMS([]float64{1, -1, 1, -1}); got != 1 {
		t.Fatalf("RMS = %v, want 1", got)
	}
}
