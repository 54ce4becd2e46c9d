package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	a := []float64{1.0, 2.0, 3.0}
	b := []float64{1.0, 2.1, 3.0}

	d, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}

	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	_, err := MaxAbsDiff([]float64{1}, []float64{1, 2})
	if err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestSettledAfter(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want int
	}{
		{name: "already quiet", data: []float64{0, 0, 0}, want: 0},
		{name: "decaying", data: []float64{1, 0.5, 0.1, 1e-9, 0}, want: 3},
		{name: "never", data: []float64{0, 0, 1}, want: -1},
		{name: "late burst", data: []float64{1, 0, 0.5, 0}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SettledAfter(tt.data, 1e-6); got != tt.want {
				t.Fatalf("SettledAfter() = %d, want %d", got, tt.want)
			}
		})
	}
}
