package tilt

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// quarterRate returns a stage at 48 kHz and the reference w1 = 2π·12 kHz,
// for which tan(w1*T/2) = 1 and the bilinear constant c is 1.
func quarterRate(t *testing.T) (Stage, float64) {
	t.Helper()

	s, err := NewStage(48000)
	if err != nil {
		t.Fatalf("NewStage() error = %v", err)
	}

	return s, 2 * math.Pi * 12000
}

func TestNewStageIsIdentity(t *testing.T) {
	s, err := NewStage(44100)
	if err != nil {
		t.Fatalf("NewStage() error = %v", err)
	}

	if s.Coefficients != identity {
		t.Fatalf("coefficients = %+v, want identity", s.Coefficients)
	}

	for i, x := range []float64{1, -0.5, 0.25, 0, 3} {
		if y := s.ProcessSample(x); y != x {
			t.Fatalf("sample %d: got %v, want %v", i, y, x)
		}
	}
}

func TestNewStageRejectsSampleRate(t *testing.T) {
	for _, sr := range []float64{0, -48000, math.NaN(), math.Inf(1)} {
		if _, err := NewStage(sr); !errors.Is(err, ErrInvalidSampleRate) {
			t.Errorf("NewStage(%v) error = %v, want ErrInvalidSampleRate", sr, err)
		}
	}
}

func TestConfigureCoefficients(t *testing.T) {
	// c = 1: d = a0 + 1 = 3
	// B0 = (0.5 + 1)/3 = 0.5, B1 = (0.5 - 1)/3 = -1/6, A1 = (2 - 1)/3 = 1/3, g = 4
	s, w1 := quarterRate(t)
	if err := s.Configure(1, 0.5, 2, w1); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	want := Coefficients{B0: 0.5, B1: -1.0 / 6, A1: 1.0 / 3, Gain: 4}
	got := s.Coefficients
	if !almostEqual(got.B0, want.B0, eps) || !almostEqual(got.B1, want.B1, eps) ||
		!almostEqual(got.A1, want.A1, eps) || !almostEqual(got.Gain, want.Gain, eps) {
		t.Fatalf("coefficients = %+v, want %+v", got, want)
	}
}

func TestProcessSampleDirectFormI(t *testing.T) {
	// Hand-traced with B0=0.5, B1=-1/6, A1=1/3, g=4 and x = [1, 0, 0]:
	//
	// n=0: y = 0.5                        -> out 2
	// n=1: y = -1/6*1 - 1/3*0.5 = -1/3    -> out -4/3
	// n=2: y = -1/3*(-1/3) = 1/9          -> out 4/9
	s, w1 := quarterRate(t)
	if err := s.Configure(1, 0.5, 2, w1); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	want := []float64{2, -4.0 / 3, 4.0 / 9}
	for i, w := range want {
		var x float64
		if i == 0 {
			x = 1
		}

		if y := s.ProcessSample(x); !almostEqual(y, w, 1e-12) {
			t.Errorf("sample %d: got %.15f, want %.15f", i, y, w)
		}
	}

	st := s.State()
	if st[0] != 0 || !almostEqual(st[1], 1.0/9, 1e-12) {
		t.Fatalf("state = %v, want [0 1/9]", st)
	}
}

func TestConfigureUnityDCAndStablePole(t *testing.T) {
	s, err := NewStage(44100)
	if err != nil {
		t.Fatalf("NewStage() error = %v", err)
	}

	w1 := 2 * math.Pi * 1000
	for _, tc := range []struct{ b0, a0 float64 }{
		{0.5, 2}, {2, 0.5}, {1, 1}, {0.01, 30}, {7, 7.5},
	} {
		if err := s.Configure(1, tc.b0, tc.a0, w1); err != nil {
			t.Fatalf("Configure(%v, %v) error = %v", tc.b0, tc.a0, err)
		}

		if math.Abs(s.Pole()) >= 1 {
			t.Errorf("b0=%v a0=%v: pole %v not inside unit circle", tc.b0, tc.a0, s.Pole())
		}

		if dc := s.MagnitudeDB(0); !almostEqual(dc, 0, 1e-9) {
			t.Errorf("b0=%v a0=%v: DC gain %v dB, want 0", tc.b0, tc.a0, dc)
		}
	}
}

func TestConfigureErrorsLeaveStageUntouched(t *testing.T) {
	s, w1 := quarterRate(t)
	if err := s.Configure(1, 0.5, 2, w1); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	s.ProcessSample(1)

	before := s

	tests := []struct {
		name           string
		b1, b0, a0, w1 float64
		want           error
	}{
		{name: "zero reference", b1: 1, b0: 1, a0: 1, w1: 0, want: ErrInvalidReference},
		{name: "negative reference", b1: 1, b0: 1, a0: 1, w1: -1, want: ErrInvalidReference},
		{name: "reference at nyquist", b1: 1, b0: 1, a0: 1, w1: math.Pi * 48000, want: ErrInvalidReference},
		{name: "zero b0", b1: 1, b0: 0, a0: 1, w1: w1, want: ErrZeroGain},
		{name: "nan a0", b1: 1, b0: 1, a0: math.NaN(), w1: w1, want: ErrNonFinite},
		{name: "inf b1", b1: math.Inf(1), b0: 1, a0: 1, w1: w1, want: ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Configure(tt.b1, tt.b0, tt.a0, tt.w1)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Configure() error = %v, want %v", err, tt.want)
			}

			if s != before {
				t.Fatalf("stage changed on error: %+v, want %+v", s, before)
			}
		})
	}
}

func TestStageSetSampleRateKeepsCoefficientsAndState(t *testing.T) {
	s, w1 := quarterRate(t)
	if err := s.Configure(1, 0.5, 2, w1); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	s.ProcessSample(0.75)

	coeffs, state := s.Coefficients, s.State()
	if err := s.SetSampleRate(96000); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}

	if s.SampleRate() != 96000 {
		t.Fatalf("SampleRate() = %v, want 96000", s.SampleRate())
	}
	if s.Coefficients != coeffs {
		t.Fatalf("coefficients changed: %+v, want %+v", s.Coefficients, coeffs)
	}
	if s.State() != state {
		t.Fatalf("state changed: %v, want %v", s.State(), state)
	}

	if err := s.SetSampleRate(0); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("SetSampleRate(0) error = %v, want ErrInvalidSampleRate", err)
	}
	if s.SampleRate() != 96000 {
		t.Fatalf("SampleRate() = %v after rejected update", s.SampleRate())
	}
}

func TestStageResetAndSetState(t *testing.T) {
	s, w1 := quarterRate(t)
	if err := s.Configure(1, 0.5, 2, w1); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	s.ProcessSample(1)
	saved := s.State()
	next := s.ProcessSample(0)

	s.Reset()
	if s.State() != [2]float64{} {
		t.Fatalf("state after Reset = %v, want zero", s.State())
	}

	s.SetState(saved)
	if got := s.ProcessSample(0); got != next {
		t.Fatalf("restored output = %v, want %v", got, next)
	}
}

func TestStageZero(t *testing.T) {
	s, w1 := quarterRate(t)
	if err := s.Configure(1, 0.5, 2, w1); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	// Numerator 0.5 - 1/6 z^-1 vanishes at z = 1/3.
	if z := s.Zero(); !almostEqual(z, 1.0/3, 1e-12) {
		t.Fatalf("Zero() = %v, want 1/3", z)
	}
	if p := s.Pole(); !almostEqual(p, -1.0/3, 1e-12) {
		t.Fatalf("Pole() = %v, want -1/3", p)
	}
}
