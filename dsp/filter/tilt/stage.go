package tilt

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tilt/dsp/core"
)

// Coefficients holds the digital coefficients of one first-order section.
// a0 is normalized to 1 and not stored.
//
//	y[n] = B0*x[n] + B1*x[n-1] - A1*y[n-1]
//	out  = Gain * y[n]
type Coefficients struct {
	B0, B1 float64 // feedforward
	A1     float64 // feedback
	Gain   float64 // output gain, normalizes DC to unity
}

// identity passes input through unchanged.
var identity = Coefficients{B0: 1, Gain: 1}

// Stage is a first-order shelving section: a real zero, a real pole and an
// output gain, processed in Direct Form I.
//
// The zero value is not usable; create stages with [NewStage] or through a
// [Bank]. An unconfigured stage is an identity.
type Stage struct {
	Coefficients

	sampleRate float64
	x1, y1     float64
}

// NewStage returns an identity stage running at sampleRate.
func NewStage(sampleRate float64) (Stage, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return Stage{}, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	return Stage{Coefficients: identity, sampleRate: sampleRate}, nil
}

// SampleRate returns the sample rate in Hz.
func (s *Stage) SampleRate() float64 { return s.sampleRate }

// SetSampleRate stores a new sample rate. Coefficients and state are left
// alone; the owner must call [Stage.Configure] again to follow the new rate.
func (s *Stage) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	s.sampleRate = sampleRate

	return nil
}

// Configure derives the digital coefficients from the analog prototype
//
//	H(s) = (b1*s + b0) / (s + a0)
//
// whose frequency axis is normalized to w1 (rad/s). The bilinear transform
// maps w1 exactly:
//
//	c   = 1 / tan(w1*T/2)
//	d   = a0 + c
//	B0  = (b0 + b1*c) / d
//	B1  = (b0 - b1*c) / d
//	A1  = (a0 - c) / d
//	g   = a0 / b0
//
// The section is stable whenever a0 > 0. On error the stage is unchanged.
func (s *Stage) Configure(b1, b0, a0, w1 float64) error {
	c, err := s.computeCoefficients(b1, b0, a0, w1)
	if err != nil {
		return err
	}

	s.Coefficients = c

	return nil
}

func (s *Stage) computeCoefficients(b1, b0, a0, w1 float64) (Coefficients, error) {
	if !core.AllFinite(b1, b0, a0, w1) {
		return Coefficients{}, fmt.Errorf("%w: b1=%v b0=%v a0=%v w1=%v", ErrNonFinite, b1, b0, a0, w1)
	}

	half := w1 / (2 * s.sampleRate)
	if w1 <= 0 || half >= math.Pi/2 {
		return Coefficients{}, fmt.Errorf("%w: %v rad/s at %v Hz", ErrInvalidReference, w1, s.sampleRate)
	}

	if b0 == 0 {
		return Coefficients{}, ErrZeroGain
	}

	c := 1 / math.Tan(half)
	d := a0 + c
	out := Coefficients{
		B0:   (b0 + b1*c) / d,
		B1:   (b0 - b1*c) / d,
		A1:   (a0 - c) / d,
		Gain: a0 / b0,
	}

	if !core.AllFinite(out.B0, out.B1, out.A1, out.Gain) {
		return Coefficients{}, fmt.Errorf("%w: %+v", ErrNonFinite, out)
	}

	return out, nil
}

// ProcessSample filters one input sample and returns the output.
func (s *Stage) ProcessSample(x float64) float64 {
	y := s.B0*x + s.B1*s.x1 - s.A1*s.y1
	s.x1 = x
	s.y1 = y

	return s.Gain * y
}

// Pole returns the digital pole location on the real axis (-A1).
func (s *Stage) Pole() float64 { return -s.A1 }

// Zero returns the digital zero location on the real axis (-B1/B0).
func (s *Stage) Zero() float64 {
	if s.B0 == 0 {
		return math.Inf(1)
	}

	return -s.B1 / s.B0
}

// Reset clears the delay line to zero.
func (s *Stage) Reset() {
	s.x1 = 0
	s.y1 = 0
}

// State returns the current delay-line state [x[n-1], y[n-1]].
func (s *Stage) State() [2]float64 {
	return [2]float64{s.x1, s.y1}
}

// SetState restores a previously saved delay-line state.
func (s *Stage) SetState(state [2]float64) {
	s.x1 = state[0]
	s.y1 = state[1]
}
