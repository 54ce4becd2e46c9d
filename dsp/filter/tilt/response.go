package tilt

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-tilt/dsp/core"
)

// Response computes the complex frequency response H(e^jw) of the section
// at freqHz for the given sample rate.
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	ejw := cmplx.Exp(complex(0, -w))

	num := complex(c.B0, 0) + complex(c.B1, 0)*ejw
	den := complex(1, 0) + complex(c.A1, 0)*ejw
	return complex(c.Gain, 0) * num / den
}

// MagnitudeSquared returns |H(f)|^2 in closed form.
func (c *Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	cw := math.Cos(2 * math.Pi * freqHz / sampleRate)
	num := c.B0*c.B0 + c.B1*c.B1 + 2*c.B0*c.B1*cw
	den := 1 + c.A1*c.A1 + 2*c.A1*cw
	return c.Gain * c.Gain * num / den
}

// Response returns the stage response at freqHz using its own sample rate.
func (s *Stage) Response(freqHz float64) complex128 {
	return s.Coefficients.Response(freqHz, s.sampleRate)
}

// MagnitudeDB returns the stage magnitude in dB at freqHz.
func (s *Stage) MagnitudeDB(freqHz float64) float64 {
	return 10 * math.Log10(s.MagnitudeSquared(freqHz, s.sampleRate))
}

// Response computes the complex frequency response of the full cascade as
// the product of the stage responses.
func (b *Bank) Response(freqHz float64) complex128 {
	h := complex(1, 0)
	for i := range b.stages {
		h *= b.stages[i].Response(freqHz)
	}
	return h
}

// MagnitudeDB returns the cascade magnitude response in dB.
func (b *Bank) MagnitudeDB(freqHz float64) float64 {
	return core.LinearToDB(cmplx.Abs(b.Response(freqHz)))
}

// Phase returns the cascade phase response in radians, in [-pi, pi].
func (b *Bank) Phase(freqHz float64) float64 {
	return cmplx.Phase(b.Response(freqHz))
}

// ImpulseResponse computes n samples of the cascade impulse response. The
// delay-line state is saved and restored, so the bank is left as it was.
func (b *Bank) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	saved := b.State()
	b.Reset()

	ir := make([]float64, n)
	ir[0] = b.ProcessSample(1)
	for i := 1; i < n; i++ {
		ir[i] = b.ProcessSample(0)
	}

	_ = b.SetState(saved)
	return ir
}
