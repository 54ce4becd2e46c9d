package slope

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-tilt/dsp/core"
)

// Errors returned by slope functions.
var (
	ErrInvalidSampleRate = errors.New("slope: sample rate must be positive")
	ErrInvalidSize       = errors.New("slope: FFT size must be a power of two >= 16")
	ErrInvalidRange      = errors.New("slope: frequency range must satisfy 0 < low < high")
	ErrTooFewPoints      = errors.New("slope: fewer than two usable points in range")
	ErrLengthMismatch    = errors.New("slope: frequency and magnitude slices differ in length")
)

const (
	minFFTSize     = 16
	rangeTolerance = 1e-12
)

// SampleProcessor is anything that filters one sample at a time, such as a
// tilt.Bank or tilt.Processor.
type SampleProcessor interface {
	ProcessSample(x float64) float64
}

// Response is a sampled magnitude response on the FFT bin grid.
type Response struct {
	SampleRate  float64
	Freqs       []float64 // bin frequencies in Hz, 0 .. Nyquist
	MagnitudeDB []float64 // magnitude per bin in dB
}

// Fit is a least-squares line through a magnitude response in
// dB-versus-octaves.
type Fit struct {
	DBPerOctave    float64 // fitted slope
	InterceptDB    float64 // fitted level at LowHz
	RSquared       float64 // coefficient of determination
	MaxDeviationDB float64 // largest |measured - fitted|
	LowHz, HighHz  float64
	Points         int
}

// Analyze feeds a unit impulse followed by fftSize-1 zeros through p and
// returns the magnitude response of the captured impulse response for bins
// 0..fftSize/2. The processor's state is consumed; pass a freshly reset or
// cloned processor.
//
// The impulse response is truncated to fftSize samples, so fftSize should
// cover the processor's decay time.
func Analyze(p SampleProcessor, sampleRate float64, fftSize int) (*Response, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, ErrInvalidSampleRate
	}

	if fftSize < minFFTSize || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, fftSize)
	}

	in := make([]complex128, fftSize)
	in[0] = complex(p.ProcessSample(1), 0)
	for i := 1; i < fftSize; i++ {
		in[i] = complex(p.ProcessSample(0), 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("slope: failed to create FFT plan: %w", err)
	}

	spec := make([]complex128, fftSize)
	if err := plan.Forward(spec, in); err != nil {
		return nil, fmt.Errorf("slope: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(spec[k])
		im[k] = imag(spec[k])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	resp := &Response{
		SampleRate:  sampleRate,
		Freqs:       make([]float64, bins),
		MagnitudeDB: make([]float64, bins),
	}

	binHz := sampleRate / float64(fftSize)
	for k := range bins {
		resp.Freqs[k] = float64(k) * binHz
		resp.MagnitudeDB[k] = core.LinearToDB(mag[k])
	}

	return resp, nil
}

// At returns the magnitude in dB at freqHz, interpolated linearly between
// the neighbouring bins. Frequencies outside the grid are clamped to the
// first or last bin.
func (r *Response) At(freqHz float64) float64 {
	n := len(r.Freqs)
	if n == 0 {
		return math.NaN()
	}

	if freqHz <= r.Freqs[0] {
		return r.MagnitudeDB[0]
	}

	if freqHz >= r.Freqs[n-1] {
		return r.MagnitudeDB[n-1]
	}

	binHz := r.Freqs[1] - r.Freqs[0]
	pos := freqHz / binHz
	k := int(pos)
	frac := pos - float64(k)

	return r.MagnitudeDB[k] + frac*(r.MagnitudeDB[k+1]-r.MagnitudeDB[k])
}

// Fit samples the response at points log-spaced frequencies between lowHz
// and highHz and fits a line in dB-versus-octaves.
func (r *Response) Fit(lowHz, highHz float64, points int) (Fit, error) {
	if lowHz <= 0 || highHz <= lowHz || !core.AllFinite(lowHz, highHz) {
		return Fit{}, fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, lowHz, highHz)
	}

	if points < 2 {
		return Fit{}, fmt.Errorf("%w: %d", ErrTooFewPoints, points)
	}

	freqs := LogSpace(lowHz, highHz, points)
	mags := make([]float64, points)
	for i, f := range freqs {
		mags[i] = r.At(f)
	}

	return FitSlope(freqs, mags, lowHz, highHz)
}

// LogSpace returns n frequencies spaced evenly in log scale from lowHz to
// highHz inclusive. The endpoints are exactly lowHz and highHz.
func LogSpace(lowHz, highHz float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	if n == 1 {
		return []float64{lowHz}
	}

	freqs := floats.LogSpan(make([]float64, n), lowHz, highHz)
	freqs[0], freqs[n-1] = lowHz, highHz

	return freqs
}

// FitSlope fits magsDB against log2(freq/lowHz) over the points whose
// frequency lies in [lowHz, highHz], give or take a relative 1e-12 so that
// rounded grid endpoints stay in. Non-finite magnitudes are skipped.
func FitSlope(freqs, magsDB []float64, lowHz, highHz float64) (Fit, error) {
	if len(freqs) != len(magsDB) {
		return Fit{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(freqs), len(magsDB))
	}

	if lowHz <= 0 || highHz <= lowHz || !core.AllFinite(lowHz, highHz) {
		return Fit{}, fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, lowHz, highHz)
	}

	lo := lowHz * (1 - rangeTolerance)
	hi := highHz * (1 + rangeTolerance)

	xs := make([]float64, 0, len(freqs))
	ys := make([]float64, 0, len(freqs))
	for i, f := range freqs {
		if f < lo || f > hi || !core.IsFinite(magsDB[i]) {
			continue
		}

		xs = append(xs, core.Octaves(lowHz, f))
		ys = append(ys, magsDB[i])
	}

	if len(xs) < 2 {
		return Fit{}, fmt.Errorf("%w: %d", ErrTooFewPoints, len(xs))
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	fit := Fit{
		DBPerOctave: slope,
		InterceptDB: intercept,
		RSquared:    stat.RSquared(xs, ys, nil, intercept, slope),
		LowHz:       lowHz,
		HighHz:      highHz,
		Points:      len(xs),
	}

	for i, x := range xs {
		if d := math.Abs(ys[i] - (intercept + slope*x)); d > fit.MaxDeviationDB {
			fit.MaxDeviationDB = d
		}
	}

	return fit, nil
}
