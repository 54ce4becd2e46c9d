package tilt

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tilt/dsp/core"
)

const (
	defaultSampleRate = 44100.0
	defaultStages     = 2

	// zeroLimit is the fraction of Nyquist a zero is clamped to.
	zeroLimit = 1 - 1e-6

	// MinStages is the smallest cascade that can span a band: the ratio
	// between neighbouring stages is (f1/f0)^(1/(N-1)).
	MinStages = 2
)

// Band describes the frequency range and slope a [Bank] approximates.
type Band struct {
	CornerHz    float64 // f0, lower edge of the tilt
	BandwidthHz float64 // f1 - f0
	Alpha       float64 // slope exponent; 0 flat, -0.5 ≈ -3 dB/oct, -1 ≈ -6 dB/oct
}

// UpperHz returns f1 = f0 + bandwidth.
func (b Band) UpperHz() float64 { return b.CornerHz + b.BandwidthHz }

// SlopeDBPerOctave returns the nominal slope 20*log10(2)*alpha.
func (b Band) SlopeDBPerOctave() float64 {
	return 20 * math.Log10(2) * b.Alpha
}

// Validate checks the band parameters on their own, without regard to a
// sample rate.
func (b Band) Validate() error {
	if b.CornerHz <= 0 || !core.IsFinite(b.CornerHz) {
		return fmt.Errorf("%w: %v", ErrCornerFrequency, b.CornerHz)
	}

	if b.BandwidthHz < 0 || !core.IsFinite(b.BandwidthHz) {
		return fmt.Errorf("%w: %v", ErrBandwidth, b.BandwidthHz)
	}

	if !core.IsFinite(b.Alpha) {
		return fmt.Errorf("%w: %v", ErrSlope, b.Alpha)
	}

	return nil
}

// Section reports where one stage's zero and pole sit, in Hz.
type Section struct {
	ZeroHz float64
	PoleHz float64
}

// Bank is a cascade of first-order shelving stages whose zeros and poles are
// spread geometrically across a band so that the combined magnitude response
// has a constant dB-per-octave slope.
//
// A Bank is not safe for concurrent use. Configuration calls must not overlap
// with processing; see [Processor] for a wrapper that hands new banks to the
// audio goroutine.
type Bank struct {
	sampleRate float64
	period     float64
	stages     []Stage
	scratch    []Coefficients

	band       Band
	configured bool
	ratio      float64
	w0         float64
}

// New builds a Bank. Without options it runs at 44.1 kHz with two identity
// stages; use [WithBand] or [Bank.ConfigureBand] to shape it.
func New(opts ...Option) (*Bank, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return cfg.build()
}

// SampleRate returns the sample rate in Hz.
func (b *Bank) SampleRate() float64 { return b.sampleRate }

// StageCount returns the number of stages in the cascade.
func (b *Bank) StageCount() int { return len(b.stages) }

// Band returns the last configured band and whether the current coefficients
// were derived from it.
func (b *Bank) Band() (Band, bool) { return b.band, b.configured }

// Ratio returns the geometric spacing r between neighbouring stages, or 0
// before a band is configured.
func (b *Bank) Ratio() float64 { return b.ratio }

// Stage returns the i-th stage for inspection. It panics if i is out of range.
func (b *Bank) Stage(i int) *Stage { return &b.stages[i] }

// SetSampleRate stores the sample rate and propagates it to every stage.
// Coefficients are not recomputed: call [Bank.ConfigureBand] again to place
// the band correctly at the new rate.
func (b *Bank) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	b.sampleRate = sampleRate
	b.period = 1 / sampleRate

	for i := range b.stages {
		b.stages[i].sampleRate = sampleRate
	}

	return nil
}

// SetStageCount rebuilds the cascade with n identity stages. All previous
// coefficients and delay-line state are discarded. n below [MinStages] is
// rejected, never clamped.
func (b *Bank) SetStageCount(n int) error {
	if n < MinStages {
		return fmt.Errorf("%w: %d", ErrStageCount, n)
	}

	b.stages = make([]Stage, n)
	for i := range b.stages {
		b.stages[i] = Stage{Coefficients: identity, sampleRate: b.sampleRate}
	}

	b.scratch = make([]Coefficients, n)
	b.band = Band{}
	b.configured = false
	b.ratio = 0
	b.w0 = 0

	return nil
}

// ConfigureBand places the stages across [f0, f0+bandwidth] with slope alpha.
//
// With w0 = 2π·f0 and r = (f1/f0)^(1/(N-1)), stage i gets
//
//	zero  mz(i) = w0 · r^(i-alpha)
//	pole  mp(i) = w0 · r^i
//
// both prewarped against w0 and handed to the bilinear transform in units of
// w0, so every digital zero and pole lands exactly on its analog frequency.
//
// Poles must stay below Nyquist. A zero at or above Nyquist, as the top
// stages of a full-band negative slope produce, is pulled to just below it,
// which places its digital zero next to z = -1.
//
// Delay-line state is kept, so the update is click-prone but continuous.
// Every stage is computed before any is changed: on error the bank is
// untouched.
func (b *Bank) ConfigureBand(cornerHz, bandwidthHz, alpha float64) error {
	band := Band{CornerHz: cornerHz, BandwidthHz: bandwidthHz, Alpha: alpha}
	if err := band.Validate(); err != nil {
		return err
	}

	n := len(b.stages)
	if n < MinStages {
		return fmt.Errorf("%w: %d", ErrStageCount, n)
	}

	if b.sampleRate <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, b.sampleRate)
	}

	f1 := band.UpperHz()
	w0 := 2 * math.Pi * cornerHz
	r := math.Pow(f1/cornerHz, 1/float64(n-1))
	wmax := math.Pi * b.sampleRate

	if w0 >= wmax {
		return fmt.Errorf("%w: corner %v Hz at %v Hz", ErrAboveNyquist, cornerHz, b.sampleRate)
	}

	for i := range b.stages {
		mz := min(w0*math.Pow(r, float64(i)-alpha), zeroLimit*wmax)
		mp := w0 * math.Pow(r, float64(i))

		if mp >= wmax {
			return fmt.Errorf("%w: stage %d pole %.1f Hz at %v Hz",
				ErrAboveNyquist, i, mp/(2*math.Pi), b.sampleRate)
		}

		mzh := Prewarp(mz, b.period, w0)
		mph := Prewarp(mp, b.period, w0)

		c, err := b.stages[i].computeCoefficients(1, mzh/w0, mph/w0, w0)
		if err != nil {
			return fmt.Errorf("tilt: stage %d: %w", i, err)
		}

		b.scratch[i] = c
	}

	for i := range b.stages {
		b.stages[i].Coefficients = b.scratch[i]
	}

	b.band = band
	b.configured = true
	b.ratio = r
	b.w0 = w0

	return nil
}

// Prewarp maps the analog frequency w so that, after a bilinear transform
// referenced to wp with sampling period T, it lands where w would on the
// digital frequency axis:
//
//	wp * tan(w*T/2) / tan(wp*T/2)
func Prewarp(w, T, wp float64) float64 {
	return wp * math.Tan(w*T/2) / math.Tan(wp*T/2)
}

// Sections returns the intended zero and pole frequency of every stage, or
// nil before a band is configured.
func (b *Bank) Sections() []Section {
	if !b.configured {
		return nil
	}

	out := make([]Section, len(b.stages))
	f0 := b.band.CornerHz
	for i := range out {
		out[i] = Section{
			ZeroHz: f0 * math.Pow(b.ratio, float64(i)-b.band.Alpha),
			PoleHz: f0 * math.Pow(b.ratio, float64(i)),
		}
	}

	return out
}

// ProcessSample feeds x through stage 0, its output through stage 1, and so
// on, returning the last stage's output.
func (b *Bank) ProcessSample(x float64) float64 {
	for i := range b.stages {
		x = b.stages[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters buf in place. Zero-alloc.
func (b *Bank) ProcessBlock(buf []float64) {
	for i := range b.stages {
		s := &b.stages[i]
		b0, b1, a1, g := s.B0, s.B1, s.A1, s.Gain
		x1, y1 := s.x1, s.y1

		for j, x := range buf {
			y := b0*x + b1*x1 - a1*y1
			x1 = x
			y1 = y
			buf[j] = g * y
		}

		s.x1, s.y1 = x1, y1
	}
}

// ProcessBlockTo filters src into dst. Both slices must have the same length.
// Zero-alloc.
func (b *Bank) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	_ = dst[len(src)-1] // bounds check hint
	copy(dst, src)
	b.ProcessBlock(dst[:len(src)])
}

// Reset clears all stage delay lines.
func (b *Bank) Reset() {
	for i := range b.stages {
		b.stages[i].Reset()
	}
}

// State returns a snapshot of every stage's delay line.
func (b *Bank) State() [][2]float64 {
	states := make([][2]float64, len(b.stages))
	for i := range b.stages {
		states[i] = b.stages[i].State()
	}

	return states
}

// SetState restores a snapshot taken with [Bank.State]. The snapshot must
// have one entry per stage.
func (b *Bank) SetState(states [][2]float64) error {
	if len(states) != len(b.stages) {
		return fmt.Errorf("tilt: state has %d stages, bank has %d", len(states), len(b.stages))
	}

	for i := range b.stages {
		b.stages[i].SetState(states[i])
	}

	return nil
}

// Clone returns an independent copy of the bank, including delay-line state.
func (b *Bank) Clone() *Bank {
	c := *b
	c.stages = append([]Stage(nil), b.stages...)
	c.scratch = make([]Coefficients, len(b.stages))

	return &c
}

// copyStateFrom takes over other's delay lines when the stage counts match.
func (b *Bank) copyStateFrom(other *Bank) bool {
	if len(other.stages) != len(b.stages) {
		return false
	}

	for i := range b.stages {
		b.stages[i].x1 = other.stages[i].x1
		b.stages[i].y1 = other.stages[i].y1
	}

	return true
}
