// Package tilt provides a spectral tilt filter: a cascade of first-order
// shelving sections that approximates a constant dB-per-octave slope over a
// bounded band.
//
// A [Bank] spreads N real zero/pole pairs geometrically across
// [f0, f0+bandwidth]. Each pair is offset by alpha stage spacings, so every
// section contributes a small local slope and the cascade follows
//
//	|H(f)| ≈ (f/f0)^alpha,  f0 <= f <= f1
//
// alpha = 0 is flat, alpha = -0.5 is pink-noise tilt (≈ -3 dB/octave) and
// alpha = -1 matches a single real pole (≈ -6 dB/octave) spread smoothly over
// the band. The DC gain is always unity.
//
// Each [Stage] derives its coefficients from an analog first-order prototype
// with a prewarped bilinear transform, so the digital zeros and poles land
// exactly on their analog frequencies.
//
// Typical use:
//
//	b, err := tilt.New(tilt.WithSampleRate(48000), tilt.WithStages(12))
//	...
//	err = b.ConfigureBand(100, 9900, -0.5)
//	...
//	y := b.ProcessSample(x)
//
// A Bank is single-goroutine. [Processor] wraps it for hosts that reconfigure
// from a control goroutine while an audio goroutine processes.
package tilt
