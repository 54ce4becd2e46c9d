// Package slope measures the magnitude response of a per-sample processor
// and fits a straight line to it on a log-frequency axis.
//
// [Analyze] drives the processor with a unit impulse, transforms the
// captured impulse response with an FFT and returns the magnitude in dB per
// bin. [Response.Fit] (or [FitSlope] for arbitrary curves) samples the
// response at log-spaced frequencies and performs a least-squares fit of dB
// against octaves, reporting the slope in dB/octave, the goodness of fit and
// the worst deviation from the fitted line (ripple).
//
// # Usage
//
//	bank, _ := tilt.New(tilt.WithSampleRate(44100), tilt.WithStages(12),
//	    tilt.WithBand(100, 9900, -0.5))
//	resp, _ := slope.Analyze(bank, 44100, 16384)
//	fit, _ := resp.Fit(200, 5000, 64)
//	// fit.DBPerOctave ≈ -3.0
package slope
