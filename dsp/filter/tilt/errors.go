package tilt

import "errors"

// Configuration errors. All are returned before any filter state is touched,
// wrapped with the offending value; test with errors.Is.
var (
	ErrInvalidSampleRate = errors.New("tilt: sample rate must be > 0 and finite")
	ErrStageCount        = errors.New("tilt: stage count must be >= 2")
	ErrCornerFrequency   = errors.New("tilt: corner frequency must be > 0 and finite")
	ErrBandwidth         = errors.New("tilt: bandwidth must be >= 0 and finite")
	ErrSlope             = errors.New("tilt: slope must be finite")
	ErrAboveNyquist      = errors.New("tilt: pole frequency at or above Nyquist")
	ErrInvalidReference  = errors.New("tilt: reference frequency must be in (0, Nyquist)")
	ErrZeroGain          = errors.New("tilt: prototype zero coefficient must be non-zero")
	ErrNonFinite         = errors.New("tilt: coefficients are not finite")
)
