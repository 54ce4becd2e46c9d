package tilt

import (
	"fmt"

	"github.com/cwbudde/algo-tilt/dsp/core"
)

type config struct {
	sampleRate float64
	stages     int
	band       Band
	hasBand    bool
}

func defaultConfig() config {
	return config{
		sampleRate: defaultSampleRate,
		stages:     defaultStages,
	}
}

// Option configures a Bank built by [New] or [NewProcessor].
type Option func(*config) error

// WithSampleRate sets the sample rate in Hz. Must be finite and > 0.
// Defaults to 44100.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *config) error {
		if sampleRate <= 0 || !core.IsFinite(sampleRate) {
			return fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
		}

		cfg.sampleRate = sampleRate

		return nil
	}
}

// WithStages sets the number of first-order stages. Must be >= 2; defaults
// to 2.
func WithStages(n int) Option {
	return func(cfg *config) error {
		if n < MinStages {
			return fmt.Errorf("%w: %d", ErrStageCount, n)
		}

		cfg.stages = n

		return nil
	}
}

// WithBand configures the band right after the stages are built. Placement
// against Nyquist is checked when the bank is built.
func WithBand(cornerHz, bandwidthHz, alpha float64) Option {
	return func(cfg *config) error {
		band := Band{CornerHz: cornerHz, BandwidthHz: bandwidthHz, Alpha: alpha}
		if err := band.Validate(); err != nil {
			return err
		}

		cfg.band = band
		cfg.hasBand = true

		return nil
	}
}

func (cfg config) build() (*Bank, error) {
	b := &Bank{}
	if err := b.SetSampleRate(cfg.sampleRate); err != nil {
		return nil, err
	}

	if err := b.SetStageCount(cfg.stages); err != nil {
		return nil, err
	}

	if cfg.hasBand {
		band := cfg.band
		if err := b.ConfigureBand(band.CornerHz, band.BandwidthHz, band.Alpha); err != nil {
			return nil, err
		}
	}

	return b, nil
}
