package core

import "fmt"

// ProcessorConfig defines the streaming settings shared by the command-line
// tools: the rate the filters are designed for and the block size handed to
// the processing loop.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns CD-rate streaming defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 44100,
		BlockSize:  512,
	}
}

// WithSampleRate sets the processing sample rate. Non-positive or non-finite
// values are ignored.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && IsFinite(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Nyquist returns half the sample rate.
func (c ProcessorConfig) Nyquist() float64 {
	return c.SampleRate / 2
}

// Blocks returns how many blocks are needed to cover n samples.
func (c ProcessorConfig) Blocks(n int) int {
	if n <= 0 || c.BlockSize <= 0 {
		return 0
	}
	return (n + c.BlockSize - 1) / c.BlockSize
}

// Validate reports whether the configuration can drive a processing loop.
func (c ProcessorConfig) Validate() error {
	if c.SampleRate <= 0 || !IsFinite(c.SampleRate) {
		return fmt.Errorf("core: sample rate must be > 0 and finite: %v", c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("core: block size must be > 0: %d", c.BlockSize)
	}
	return nil
}
