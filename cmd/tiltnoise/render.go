package main

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tilt/dsp/core"
	"github.com/cwbudde/algo-tilt/dsp/filter/tilt"
)

const progressInterval = 10 // percent

var errSilent = errors.New("filtered signal is silent")

// settings holds everything that shapes the rendered noise.
type settings struct {
	rate      int
	seconds   float64
	stages    int
	corner    float64
	bandwidth float64
	alpha     float64
	alphaEnd  float64 // NaN disables the glide
	seed      uint64
	bits      int
	blockSize int
	peakDB    float64
}

type rendered struct {
	samples []float64
	gainDB  float64
	updates int
}

func (s settings) validate() error {
	if s.seconds <= 0 || !core.IsFinite(s.seconds) {
		return fmt.Errorf("duration must be > 0: %v", s.seconds)
	}

	switch s.bits {
	case 16, 24, 32:
	default:
		return fmt.Errorf("unsupported bit depth: %d", s.bits)
	}

	if s.peakDB > 0 || !core.IsFinite(s.peakDB) {
		return fmt.Errorf("peak must be <= 0 dBFS: %v", s.peakDB)
	}

	if s.blockSize <= 0 {
		return fmt.Errorf("block size must be > 0: %d", s.blockSize)
	}

	return nil
}

// glide reports whether the slope changes over the file.
func (s settings) glide() bool {
	return !math.IsNaN(s.alphaEnd) && s.alphaEnd != s.alpha
}

// render filters uniform white noise through a tilt processor block by block
// and normalises the result to the requested peak.
func render(s settings, verbose bool) (rendered, error) {
	if err := s.validate(); err != nil {
		return rendered{}, err
	}

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(s.rate)),
		core.WithBlockSize(s.blockSize),
	)
	if err := cfg.Validate(); err != nil {
		return rendered{}, err
	}

	p, err := tilt.NewProcessor(
		tilt.WithSampleRate(cfg.SampleRate),
		tilt.WithStages(s.stages),
		tilt.WithBand(s.corner, s.bandwidth, s.alpha),
	)
	if err != nil {
		return rendered{}, err
	}

	if s.glide() {
		// Reject an end slope the band cannot carry before rendering.
		if _, err := tilt.New(
			tilt.WithSampleRate(cfg.SampleRate),
			tilt.WithStages(s.stages),
			tilt.WithBand(s.corner, s.bandwidth, s.alphaEnd),
		); err != nil {
			return rendered{}, fmt.Errorf("alpha-end: %w", err)
		}
	}

	n := int(math.Round(s.seconds * cfg.SampleRate))
	out := make([]float64, n)

	rng := rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	for i := range out {
		out[i] = 2*rng.Float64() - 1
	}

	blocks := cfg.Blocks(n)
	lastProgress := 0
	updates := 0

	for blk := range blocks {
		lo := blk * cfg.BlockSize
		hi := min(lo+cfg.BlockSize, n)

		if s.glide() && blk > 0 {
			t := float64(lo) / float64(n)
			alpha := s.alpha + t*(s.alphaEnd-s.alpha)
			if err := p.ConfigureBand(s.corner, s.bandwidth, alpha); err != nil {
				return rendered{}, err
			}
			updates++
		}

		p.ProcessBlock(out[lo:hi])

		if verbose {
			progress := (blk + 1) * 100 / blocks
			if progress >= lastProgress+progressInterval {
				log.Printf("Progress: %d%%", progress)
				lastProgress = progress
			}
		}
	}

	gain, err := normalize(out, core.DBToLinear(s.peakDB))
	if err != nil {
		return rendered{}, err
	}

	return rendered{samples: out, gainDB: core.LinearToDB(gain), updates: updates}, nil
}

// normalize scales buf in place so that its largest magnitude equals peak
// and returns the applied gain.
func normalize(buf []float64, peak float64) (float64, error) {
	var maxAbs float64
	for _, v := range buf {
		if !core.IsFinite(v) {
			return 0, fmt.Errorf("non-finite sample %v", v)
		}
		maxAbs = max(maxAbs, math.Abs(v))
	}

	if maxAbs == 0 {
		return 0, errSilent
	}

	gain := peak / maxAbs
	vecmath.ScaleBlock(buf, buf, gain)

	return gain, nil
}
