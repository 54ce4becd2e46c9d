package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// maxValue returns the largest positive integer sample for bitDepth.
func maxValue(bitDepth int) float64 {
	return float64(int64(1)<<(bitDepth-1) - 1)
}

// quantize converts samples in [-1, 1] to integer PCM, clipping anything
// outside that range.
func quantize(samples []float64, bitDepth int) []int {
	scale := maxValue(bitDepth)
	data := make([]int, len(samples))
	for i, v := range samples {
		v = math.Max(-1, math.Min(1, v))
		data[i] = int(math.Round(v * scale))
	}
	return data
}

// writeWAV writes mono samples as integer PCM.
func writeWAV(path string, samples []float64, sampleRate, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           quantize(samples, bitDepth),
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write samples: %w", err)
	}

	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}

	return f.Close()
}
