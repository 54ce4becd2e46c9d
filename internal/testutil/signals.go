package testutil

import (
	"math"
	"math/rand/v2"
)

// SampleProcessor is anything that filters one sample at a time.
type SampleProcessor interface {
	ProcessSample(x float64) float64
}

// Run feeds in through p sample by sample and returns the outputs.
func Run(p SampleProcessor, in []float64) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = p.ProcessSample(x)
	}
	return out
}

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise(seed uint64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// RMS returns the root mean square of data, or 0 for an empty slice.
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(data)))
}

// ToneGainDB drives p with a sine at freqHz, discards the first settle
// samples and returns the steady-state output/input RMS ratio in dB over
// the following n samples.
func ToneGainDB(p SampleProcessor, freqHz, sampleRate float64, settle, n int) float64 {
	in := DeterministicSine(freqHz, sampleRate, 1, settle+n)
	out := Run(p, in)
	return 20 * math.Log10(RMS(out[settle:])/RMS(in[settle:]))
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}
