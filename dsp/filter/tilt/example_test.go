package tilt_test

import (
	"fmt"

	"github.com/cwbudde/algo-tilt/dsp/filter/tilt"
)

func ExampleBank_ConfigureBand() {
	b, err := tilt.New(tilt.WithSampleRate(44100), tilt.WithStages(12))
	if err != nil {
		panic(err)
	}

	// -3 dB/octave from 100 Hz to 10 kHz.
	if err := b.ConfigureBand(100, 9900, -0.5); err != nil {
		panic(err)
	}

	for _, f := range []float64{100, 1000, 10000} {
		fmt.Printf("%.0f Hz: %+.2f dB\n", f, b.MagnitudeDB(f))
	}
	// Output:
	// 100 Hz: -1.73 dB
	// 1000 Hz: -10.47 dB
	// 10000 Hz: -20.67 dB
}

func ExampleBank_Sections() {
	b, err := tilt.New(
		tilt.WithSampleRate(48000),
		tilt.WithStages(4),
		tilt.WithBand(1000, 7000, -0.5),
	)
	if err != nil {
		panic(err)
	}

	for i, s := range b.Sections() {
		fmt.Printf("stage %d: pole %6.1f Hz, zero %7.1f Hz, |H(pole)| %.1f dB\n",
			i, s.PoleHz, s.ZeroHz, b.MagnitudeDB(s.PoleHz))
	}
	// Output:
	// stage 0: pole 1000.0 Hz, zero  1414.2 Hz, |H(pole)| -1.9 dB
	// stage 1: pole 2000.0 Hz, zero  2828.4 Hz, |H(pole)| -4.1 dB
	// stage 2: pole 4000.0 Hz, zero  5656.9 Hz, |H(pole)| -6.9 dB
	// stage 3: pole 8000.0 Hz, zero 11313.7 Hz, |H(pole)| -9.8 dB
}

func ExampleBank_ProcessSample() {
	b, err := tilt.New(tilt.WithSampleRate(44100), tilt.WithStages(2))
	if err != nil {
		panic(err)
	}

	// alpha = 0 with zero bandwidth: every stage is an all-pass identity.
	if err := b.ConfigureBand(1000, 0, 0); err != nil {
		panic(err)
	}

	for i := range 4 {
		var x float64
		if i == 0 {
			x = 1
		}
		fmt.Printf("y[%d] = %.3f\n", i, b.ProcessSample(x))
	}
	// Output:
	// y[0] = 1.000
	// y[1] = 0.000
	// y[2] = 0.000
	// y[3] = 0.000
}

func ExampleProcessor() {
	p, err := tilt.NewProcessor(
		tilt.WithSampleRate(48000),
		tilt.WithStages(8),
		tilt.WithBand(50, 15950, -0.5),
	)
	if err != nil {
		panic(err)
	}

	// Control side: publish a steeper slope.
	if err := p.ConfigureBand(50, 15950, -1); err != nil {
		panic(err)
	}

	// Audio side: the new bank takes over at the next block.
	block := make([]float64, 256)
	block[0] = 1
	p.ProcessBlock(block)

	s := p.Settings()
	fmt.Printf("%d stages, %.1f dB/oct\n", s.Stages, s.Band.SlopeDBPerOctave())
	// Output:
	// 8 stages, -6.0 dB/oct
}
