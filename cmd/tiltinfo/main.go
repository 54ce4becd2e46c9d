// Command tiltinfo prints the layout and response of a spectral tilt filter.
//
// Usage:
//
//	tiltinfo [flags]
//
// It lists the zero and pole frequency of every first-order stage, the
// discrete coefficients, a log-spaced magnitude table and the slope fitted
// to that table.
//
// Examples:
//
//	tiltinfo
//	tiltinfo -stages 12 -alpha -1
//	tiltinfo -rate 48000 -corner 50 -bandwidth 15000 -points 24
//	tiltinfo -fft 16384
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-tilt/dsp/core"
	"github.com/cwbudde/algo-tilt/dsp/filter/tilt"
	"github.com/cwbudde/algo-tilt/measure/slope"
)

const fitPoints = 64

type options struct {
	rate      float64
	stages    int
	corner    float64
	bandwidth float64
	alpha     float64
	points    int
	fftSize   int
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tiltinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.Float64Var(&o.rate, "rate", core.DefaultProcessorConfig().SampleRate, "sample rate in Hz")
	fs.IntVar(&o.stages, "stages", 8, "number of first-order stages (>= 2)")
	fs.Float64Var(&o.corner, "corner", 100, "lower band edge in Hz")
	fs.Float64Var(&o.bandwidth, "bandwidth", 9900, "band width in Hz above the corner")
	fs.Float64Var(&o.alpha, "alpha", -0.5, "slope exponent; magnitude follows f^alpha")
	fs.IntVar(&o.points, "points", 16, "rows in the response table")
	fs.IntVar(&o.fftSize, "fft", 0, "also measure the response with an FFT of this size (power of two, 0 = off)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tiltinfo [flags]\n\n")
		fmt.Fprintf(stderr, "Prints stage layout, coefficients and response of a spectral tilt filter.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  tiltinfo -stages 12 -alpha -1\n")
		fmt.Fprintf(stderr, "  tiltinfo -rate 48000 -corner 50 -bandwidth 15000\n")
		fmt.Fprintf(stderr, "  tiltinfo -fft 16384\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if o.points < 2 {
		return fmt.Errorf("points must be >= 2: %d", o.points)
	}

	cfg := core.ApplyProcessorOptions(core.WithSampleRate(o.rate))
	if err := cfg.Validate(); err != nil {
		return err
	}

	bank, err := tilt.New(
		tilt.WithSampleRate(o.rate),
		tilt.WithStages(o.stages),
		tilt.WithBand(o.corner, o.bandwidth, o.alpha),
	)
	if err != nil {
		return err
	}

	var measured *slope.Response
	if o.fftSize > 0 {
		measured, err = slope.Analyze(bank.Clone(), cfg.SampleRate, o.fftSize)
		if err != nil {
			return err
		}
	}

	band, _ := bank.Band()
	fmt.Fprintf(stdout, "Sample rate %.0f Hz, %d stages, band %.1f-%.1f Hz, alpha %.3f (target %.2f dB/oct)\n\n",
		cfg.SampleRate, bank.StageCount(), band.CornerHz, band.UpperHz(), band.Alpha, band.SlopeDBPerOctave())

	if err := printStages(stdout, bank); err != nil {
		return err
	}

	fmt.Fprintln(stdout)

	if err := printResponse(stdout, bank, measured, o.points); err != nil {
		return err
	}

	return nil
}

func printStages(w io.Writer, bank *tilt.Bank) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Stage\tZero [Hz]\tPole [Hz]\tB0\tB1\tA1\tGain\n")
	fmt.Fprintf(tw, "-----\t---------\t---------\t--\t--\t--\t----\n")

	for i, sec := range bank.Sections() {
		c := bank.Stage(i).Coefficients
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.9f\t%.9f\t%.9f\t%.9f\n",
			i, sec.ZeroHz, sec.PoleHz, c.B0, c.B1, c.A1, c.Gain)
	}

	return tw.Flush()
}

// tableRange spans one octave either side of the band, capped below Nyquist.
func tableRange(band tilt.Band, sampleRate float64) (low, high float64) {
	low = band.CornerHz / 2
	high = min(2*band.UpperHz(), 0.45*sampleRate)
	if high <= low {
		high = band.UpperHz()
	}
	return low, high
}

func printResponse(w io.Writer, bank *tilt.Bank, measured *slope.Response, points int) error {
	band, _ := bank.Band()
	low, high := tableRange(band, bank.SampleRate())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if measured != nil {
		fmt.Fprintf(tw, "Freq [Hz]\tMagnitude [dB]\tPhase [rad]\tMeasured [dB]\n")
		fmt.Fprintf(tw, "---------\t--------------\t-----------\t-------------\n")
	} else {
		fmt.Fprintf(tw, "Freq [Hz]\tMagnitude [dB]\tPhase [rad]\n")
		fmt.Fprintf(tw, "---------\t--------------\t-----------\n")
	}

	for _, f := range slope.LogSpace(low, high, points) {
		if measured != nil {
			fmt.Fprintf(tw, "%.1f\t%.3f\t%.4f\t%.3f\n", f, bank.MagnitudeDB(f), bank.Phase(f), measured.At(f))
			continue
		}
		fmt.Fprintf(tw, "%.1f\t%.3f\t%.4f\n", f, bank.MagnitudeDB(f), bank.Phase(f))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if band.BandwidthHz == 0 {
		return nil
	}

	freqs := slope.LogSpace(band.CornerHz, band.UpperHz(), fitPoints)
	mags := make([]float64, len(freqs))
	for i, f := range freqs {
		mags[i] = bank.MagnitudeDB(f)
	}

	fit, err := slope.FitSlope(freqs, mags, band.CornerHz, band.UpperHz())
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\nFitted slope %.3f dB/oct over the band (R^2 %.5f, max deviation %.3f dB)\n",
		fit.DBPerOctave, fit.RSquared, fit.MaxDeviationDB)

	if measured != nil {
		mfit, err := measured.Fit(band.CornerHz, band.UpperHz(), fitPoints)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Measured slope %.3f dB/oct\n", mfit.DBPerOctave)
	}

	return nil
}
