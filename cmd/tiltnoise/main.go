// Command tiltnoise writes coloured noise to a WAV file: white noise shaped
// by a spectral tilt filter.
//
// Usage:
//
//	tiltnoise [options] output.wav
//
// The default settings produce pink noise (-3 dB/oct) between 20 Hz and
// 20 kHz. With -alpha-end the slope glides from -alpha to -alpha-end over
// the length of the file.
//
// Examples:
//
//	tiltnoise pink.wav
//	tiltnoise -alpha -1 brown.wav
//	tiltnoise -rate 48000 -seconds 10 -bits 24 -stages 16 noise.wav
//	tiltnoise -alpha 0 -alpha-end -1 -v sweep.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultRate      = 44100
	defaultSeconds   = 5.0
	defaultStages    = 12
	defaultCorner    = 20.0
	defaultBandwidth = 19980.0
	defaultAlpha     = -0.5
	defaultBits      = 16
	defaultBlock     = 512
	defaultPeakDB    = -1.0
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tiltnoise", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var s settings
	fs.IntVar(&s.rate, "rate", defaultRate, "sample rate in Hz")
	fs.Float64Var(&s.seconds, "seconds", defaultSeconds, "duration in seconds")
	fs.IntVar(&s.stages, "stages", defaultStages, "number of first-order stages (>= 2)")
	fs.Float64Var(&s.corner, "corner", defaultCorner, "lower band edge in Hz")
	fs.Float64Var(&s.bandwidth, "bandwidth", defaultBandwidth, "band width in Hz above the corner")
	fs.Float64Var(&s.alpha, "alpha", defaultAlpha, "slope exponent; -0.5 pink, -1 brown")
	fs.Float64Var(&s.alphaEnd, "alpha-end", math.NaN(), "glide the slope exponent to this value by the end of the file")
	fs.Uint64Var(&s.seed, "seed", 1, "noise generator seed")
	fs.IntVar(&s.bits, "bits", defaultBits, "output bit depth: 16, 24 or 32")
	fs.IntVar(&s.blockSize, "block", defaultBlock, "processing block size in samples")
	fs.Float64Var(&s.peakDB, "peak", defaultPeakDB, "normalise the peak to this level in dBFS")
	verbose := fs.Bool("v", false, "Verbose output")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tiltnoise [options] output.wav\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  tiltnoise pink.wav                       # -3 dB/oct, 20 Hz - 20 kHz\n")
		fmt.Fprintf(stderr, "  tiltnoise -alpha -1 brown.wav            # -6 dB/oct\n")
		fmt.Fprintf(stderr, "  tiltnoise -alpha 0 -alpha-end -1 out.wav # slope glide\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one output path")
	}

	outputPath := fs.Arg(0)

	if *verbose {
		log.Printf("Output: %s", outputPath)
		log.Printf("Rate: %d Hz, %d-bit, %.2fs", s.rate, s.bits, s.seconds)
		log.Printf("Band: %.1f-%.1f Hz, %d stages, alpha %.3f", s.corner, s.corner+s.bandwidth, s.stages, s.alpha)
		if !math.IsNaN(s.alphaEnd) {
			log.Printf("Glide: alpha %.3f -> %.3f", s.alpha, s.alphaEnd)
		}
	}

	start := time.Now()

	res, err := render(s, *verbose)
	if err != nil {
		return err
	}

	if err := writeWAV(outputPath, res.samples, s.rate, s.bits); err != nil {
		return err
	}

	elapsed := time.Since(start)

	fmt.Fprintf(stdout, "Wrote %s\n", filepath.Base(outputPath))
	fmt.Fprintf(stdout, "  %d samples at %d Hz, %d-bit mono\n", len(res.samples), s.rate, s.bits)
	fmt.Fprintf(stdout, "  peak %.2f dBFS (gain %.2f dB), %d reconfigurations\n", s.peakDB, res.gainDB, res.updates)
	if *verbose {
		log.Printf("Rendered in %.2fs", elapsed.Seconds())
	}

	return nil
}
