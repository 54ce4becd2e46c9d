package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-tilt/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d nyquist=%.0f\n", cfg.SampleRate, cfg.BlockSize, cfg.Nyquist())

	// Output:
	// sampleRate=48000 blockSize=256 nyquist=24000
}

func ExampleLinearToDB() {
	fmt.Printf("%.2f dB\n", core.LinearToDB(0.5))

	// Output:
	// -6.02 dB
}
