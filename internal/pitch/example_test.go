package pitch_test

import (
	"fmt"

	"github.com/hentity/fretty/internal/audio"
	"github.com/hentity/fretty/internal/pitch"
)

func ExampleFundamentalFrequency() {
	tone := audio.Sine(440, 44100, 44100)
	if f, ok := pitch.FundamentalFrequency(tone.Samples, tone.SampleRate); ok {
		fmt.Printf("%.2f Hz\n", f)
	}

	// Output:
	// 440.00 Hz
}

func ExampleEstimateFundamental() {
	peaks := []pitch.Peak{{Frequency: 440}, {Frequency: 880}}
	f, ok := pitch.EstimateFundamental(peaks, pitch.DefaultConfig().EstimatorConfig())
	fmt.Println(f, ok)

	// Output:
	// 440 true
}

func ExampleFrequencyToNote() {
	for _, f := range []float64{440, 441.5, 10} {
		name, ok := pitch.FrequencyToNote(f)
		fmt.Printf("%.1f Hz: %q %v\n", f, name, ok)
	}

	// Output:
	// 440.0 Hz: "A" true
	// 441.5 Hz: "A" true
	// 10.0 Hz: "" false
}

func ExampleNoteToFrequency() {
	f, ok := pitch.NoteToFrequency("A4")
	fmt.Println(f, ok)

	// Output:
	// 440 true
}
