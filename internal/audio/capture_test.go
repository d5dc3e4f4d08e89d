package audio

import (
	"errors"
	"math"
	"testing"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name    string
		buf     *AudioBuffer
		wantRMS float64
		wantDB  float64
	}{
		{"nil", nil, 0, -100},
		{"empty", &AudioBuffer{}, 0, -100},
		{"silence", &AudioBuffer{Samples: make([]float32, 64)}, 0, -100},
		{"full scale square", &AudioBuffer{Samples: []float32{1, -1, 1, -1}}, 1, 0},
		{"sine", Sine(441, 44100, 44100), math.Sqrt2 / 2, -3.0103},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rms, db := Level(tc.buf)
			if math.Abs(rms-tc.wantRMS) > 1e-4 || math.Abs(db-tc.wantDB) > 1e-3 {
				t.Fatalf("Level() = %g, %g; want %g, %g", rms, db, tc.wantRMS, tc.wantDB)
			}
		})
	}
}

func TestHarmonics(t *testing.T) {
	tones := Harmonics(110, 3)
	want := []Tone{{110, 1}, {220, 0.5}, {330, 1.0 / 3}}
	if len(tones) != len(want) {
		t.Fatalf("got %d tones, want %d", len(tones), len(want))
	}
	for i := range want {
		if tones[i] != want[i] {
			t.Errorf("tone %d = %+v, want %+v", i, tones[i], want[i])
		}
	}
}

func TestSine(t *testing.T) {
	buf := Sine(1000, 8000, 8)
	if buf.SampleRate != 8000 || len(buf.Samples) != 8 {
		t.Fatalf("got rate %d, %d samples", buf.SampleRate, len(buf.Samples))
	}
	// 1 kHz at 8 kHz: one cycle every 8 samples.
	want := []float64{0, math.Sqrt2 / 2, 1, math.Sqrt2 / 2, 0, -math.Sqrt2 / 2, -1, -math.Sqrt2 / 2}
	for i, w := range want {
		if math.Abs(float64(buf.Samples[i])-w) > 1e-6 {
			t.Errorf("sample %d = %g, want %g", i, buf.Samples[i], w)
		}
	}
}

func TestToneCapturer(t *testing.T) {
	tones := Harmonics(220, 2)
	c := NewToneCapturer(tones, 256, 8000)

	if _, err := c.GetBuffer(); !errors.Is(err, ErrNotCapturing) {
		t.Fatalf("GetBuffer before Start: %v, want ErrNotCapturing", err)
	}
	if err := c.Stop(); !errors.Is(err, ErrNotCapturing) {
		t.Fatalf("Stop before Start: %v, want ErrNotCapturing", err)
	}

	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(); !errors.Is(err, ErrAlreadyCapturing) {
		t.Fatalf("second Start: %v, want ErrAlreadyCapturing", err)
	}
	if !c.IsCapturing() {
		t.Fatal("IsCapturing() = false after Start")
	}

	first, err := c.GetBuffer()
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.GetBuffer()
	if err != nil {
		t.Fatal(err)
	}

	// Consecutive buffers continue one waveform.
	whole := Synthesize(tones, 8000, 512, 0)
	got := append(append([]float32{}, first.Samples...), second.Samples...)
	for i := range whole.Samples {
		if got[i] != whole.Samples[i] {
			t.Fatalf("sample %d = %g, want %g", i, got[i], whole.Samples[i])
		}
	}

	if err := c.Stop(); err != nil {
		t.Fatal(err)
	}
	if c.IsCapturing() {
		t.Fatal("IsCapturing() = true after Stop")
	}
}

func TestDownmix(t *testing.T) {
	in := []float32{1, 0, 0.5, 0.5, -1, 1}
	got := downmix(nil, in, 2, 2)
	want := []float32{1, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	mono := downmix(make([]float32, 0, 3), []float32{0.1, 0.2, 0.3}, 1, 1)
	if len(mono) != 3 || mono[2] != 0.3 {
		t.Fatalf("mono downmix = %v", mono)
	}
}

var _ Capturer = (*ToneCapturer)(nil)
var _ Capturer = (*PortAudioCapturer)(nil)
