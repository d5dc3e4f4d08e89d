package audio

import (
	"errors"
	"math"
	"sync"
)

var (
	ErrAlreadyCapturing = errors.New("audio capture already started")
	ErrNotCapturing     = errors.New("audio capture not started")
)

// AudioBuffer represents a buffer of audio samples
type AudioBuffer struct {
	Samples    []float32
	SampleRate int
}

// Capturer defines the interface for audio capture
type Capturer interface {
	// Start begins audio capture
	Start() error

	// Stop ends audio capture
	Stop() error

	// GetBuffer returns the current audio buffer
	GetBuffer() (*AudioBuffer, error)

	// IsCapturing returns true if currently capturing audio
	IsCapturing() bool
}

// Level calculates the RMS and dB level of a buffer. Silence reports -100 dB.
func Level(buffer *AudioBuffer) (rms, db float64) {
	if buffer == nil || len(buffer.Samples) == 0 {
		return 0, -100
	}

	sumSquares := 0.0
	for _, sample := range buffer.Samples {
		sumSquares += float64(sample) * float64(sample)
	}
	rms = math.Sqrt(sumSquares / float64(len(buffer.Samples)))

	if rms <= 0.0000001 { // Avoid log(0)
		return rms, -100
	}
	return rms, 20 * math.Log10(rms)
}

// Tone describes one sinusoidal partial.
type Tone struct {
	Frequency float64 // Hz
	Amplitude float64
}

// Harmonics returns a tone at fundamental plus count-1 overtones whose
// amplitude falls off as 1/k.
func Harmonics(fundamental float64, count int) []Tone {
	tones := make([]Tone, 0, count)
	for k := 1; k <= count; k++ {
		tones = append(tones, Tone{Frequency: fundamental * float64(k), Amplitude: 1 / float64(k)})
	}
	return tones
}

// Synthesize renders the sum of tones into a buffer of n samples starting at
// sample offset start.
func Synthesize(tones []Tone, sampleRate, n, start int) *AudioBuffer {
	samples := make([]float32, n)
	for i := range samples {
		t := float64(start+i) / float64(sampleRate)
		var v float64
		for _, tone := range tones {
			v += tone.Amplitude * math.Sin(2*math.Pi*tone.Frequency*t)
		}
		samples[i] = float32(v)
	}
	return &AudioBuffer{Samples: samples, SampleRate: sampleRate}
}

// Sine renders a unit-amplitude sine wave.
func Sine(frequency float64, sampleRate, n int) *AudioBuffer {
	return Synthesize([]Tone{{Frequency: frequency, Amplitude: 1}}, sampleRate, n, 0)
}

// ToneCapturer is a Capturer that produces a synthetic signal instead of
// reading a device. Successive buffers continue the waveform.
type ToneCapturer struct {
	tones       []Tone
	bufferSize  int
	sampleRate  int
	mu          sync.Mutex
	isCapturing bool
	position    int
}

// NewToneCapturer creates a capturer producing bufferSize samples per call.
func NewToneCapturer(tones []Tone, bufferSize, sampleRate int) *ToneCapturer {
	return &ToneCapturer{
		tones:      tones,
		bufferSize: bufferSize,
		sampleRate: sampleRate,
	}
}

// Start begins audio capture
func (c *ToneCapturer) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isCapturing {
		return ErrAlreadyCapturing
	}
	c.isCapturing = true
	return nil
}

// Stop ends audio capture
func (c *ToneCapturer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCapturing {
		return ErrNotCapturing
	}
	c.isCapturing = false
	return nil
}

// GetBuffer returns the next block of the synthetic signal
func (c *ToneCapturer) GetBuffer() (*AudioBuffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCapturing {
		return nil, ErrNotCapturing
	}
	buf := Synthesize(c.tones, c.sampleRate, c.bufferSize, c.position)
	c.position += c.bufferSize
	return buf, nil
}

// IsCapturing returns true if currently capturing audio
func (c *ToneCapturer) IsCapturing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isCapturing
}
