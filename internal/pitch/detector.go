package pitch

import (
	"errors"

	"go.uber.org/zap"

	"github.com/hentity/fretty/internal/audio"
)

// Errors
var (
	ErrEmptyBuffer       = errors.New("empty audio buffer")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrNoPitch           = errors.New("no fundamental frequency found")
	ErrNoNote            = errors.New("frequency outside note range")
	ErrInvalidConfig     = errors.New("invalid pitch configuration")
)

// Note represents a musical note
type Note struct {
	Name      string  // e.g., "A", "A#", "B"
	Frequency float64 // Detected frequency in Hz
	Cents     float64 // Deviation from the matched note in cents
}

// Detector analyzes audio buffers and names the detected note.
// It holds no per-call state and is safe for concurrent use.
type Detector struct {
	cfg    Config
	fft    FFTFunc
	logger *zap.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger used for per-buffer debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithFFT selects the FFT backend.
func WithFFT(fft FFTFunc) Option {
	return func(d *Detector) {
		if fft != nil {
			d.fft = fft
		}
	}
}

// NewDetector creates a pitch detector after validating cfg.
func NewDetector(cfg Config, opts ...Option) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Detector{
		cfg:    cfg,
		fft:    GoDSPFFT,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// Fundamental returns the fundamental frequency of buffer, if any.
func (d *Detector) Fundamental(buffer *audio.AudioBuffer) (float64, error) {
	if buffer == nil || len(buffer.Samples) == 0 {
		return 0, ErrEmptyBuffer
	}
	if buffer.SampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	peaks, freq, ok := d.cfg.analyze(buffer.Samples, buffer.SampleRate, d.fft)
	d.logger.Debug("peaks found", zap.Int("count", len(peaks)))
	for i, p := range peaks {
		d.logger.Debug("peak",
			zap.Int("index", i+1),
			zap.Float64("frequency_hz", p.Frequency),
			zap.Float64("magnitude", p.Magnitude))
	}
	if !ok {
		return 0, ErrNoPitch
	}
	d.logger.Debug("fundamental estimated", zap.Float64("frequency_hz", freq))
	return freq, nil
}

// DetectPitch analyzes an audio buffer and returns the detected note
func (d *Detector) DetectPitch(buffer *audio.AudioBuffer) (*Note, error) {
	freq, err := d.Fundamental(buffer)
	if err != nil {
		return nil, err
	}

	name, ref, ok := NearestNote(freq)
	if !ok {
		return nil, ErrNoNote
	}

	return &Note{
		Name:      name,
		Frequency: freq,
		Cents:     Cents(freq, ref),
	}, nil
}
