package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

// PortAudioCapturer captures mono audio from the default input device
type PortAudioCapturer struct {
	isCapturing   bool
	stream        *portaudio.Stream
	latest        []float32
	bufferSize    int
	sampleRate    int
	channels      int
	bufferMutex   sync.Mutex
	amplification float32 // Audio signal amplification factor
	logger        *zap.Logger
}

// NewPortAudioCapturer initializes PortAudio and prepares a capturer that
// delivers bufferSize mono frames per buffer.
func NewPortAudioCapturer(bufferSize, sampleRate, channels int, logger *zap.Logger) (*PortAudioCapturer, error) {
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	return &PortAudioCapturer{
		latest:        make([]float32, 0, bufferSize),
		bufferSize:    bufferSize,
		sampleRate:    sampleRate,
		channels:      channels,
		amplification: 5.0,
		logger:        logger,
	}, nil
}

// Start opens the default input stream
func (c *PortAudioCapturer) Start() error {
	if c.IsCapturing() {
		return ErrAlreadyCapturing
	}

	stream, err := portaudio.OpenDefaultStream(
		c.channels, // input channels
		0,          // no output
		float64(c.sampleRate),
		c.bufferSize, // frames per buffer
		c.processAudio,
	)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("start input stream: %w", err)
	}

	c.bufferMutex.Lock()
	c.stream = stream
	c.isCapturing = true
	c.bufferMutex.Unlock()

	c.logger.Info("audio capture started",
		zap.Int("sample_rate", c.sampleRate),
		zap.Int("buffer_size", c.bufferSize),
		zap.Int("channels", c.channels))
	return nil
}

// Stop closes the stream and terminates PortAudio. bufferMutex is released
// before the stream stops because the callback takes it.
func (c *PortAudioCapturer) Stop() error {
	c.bufferMutex.Lock()
	if !c.isCapturing {
		c.bufferMutex.Unlock()
		return ErrNotCapturing
	}
	c.isCapturing = false
	stream := c.stream
	c.bufferMutex.Unlock()

	if err := stream.Stop(); err != nil {
		return fmt.Errorf("stop input stream: %w", err)
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("close input stream: %w", err)
	}
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("terminate portaudio: %w", err)
	}

	c.logger.Info("audio capture stopped")
	return nil
}

// processAudio runs on the PortAudio callback thread.
func (c *PortAudioCapturer) processAudio(in, _ []float32) {
	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	c.latest = downmix(c.latest[:0], in, c.channels, c.amplification)
}

// downmix averages interleaved channels into dst and applies gain.
func downmix(dst, in []float32, channels int, gain float32) []float32 {
	frames := len(in) / channels
	for i := 0; i < frames; i++ {
		sum := float32(0)
		for ch := 0; ch < channels; ch++ {
			sum += in[i*channels+ch]
		}
		dst = append(dst, sum/float32(channels)*gain)
	}
	return dst
}

// GetBuffer returns a copy of the most recent callback block
func (c *PortAudioCapturer) GetBuffer() (*AudioBuffer, error) {
	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	if !c.isCapturing {
		return nil, ErrNotCapturing
	}

	samples := make([]float32, len(c.latest))
	copy(samples, c.latest)
	return &AudioBuffer{Samples: samples, SampleRate: c.sampleRate}, nil
}

// IsCapturing returns true if currently capturing audio
func (c *PortAudioCapturer) IsCapturing() bool {
	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	return c.isCapturing
}

// SetAmplification sets the audio amplification factor
func (c *PortAudioCapturer) SetAmplification(factor float32) {
	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	// Ensure amplification is positive
	if factor < 0.1 {
		factor = 0.1
	}

	c.amplification = factor
}
