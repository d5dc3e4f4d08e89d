// Command fretty estimates the pitch of audio and names the nearest note.
//
// Usage:
//
//	fretty detect --freq 440 --harmonics 3
//	fretty note A4
//	fretty freq 441.5
//	fretty sweep
//	fretty listen [--tone 196]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hentity/fretty/internal/pitch"
)

const (
	// Audio settings
	defaultSampleRate = 44100
	defaultBufferSize = 4096
)

// options carries flags shared by every subcommand.
type options struct {
	cfg     pitch.Config
	fftName string
	verbose bool
	logFile string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{cfg: pitch.DefaultConfig()}

	root := &cobra.Command{
		Use:           "fretty",
		Short:         "Estimate the fundamental pitch of audio and name the nearest note",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.Float64Var(&opts.cfg.LowCutoffHz, "low-cutoff", opts.cfg.LowCutoffHz, "passband lower edge (Hz)")
	flags.Float64Var(&opts.cfg.HighCutoffHz, "high-cutoff", opts.cfg.HighCutoffHz, "passband upper edge (Hz)")
	flags.Float64Var(&opts.cfg.MinFrequency, "min-freq", opts.cfg.MinFrequency, "lowest detectable fundamental (Hz)")
	flags.Float64Var(&opts.cfg.MaxFrequency, "max-freq", opts.cfg.MaxFrequency, "highest detectable fundamental (Hz)")
	flags.Float64Var(&opts.cfg.ThresholdRatio, "threshold", opts.cfg.ThresholdRatio, "peak threshold as a fraction of the strongest bin")
	flags.IntVar(&opts.cfg.MaxPeaks, "max-peaks", opts.cfg.MaxPeaks, "maximum number of spectral peaks")
	flags.Float64Var(&opts.cfg.MinPeakDistanceHz, "min-peak-distance", opts.cfg.MinPeakDistanceHz, "minimum spacing between peaks (Hz)")
	flags.Float64Var(&opts.cfg.MinPeakRatio, "min-peak-ratio", opts.cfg.MinPeakRatio, "reject input when fewer than this fraction of peak candidates survive (0 disables)")
	flags.IntVar(&opts.cfg.MaxHarmonic, "max-harmonic", opts.cfg.MaxHarmonic, "largest harmonic divisor considered")
	flags.Float64Var(&opts.cfg.ClusterThresholdHz, "cluster-threshold", opts.cfg.ClusterThresholdHz, "harmonic cluster width (Hz)")
	flags.StringVar(&opts.fftName, "fft", "go-dsp", "FFT backend: go-dsp or gonum")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newDetectCmd(opts),
		newNoteCmd(),
		newFreqCmd(),
		newSweepCmd(opts),
		newListenCmd(opts),
	)
	return root
}

// newLogger builds the process logger. Debug output is enabled with --verbose.
func (o *options) newLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if o.logFile != "" {
		config.OutputPaths = []string{o.logFile}
	}
	if o.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// checkBufferFlags rejects rates and sizes that cannot yield an analysis buffer.
func checkBufferFlags(rate, size int) error {
	if rate < 1 {
		return fmt.Errorf("rate %d: %w", rate, pitch.ErrInvalidSampleRate)
	}
	if size < 1 {
		return fmt.Errorf("buffer size %d: %w", size, pitch.ErrEmptyBuffer)
	}
	return nil
}

// newDetector validates the shared flags and builds a pitch detector.
func (o *options) newDetector(logger *zap.Logger) (*pitch.Detector, error) {
	fft, err := pitch.FFTByName(o.fftName)
	if err != nil {
		return nil, err
	}
	return pitch.NewDetector(o.cfg, pitch.WithFFT(fft), pitch.WithLogger(logger))
}
