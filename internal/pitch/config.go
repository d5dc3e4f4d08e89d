package pitch

import (
	"errors"
	"fmt"
)

// Config holds every tunable of the analysis pipeline.
type Config struct {
	LowCutoffHz  float64 // Passband lower edge (Hz)
	HighCutoffHz float64 // Passband upper edge (Hz)

	MinFrequency float64 // Lowest detectable fundamental (Hz)
	MaxFrequency float64 // Highest detectable fundamental (Hz)

	ThresholdRatio    float64 // Minimum peak height as fraction of the highest bin
	MaxPeaks          int     // Upper bound on accepted peaks
	MinPeakDistanceHz float64 // Peaks closer than this are merged into the larger one
	MinPeakRatio      float64 // accepted/candidate ratio below which the input is rejected; 0 disables

	MaxHarmonic        int     // Largest divisor tried when clustering
	ClusterThresholdHz float64 // Width of a harmonic cluster (Hz)
}

// DefaultConfig returns the canonical, tested parameter set.
func DefaultConfig() Config {
	return Config{
		LowCutoffHz:        70.0,
		HighCutoffHz:       2000.0,
		MinFrequency:       70.0,   // just under D2 (73.42 Hz)
		MaxFrequency:       1000.0, // just above B5 (987.77 Hz)
		ThresholdRatio:     0.1,
		MaxPeaks:           5,
		MinPeakDistanceHz:  70.0,
		MinPeakRatio:       0.5,
		MaxHarmonic:        5,
		ClusterThresholdHz: 2.5,
	}
}

// Validate reports every parameter that is out of range.
func (c Config) Validate() error {
	var errs []error

	if c.LowCutoffHz < 0 || c.HighCutoffHz <= c.LowCutoffHz {
		errs = append(errs, fmt.Errorf("passband [%g, %g] Hz is empty", c.LowCutoffHz, c.HighCutoffHz))
	}
	if c.MinFrequency <= 0 || c.MaxFrequency <= c.MinFrequency {
		errs = append(errs, fmt.Errorf("detectable window [%g, %g] Hz is empty", c.MinFrequency, c.MaxFrequency))
	}
	if !(c.ThresholdRatio > 0 && c.ThresholdRatio <= 1) {
		errs = append(errs, fmt.Errorf("threshold ratio %g outside (0, 1]", c.ThresholdRatio))
	}
	if c.MaxPeaks < 1 {
		errs = append(errs, fmt.Errorf("max peaks %d must be at least 1", c.MaxPeaks))
	}
	if !(c.MinPeakDistanceHz > 0) {
		errs = append(errs, fmt.Errorf("min peak distance %g Hz must be positive", c.MinPeakDistanceHz))
	}
	if c.MinPeakRatio < 0 || c.MinPeakRatio > 1 {
		errs = append(errs, fmt.Errorf("min peak ratio %g outside [0, 1]", c.MinPeakRatio))
	}
	if c.MaxHarmonic < 1 {
		errs = append(errs, fmt.Errorf("max harmonic %d must be at least 1", c.MaxHarmonic))
	}
	if !(c.ClusterThresholdHz > 0) {
		errs = append(errs, fmt.Errorf("cluster threshold %g Hz must be positive", c.ClusterThresholdHz))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// PeakConfig extracts the peak detector parameters.
func (c Config) PeakConfig() PeakConfig {
	return PeakConfig{
		ThresholdRatio:    c.ThresholdRatio,
		MaxPeaks:          c.MaxPeaks,
		MinPeakDistanceHz: c.MinPeakDistanceHz,
		MinPeakRatio:      c.MinPeakRatio,
		MinFrequency:      c.MinFrequency,
		MaxFrequency:      c.MaxFrequency,
	}
}

// EstimatorConfig extracts the fundamental estimator parameters.
func (c Config) EstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		MaxHarmonic:        c.MaxHarmonic,
		ClusterThresholdHz: c.ClusterThresholdHz,
		MinFrequency:       c.MinFrequency,
		MaxFrequency:       c.MaxFrequency,
	}
}

// FundamentalFrequency runs the full pipeline with this configuration.
// samples must be non-empty and sampleRate positive.
func (c Config) FundamentalFrequency(samples []float32, sampleRate int) (float64, bool) {
	return c.fundamental(samples, sampleRate, nil)
}

func (c Config) fundamental(samples []float32, sampleRate int, fft FFTFunc) (float64, bool) {
	_, freq, ok := c.analyze(samples, sampleRate, fft)
	return freq, ok
}

func (c Config) analyze(samples []float32, sampleRate int, fft FFTFunc) ([]Peak, float64, bool) {
	power := PowerSpectrum(samples, sampleRate, c.LowCutoffHz, c.HighCutoffHz, fft)
	peaks := FindPeaks(power, sampleRate, c.PeakConfig())
	freq, ok := EstimateFundamental(peaks, c.EstimatorConfig())
	return peaks, freq, ok
}

// FundamentalFrequency estimates the fundamental of samples using DefaultConfig.
// samples must be non-empty and sampleRate positive.
func FundamentalFrequency(samples []float32, sampleRate int) (float64, bool) {
	return DefaultConfig().FundamentalFrequency(samples, sampleRate)
}
