package pitch

import (
	"math"
	"sort"
)

// Peak represents a peak in the power spectrum
type Peak struct {
	Bin       int
	Frequency float64
	Magnitude float64
}

// PeakConfig parameterizes FindPeaks.
type PeakConfig struct {
	ThresholdRatio    float64 // Minimum peak height as fraction of the highest bin
	MaxPeaks          int
	MinPeakDistanceHz float64
	MinPeakRatio      float64 // 0 disables the quality gate
	MinFrequency      float64 // Detectable window, inclusive
	MaxFrequency      float64
}

// FindPeaks picks at most cfg.MaxPeaks well separated local maxima from a
// power spectrum and returns them in ascending frequency order.
//
// Candidates are strict local maxima above cfg.ThresholdRatio times the
// global maximum. They are accepted largest first, skipping any within
// cfg.MinPeakDistanceHz of an accepted peak. When too few candidates
// survive (see MinPeakRatio) the spectrum is considered ambiguous and no
// peaks are returned. Peaks outside the detectable window are dropped last.
// A non-positive MaxPeaks accepts nothing.
func FindPeaks(power []float64, sampleRate int, cfg PeakConfig) []Peak {
	n := len(power)
	if n < 3 {
		return nil
	}

	maxMagnitude, ok := maxFloat(power)
	if !ok {
		return nil
	}
	threshold := cfg.ThresholdRatio * maxMagnitude
	binSizeHz := float64(sampleRate) / float64(n)

	var candidates []Peak
	for i := 1; i < n-1; i++ {
		magnitude := power[i]
		if magnitude > power[i-1] && magnitude > power[i+1] && magnitude > threshold {
			candidates = append(candidates, Peak{
				Bin:       i,
				Frequency: float64(i) * binSizeHz,
				Magnitude: magnitude,
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Sort peaks by magnitude (descending)
	sort.SliceStable(candidates, func(i, j int) bool {
		return greater(candidates[i].Magnitude, candidates[j].Magnitude)
	})

	minDistanceBins := cfg.MinPeakDistanceHz * float64(n) / float64(sampleRate)

	accepted := make([]Peak, 0, max(cfg.MaxPeaks, 0))
	for _, c := range candidates {
		if len(accepted) >= cfg.MaxPeaks {
			break
		}
		tooClose := false
		for _, a := range accepted {
			if math.Abs(float64(c.Bin-a.Bin)) < minDistanceBins {
				tooClose = true
				break
			}
		}
		if !tooClose {
			accepted = append(accepted, c)
		}
	}

	if cfg.MinPeakRatio > 0 && float64(len(accepted))/float64(len(candidates)) < cfg.MinPeakRatio {
		return nil
	}

	peaks := accepted[:0]
	for _, p := range accepted {
		if p.Frequency >= cfg.MinFrequency && p.Frequency <= cfg.MaxFrequency {
			peaks = append(peaks, p)
		}
	}
	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].Bin < peaks[j].Bin
	})
	return peaks
}

// maxFloat returns the largest non-NaN value of xs, or false when there is none.
func maxFloat(xs []float64) (float64, bool) {
	best, found := 0.0, false
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if !found || x > best {
			best, found = x, true
		}
	}
	return best, found
}

// greater orders a before b in a descending sort. NaN sorts last.
func greater(a, b float64) bool {
	switch {
	case math.IsNaN(a):
		return false
	case math.IsNaN(b):
		return true
	default:
		return a > b
	}
}
