package pitch

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// EstimatorConfig parameterizes EstimateFundamental.
type EstimatorConfig struct {
	MaxHarmonic        int
	ClusterThresholdHz float64
	MinFrequency       float64
	MaxFrequency       float64
}

// EstimateFundamental returns the frequency whose integer multiples best
// explain peaks.
//
// Every peak frequency is divided by 1..MaxHarmonic and the quotients that
// land inside the detectable window form a candidate pool. The largest group
// of pool values within ClusterThresholdHz of one another wins, and its mean
// is the estimate. The estimate is rejected unless the group has at least as
// many members as there are peaks. A single peak is returned unchanged.
// With a non-positive MaxHarmonic no estimate is possible for several peaks.
func EstimateFundamental(peaks []Peak, cfg EstimatorConfig) (float64, bool) {
	switch len(peaks) {
	case 0:
		return 0, false
	case 1:
		return peaks[0].Frequency, true
	}

	pool := make([]float64, 0, len(peaks)*max(cfg.MaxHarmonic, 0))
	for _, p := range peaks {
		for d := 1; d <= cfg.MaxHarmonic; d++ {
			f := p.Frequency / float64(d)
			if f >= cfg.MinFrequency && f <= cfg.MaxFrequency {
				pool = append(pool, f)
			}
		}
	}

	var best []float64
	for _, center := range pool {
		var group []float64
		for _, f := range pool {
			if math.Abs(f-center) <= cfg.ClusterThresholdHz {
				group = append(group, f)
			}
		}
		if len(group) > len(best) {
			best = group
		}
	}

	if len(best) == 0 || len(best) < len(peaks) {
		return 0, false
	}
	return stat.Mean(best, nil), true
}
