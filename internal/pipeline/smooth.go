package pipeline

import (
	"math"
	"sort"

	"hydroview/internal/models"
)

// Smooth applies a centered moving average of the given window to one
// series. Window 1 (or smaller) is a strict no-op and returns the input
// slice untouched. For window N the output has the same length as the
// input; points near the boundaries are averaged over the samples that
// exist there rather than dropped.
func Smooth(series []models.Measurement, window int) []models.Measurement {
	if window <= 1 || len(series) == 0 {
		return series
	}
	n := len(series)
	before := (window - 1) / 2
	after := window / 2

	out := make([]models.Measurement, n)
	for i := range series {
		lo := i - before
		if lo < 0 {
			lo = 0
		}
		hi := i + after
		if hi > n-1 {
			hi = n - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += series[j].Value
		}
		out[i] = series[i]
		out[i].Value = sum / float64(hi-lo+1)
	}
	return out
}

// SuppressSpikes removes points whose deviation from a local baseline
// exceeds the threshold. The baseline is the median of the three-point
// neighbourhood around each point, so an isolated spike stands out
// while both its neighbours and a genuine level shift survive. A
// threshold of zero disables suppression and returns the input
// untouched.
func SuppressSpikes(series []models.Measurement, threshold float64) []models.Measurement {
	if threshold <= 0 || len(series) < 3 {
		return series
	}
	out := make([]models.Measurement, 0, len(series))
	for i, r := range series {
		if math.Abs(r.Value-medianBaseline(series, i)) > threshold {
			continue
		}
		out = append(out, r)
	}
	return out
}

func medianBaseline(series []models.Measurement, i int) float64 {
	lo, hi := i-1, i+1
	if lo < 0 {
		lo = 0
	}
	if hi > len(series)-1 {
		hi = len(series) - 1
	}
	window := make([]float64, 0, 3)
	for j := lo; j <= hi; j++ {
		window = append(window, series[j].Value)
	}
	sort.Float64s(window)
	return window[len(window)/2]
}

// Denoise runs spike suppression then smoothing, in that order, per
// series. It runs strictly after downsampling; smoothing raw
// high-frequency noise before bucket averaging would suppress the
// signal twice.
func Denoise(series []models.Measurement, window int, spikeThreshold float64) []models.Measurement {
	return Smooth(SuppressSpikes(series, spikeThreshold), window)
}
