package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydroview/internal/models"
)

func valueSeries(values ...float64) []models.Measurement {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Measurement, len(values))
	for i, v := range values {
		out[i] = models.Measurement{
			Timestamp:    start.Add(time.Duration(i) * time.Hour),
			SensorID:     "s",
			VariableType: "t",
			Value:        v,
		}
	}
	return out
}

func values(series []models.Measurement) []float64 {
	out := make([]float64, len(series))
	for i, m := range series {
		out[i] = m.Value
	}
	return out
}

func TestSmoothWindowOneIsIdentity(t *testing.T) {
	series := valueSeries(1, 5, 2, 8)
	got := Smooth(series, 1)
	assert.Equal(t, series, got)
}

func TestSmoothWindowThree(t *testing.T) {
	series := valueSeries(1, 2, 3, 4, 5)
	got := Smooth(series, 3)

	require.Len(t, got, len(series))
	// Boundary points average over the partial window, not get dropped.
	assert.InDelta(t, 1.5, got[0].Value, 1e-9)
	assert.InDelta(t, 2.0, got[1].Value, 1e-9)
	assert.InDelta(t, 3.0, got[2].Value, 1e-9)
	assert.InDelta(t, 4.0, got[3].Value, 1e-9)
	assert.InDelta(t, 4.5, got[4].Value, 1e-9)

	// Timestamps are untouched.
	for i := range got {
		assert.Equal(t, series[i].Timestamp, got[i].Timestamp)
	}
}

func TestSmoothDoesNotMutateInput(t *testing.T) {
	series := valueSeries(1, 2, 3)
	_ = Smooth(series, 3)
	assert.Equal(t, []float64{1, 2, 3}, values(series))
}

func TestSuppressSpikesDisabledAtZero(t *testing.T) {
	series := valueSeries(1, 100, 1)
	got := SuppressSpikes(series, 0)
	assert.Equal(t, series, got)
}

func TestSuppressSpikesRemovesIsolatedSpike(t *testing.T) {
	series := valueSeries(1, 1, 50, 1, 1)
	got := SuppressSpikes(series, 10)
	assert.Equal(t, []float64{1, 1, 1, 1}, values(got))
}

func TestSuppressSpikesKeepsLevelShift(t *testing.T) {
	// A step change is not a spike: after the step every point sits
	// near its neighbours.
	series := valueSeries(1, 1, 1, 20, 20, 20)
	got := SuppressSpikes(series, 15)
	assert.Len(t, got, len(series))
}

func TestDenoiseOrderSuppressThenSmooth(t *testing.T) {
	series := valueSeries(1, 1, 100, 1, 1)
	got := Denoise(series, 3, 10)

	// The spike is gone before the average runs, so no smoothed value
	// carries a trace of it.
	for _, m := range got {
		assert.LessOrEqual(t, m.Value, 1.0)
	}
}
