package service

import (
	"context"
	"fmt"
	"time"

	"hydroview/internal/metrics"
	"hydroview/internal/models"
	"hydroview/internal/pipeline"
	"hydroview/internal/repository"
)

// ChartService runs the batch query pipeline: fetch, normalize,
// downsample, group, denoise, compose. It holds no cross-request state;
// the store handle is injected once and treated as read-only.
type ChartService struct {
	store   repository.SeriesStore
	metrics *metrics.Metrics
}

// NewChartService creates a new ChartService. metrics may be nil.
func NewChartService(store repository.SeriesStore, m *metrics.Metrics) *ChartService {
	return &ChartService{store: store, metrics: m}
}

func validateQuery(q models.ChartQuery) error {
	if !q.End.After(q.Start) {
		return fmt.Errorf("%w: end must be after start", models.ErrInvalidQuery)
	}
	if !q.Mode.Valid() {
		return fmt.Errorf("%w: unknown grouping mode %q", models.ErrInvalidQuery, q.Mode)
	}
	if q.SmoothWindow < 1 {
		return fmt.Errorf("%w: smoothing window must be >= 1", models.ErrInvalidQuery)
	}
	if q.SpikeThreshold < 0 {
		return fmt.Errorf("%w: spike threshold must be >= 0", models.ErrInvalidQuery)
	}
	return nil
}

// BuildCharts turns one query into a list of renderable panels. The two
// feeds are fetched and fail independently: a terminal error on one
// feed is reported in the summary while the other still renders. Only
// when every requested feed fails is the query itself terminal.
func (s *ChartService) BuildCharts(ctx context.Context, q models.ChartQuery) (models.ChartPage, error) {
	if err := validateQuery(q); err != nil {
		return models.ChartPage{}, err
	}

	started := time.Now()
	defer func() {
		s.metrics.ObserveQuery(time.Since(started).Seconds())
	}()

	sensorRows, sensorErr := s.store.QueryMeasurements(ctx, q.Start, q.End, nil)

	var rainRows []map[string]any
	var rainErr error
	if q.RainfallOverlay {
		rainRows, rainErr = s.store.QueryRainfall(ctx, q.Start, q.End)
	}

	if sensorErr != nil && (!q.RainfallOverlay || rainErr != nil) {
		return models.ChartPage{}, sensorErr
	}

	measurements, droppedSensor := pipeline.NormalizeMeasurements(sensorRows)
	s.metrics.AddDropped(string(models.FeedSensor), droppedSensor)
	pipeline.SortMeasurements(measurements)
	measurements = pipeline.Downsample(measurements, q.Start, q.End)

	groups := pipeline.BuildGroups(measurements, q.Mode, q.SensorIDs, q.VariableTypes)
	for gi := range groups {
		for si := range groups[gi].Series {
			groups[gi].Series[si].Records = pipeline.Denoise(
				groups[gi].Series[si].Records, q.SmoothWindow, q.SpikeThreshold)
		}
	}

	rainfall, droppedRain := pipeline.NormalizeRainfall(rainRows)
	s.metrics.AddDropped(string(models.FeedRainfall), droppedRain)
	pipeline.SortRainfall(rainfall)
	rainfall = pipeline.DownsampleRainfall(rainfall, q.Start, q.End)

	page := pipeline.ComposePage(groups, rainfall, q.RainfallOverlay)
	page.Summary = models.QuerySummary{
		SensorRows:   len(measurements),
		RainfallRows: len(rainfall),
		DroppedRows:  droppedSensor + droppedRain,
		NoData:       len(measurements) == 0 && len(rainfall) == 0,
	}
	if max, ok := maxRainIntensity(rainfall); ok {
		page.Summary.MaxRainIntensity = &max
	}
	if sensorErr != nil {
		page.Summary.SensorFeedError = sensorErr.Error()
	}
	if rainErr != nil {
		page.Summary.RainfallFeedError = rainErr.Error()
	}
	return page, nil
}

func maxRainIntensity(rainfall []models.RainfallSample) (float64, bool) {
	if len(rainfall) == 0 {
		return 0, false
	}
	max := rainfall[0].Value
	for _, s := range rainfall[1:] {
		if s.Value > max {
			max = s.Value
		}
	}
	return max, true
}
