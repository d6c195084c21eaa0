package repository

import (
	"context"
	"time"

	"hydroview/internal/models"
)

// MaxRowsPerFeed is the hard backpressure valve: a query never pulls
// more rows than this per feed. Queries over the cap get a truncated
// result, not an error.
const MaxRowsPerFeed = 200000

// SeriesStore is the read contract against the external time-series
// store: range filtering on time, equality filtering on identity,
// ascending order, capped row count. Rows come back as flat field
// mappings; typing them is the normalizer's job.
type SeriesStore interface {
	QueryMeasurements(ctx context.Context, start, end time.Time, sensorIDs []string) ([]map[string]any, error)
	QueryRainfall(ctx context.Context, start, end time.Time) ([]map[string]any, error)
	LatestRows(ctx context.Context, feed models.FeedKind, n int) ([]map[string]any, error)
}

// SeriesWriter is the collector's write path. The query pipeline never
// writes.
type SeriesWriter interface {
	WriteMeasurement(ctx context.Context, m models.Measurement) error
	WriteRainfall(ctx context.Context, station string, s models.RainfallSample) error
}

// StationStore manages the monitored-site registry.
type StationStore interface {
	List(ctx context.Context) ([]models.Station, error)
	Add(ctx context.Context, station models.Station) (models.Station, error)
	Delete(ctx context.Context, id int64) error
}
