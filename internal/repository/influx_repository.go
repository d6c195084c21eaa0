package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"hydroview/internal/models"
)

const (
	sensorMeasurement   = "sensor_data"
	rainfallMeasurement = "rainfall"
	rainfallField       = "intensity"
)

// InfluxRepository adapts the two logical feeds to InfluxDB. The client
// is constructed once by the composition root and injected; the
// repository never mutates it.
type InfluxRepository struct {
	client         influxdb2.Client
	org            string
	sensorBucket   string
	rainfallBucket string
	queryTimeout   time.Duration
}

// NewInfluxRepository wraps an already-constructed InfluxDB client.
func NewInfluxRepository(client influxdb2.Client, org, sensorBucket, rainfallBucket string, queryTimeout time.Duration) *InfluxRepository {
	if queryTimeout <= 0 {
		queryTimeout = 30 * time.Second
	}
	return &InfluxRepository{
		client:         client,
		org:            org,
		sensorBucket:   sensorBucket,
		rainfallBucket: rainfallBucket,
		queryTimeout:   queryTimeout,
	}
}

// buildMeasurementFlux renders the Flux query for the sensor feed:
// time-range filter, optional identity equality filter, ascending time
// order, hard row cap.
func buildMeasurementFlux(bucket string, start, end time.Time, sensorIDs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `from(bucket: "%s")`+"\n", bucket)
	fmt.Fprintf(&b, `  |> range(start: %s, stop: %s)`+"\n", start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, `  |> filter(fn: (r) => r["_measurement"] == "%s")`+"\n", sensorMeasurement)
	if len(sensorIDs) > 0 {
		filters := make([]string, len(sensorIDs))
		for i, id := range sensorIDs {
			filters[i] = fmt.Sprintf(`r["device_id"] == "%s"`, id)
		}
		fmt.Fprintf(&b, `  |> filter(fn: (r) => %s)`+"\n", strings.Join(filters, " or "))
	}
	b.WriteString("  |> sort(columns: [\"_time\"])\n")
	fmt.Fprintf(&b, `  |> limit(n: %d)`, MaxRowsPerFeed)
	return b.String()
}

// buildRainfallFlux renders the Flux query for the rainfall feed.
func buildRainfallFlux(bucket string, start, end time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, `from(bucket: "%s")`+"\n", bucket)
	fmt.Fprintf(&b, `  |> range(start: %s, stop: %s)`+"\n", start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, `  |> filter(fn: (r) => r["_measurement"] == "%s")`+"\n", rainfallMeasurement)
	fmt.Fprintf(&b, `  |> filter(fn: (r) => r["_field"] == "%s")`+"\n", rainfallField)
	b.WriteString("  |> sort(columns: [\"_time\"])\n")
	fmt.Fprintf(&b, `  |> limit(n: %d)`, MaxRowsPerFeed)
	return b.String()
}

// QueryMeasurements fetches raw sensor rows for a time range. A query
// failure is a connectivity failure for the feed; defects inside
// individual rows are left for the normalizer to drop.
func (r *InfluxRepository) QueryMeasurements(ctx context.Context, start, end time.Time, sensorIDs []string) ([]map[string]any, error) {
	flux := buildMeasurementFlux(r.sensorBucket, start, end, sensorIDs)
	rows, kind, err := r.queryRows(ctx, flux, func(values map[string]any, t time.Time, value any) map[string]any {
		row := map[string]any{
			"time":  t,
			"value": value,
		}
		if id, ok := values["device_id"].(string); ok {
			row["sensor_id"] = id
		}
		if field, ok := values["_field"].(string); ok {
			row["variable_type"] = field
		}
		if unit, ok := values["unit"].(string); ok {
			row["unit"] = unit
		}
		return row
	})
	if err != nil {
		return nil, models.NewFeedError(models.FeedSensor, kind, err)
	}
	return rows, nil
}

// QueryRainfall fetches raw rainfall rows for a time range.
func (r *InfluxRepository) QueryRainfall(ctx context.Context, start, end time.Time) ([]map[string]any, error) {
	flux := buildRainfallFlux(r.rainfallBucket, start, end)
	rows, kind, err := r.queryRows(ctx, flux, func(values map[string]any, t time.Time, value any) map[string]any {
		return map[string]any{
			"time":  t,
			"value": value,
		}
	})
	if err != nil {
		return nil, models.NewFeedError(models.FeedRainfall, kind, err)
	}
	return rows, nil
}

// LatestRows fetches the newest n raw rows of a feed without filtering,
// for the diagnostics surface.
func (r *InfluxRepository) LatestRows(ctx context.Context, feed models.FeedKind, n int) ([]map[string]any, error) {
	bucket, measurement := r.sensorBucket, sensorMeasurement
	if feed == models.FeedRainfall {
		bucket, measurement = r.rainfallBucket, rainfallMeasurement
	}
	flux := fmt.Sprintf(`from(bucket: "%s")
  |> range(start: -30d)
  |> filter(fn: (r) => r["_measurement"] == "%s")
  |> sort(columns: ["_time"], desc: true)
  |> limit(n: %d)`, bucket, measurement, n)

	rows, kind, err := r.queryRows(ctx, flux, func(values map[string]any, t time.Time, value any) map[string]any {
		row := make(map[string]any, len(values)+2)
		for k, v := range values {
			row[k] = v
		}
		row["time"] = t
		row["value"] = value
		return row
	})
	if err != nil {
		return nil, models.NewFeedError(feed, kind, err)
	}
	return rows, nil
}

type rowMapper func(values map[string]any, t time.Time, value any) map[string]any

func (r *InfluxRepository) queryRows(ctx context.Context, flux string, mapRow rowMapper) ([]map[string]any, models.FeedErrorKind, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	queryAPI := r.client.QueryAPI(r.org)
	result, err := queryAPI.Query(ctx, flux)
	if err != nil {
		return nil, models.FeedErrorConnectivity, fmt.Errorf("querying store: %w", err)
	}

	rows := make([]map[string]any, 0)
	for result.Next() {
		record := result.Record()
		rows = append(rows, mapRow(record.Values(), record.Time().UTC(), record.Value()))
		if len(rows) >= MaxRowsPerFeed {
			break
		}
	}
	if result.Err() != nil {
		return nil, models.FeedErrorMalformed, fmt.Errorf("reading query result: %w", result.Err())
	}
	return rows, "", nil
}

// WriteMeasurement writes one sensor reading; collector use only.
func (r *InfluxRepository) WriteMeasurement(ctx context.Context, m models.Measurement) error {
	writeAPI := r.client.WriteAPIBlocking(r.org, r.sensorBucket)
	tags := map[string]string{"device_id": m.SensorID}
	if m.Unit != "" {
		tags["unit"] = m.Unit
	}
	p := influxdb2.NewPoint(
		sensorMeasurement,
		tags,
		map[string]interface{}{m.VariableType: m.Value},
		m.Timestamp.UTC(),
	)
	if err := writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("writing measurement: %w", err)
	}
	return nil
}

// WriteRainfall writes one rainfall intensity sample; collector use only.
func (r *InfluxRepository) WriteRainfall(ctx context.Context, station string, s models.RainfallSample) error {
	writeAPI := r.client.WriteAPIBlocking(r.org, r.rainfallBucket)
	p := influxdb2.NewPoint(
		rainfallMeasurement,
		map[string]string{"station": station},
		map[string]interface{}{rainfallField: s.Value},
		s.Timestamp.UTC(),
	)
	if err := writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("writing rainfall sample: %w", err)
	}
	return nil
}

// Health checks connectivity to the store. The server probes this once
// at startup and refuses to start without a reachable store.
func (r *InfluxRepository) Health(ctx context.Context) error {
	health, err := r.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("influxdb health check: %w", err)
	}
	if health.Status != "pass" {
		msg := ""
		if health.Message != nil {
			msg = *health.Message
		}
		return fmt.Errorf("influxdb health check failed: %s", msg)
	}
	return nil
}

var _ SeriesStore = (*InfluxRepository)(nil)
var _ SeriesWriter = (*InfluxRepository)(nil)
