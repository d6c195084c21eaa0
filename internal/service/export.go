package service

import (
	"context"
	"time"

	"hydroview/internal/models"
	"hydroview/internal/pipeline"
)

// ExportRow is one line of the tabular download: the normalized,
// pre-aggregation record keyed per the query's grouping mode.
type ExportRow struct {
	Timestamp time.Time
	Key       string
	Value     float64
	Unit      string
}

// ExportRecords returns the normalized sensor records for download,
// before any downsampling or smoothing. Zero matching rows is the
// explicit no-data outcome.
func (s *ChartService) ExportRecords(ctx context.Context, q models.ChartQuery) ([]ExportRow, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	rows, err := s.store.QueryMeasurements(ctx, q.Start, q.End, nil)
	if err != nil {
		return nil, err
	}

	measurements, dropped := pipeline.NormalizeMeasurements(rows)
	s.metrics.AddDropped(string(models.FeedSensor), dropped)
	pipeline.SortMeasurements(measurements)

	out := make([]ExportRow, 0, len(measurements))
	for _, m := range measurements {
		if !exportSelected(m, q) {
			continue
		}
		out = append(out, ExportRow{
			Timestamp: m.Timestamp,
			Key:       exportKey(m, q.Mode),
			Value:     m.Value,
			Unit:      m.Unit,
		})
	}
	if len(out) == 0 {
		return nil, models.ErrNoData
	}
	return out, nil
}

func exportSelected(m models.Measurement, q models.ChartQuery) bool {
	if len(q.VariableTypes) > 0 && !containsString(q.VariableTypes, m.VariableType) {
		return false
	}
	if len(q.SensorIDs) == 0 {
		return true
	}
	if label, ok := pipeline.ParseDeviceLabel(m.SensorID); ok {
		return containsString(q.SensorIDs, label.ID)
	}
	return containsString(q.SensorIDs, m.SensorID)
}

// exportKey picks the identity or quantity key column to match the
// grouping the caller asked for.
func exportKey(m models.Measurement, mode models.GroupMode) string {
	if mode == models.GroupByQuantity {
		return m.VariableType
	}
	if label, ok := pipeline.ParseDeviceLabel(m.SensorID); ok {
		return label.ID
	}
	return m.SensorID
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
