package pipeline

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"hydroview/internal/models"
)

// Raw row field names as produced by the store adapter.
const (
	fieldTime     = "time"
	fieldSensorID = "sensor_id"
	fieldVariable = "variable_type"
	fieldValue    = "value"
	fieldUnit     = "unit"
)

// Timestamp layouts accepted from the store, tried in order. Layouts
// without a zone parse as UTC, which is the pipeline's reference frame.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp coerces a raw timestamp field into the UTC reference
// frame. Zoned inputs are converted, not compared as-is.
func parseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case string:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// parseValue coerces a raw value field to float64. NaN and infinities
// count as unparsable so they are excluded before aggregation rather
// than propagated.
func parseValue(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func stringField(row map[string]any, key string) string {
	if s, ok := row[key].(string); ok {
		return s
	}
	return ""
}

// NormalizeMeasurements turns raw sensor-feed rows into typed records.
// Rows with an unparsable timestamp, a non-numeric value, or a missing
// sensor identity are dropped; the count of dropped rows is returned.
// Input order is preserved, and no ordering is assumed from the store.
func NormalizeMeasurements(rows []map[string]any) ([]models.Measurement, int) {
	out := make([]models.Measurement, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		ts, ok := parseTimestamp(row[fieldTime])
		if !ok {
			dropped++
			continue
		}
		value, ok := parseValue(row[fieldValue])
		if !ok {
			dropped++
			continue
		}
		sensorID := stringField(row, fieldSensorID)
		variable := stringField(row, fieldVariable)
		if sensorID == "" || variable == "" {
			dropped++
			continue
		}
		out = append(out, models.Measurement{
			Timestamp:    ts,
			SensorID:     sensorID,
			VariableType: variable,
			Value:        value,
			Unit:         stringField(row, fieldUnit),
		})
	}
	return out, dropped
}

// NormalizeRainfall turns raw rainfall-feed rows into typed samples.
// Intensity is non-negative by definition, so negative values are
// treated as defective rows and dropped along with unparsable ones.
func NormalizeRainfall(rows []map[string]any) ([]models.RainfallSample, int) {
	out := make([]models.RainfallSample, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		ts, ok := parseTimestamp(row[fieldTime])
		if !ok {
			dropped++
			continue
		}
		value, ok := parseValue(row[fieldValue])
		if !ok || value < 0 {
			dropped++
			continue
		}
		out = append(out, models.RainfallSample{Timestamp: ts, Value: value})
	}
	return out, dropped
}
