package models

import "time"

// All timestamps in these types share one reference frame: UTC, with no
// zone marker carried past normalization. Mixing zoned and naive values
// downstream of the normalizer is a defect.

// Measurement is one typed reading from the multi-sensor feed.
type Measurement struct {
	Timestamp    time.Time `json:"timestamp"`
	SensorID     string    `json:"sensor_id"`
	VariableType string    `json:"variable_type"`
	Value        float64   `json:"value"`
	Unit         string    `json:"unit,omitempty"`
}

// Key returns the identity of the logical series this reading belongs to.
// Values of different keys are never aggregated together.
func (m Measurement) Key() SeriesKey {
	return SeriesKey{SensorID: m.SensorID, VariableType: m.VariableType, Unit: m.Unit}
}

// SeriesKey identifies one logical series within the sensor feed.
type SeriesKey struct {
	SensorID     string `json:"sensor_id"`
	VariableType string `json:"variable_type"`
	Unit         string `json:"unit,omitempty"`
}

// RainfallSample is one reading from the single-channel rainfall feed.
// Value is an intensity and is never negative after normalization.
type RainfallSample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// PlotGroup names one chart panel and the ordered series keys drawn on it.
// Derived per query, never persisted.
type PlotGroup struct {
	Title string      `json:"title"`
	Keys  []SeriesKey `json:"keys"`
}
