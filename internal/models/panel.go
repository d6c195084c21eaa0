package models

import "time"

// Axis assigns a series to one of the two value scales of a panel.
type Axis string

const (
	AxisLeft  Axis = "left"
	AxisRight Axis = "right"
)

// Point is one plotted (timestamp, value) pair.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// PanelSeries is one drawable line: sensor series go on the left scale,
// the rainfall series on the right scale, never the other way around.
type PanelSeries struct {
	Name   string  `json:"name"`
	Axis   Axis    `json:"axis"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// AxisSpec describes one value scale. A reserved but unused axis keeps
// ShowTicks false and an empty title.
type AxisSpec struct {
	Title     string   `json:"title,omitempty"`
	ShowTicks bool     `json:"show_ticks"`
	Min       *float64 `json:"min,omitempty"`
}

// Panel is one renderable chart specification.
type Panel struct {
	Title     string        `json:"title"`
	Series    []PanelSeries `json:"series"`
	LeftAxis  AxisSpec      `json:"left_axis"`
	RightAxis AxisSpec      `json:"right_axis"`
}

// QuerySummary reports row accounting for one query, including per-feed
// terminal errors so one failing feed does not hide the other's data.
type QuerySummary struct {
	SensorRows        int      `json:"sensor_rows"`
	RainfallRows      int      `json:"rainfall_rows"`
	DroppedRows       int      `json:"dropped_rows"`
	MaxRainIntensity  *float64 `json:"max_rain_intensity,omitempty"`
	SensorFeedError   string   `json:"sensor_feed_error,omitempty"`
	RainfallFeedError string   `json:"rainfall_feed_error,omitempty"`
	NoData            bool     `json:"no_data"`
}

// ChartPage is the full response for one query: panels laid out Columns
// per row plus the row-accounting summary.
type ChartPage struct {
	Panels  []Panel      `json:"panels"`
	Columns int          `json:"columns"`
	Summary QuerySummary `json:"summary"`
}
