package models

import "time"

// GroupMode selects how measurement keys are partitioned into chart panels.
type GroupMode string

const (
	// GroupByIdentity draws one panel per sensor, all of its selected
	// variable types together.
	GroupByIdentity GroupMode = "identity"
	// GroupByQuantity draws one panel per variable type, all selected
	// sensors reporting it together.
	GroupByQuantity GroupMode = "quantity"
)

// Valid reports whether the mode is one of the two supported values.
func (m GroupMode) Valid() bool {
	return m == GroupByIdentity || m == GroupByQuantity
}

// ChartQuery is one user query: a bounded historical window plus grouping
// and smoothing parameters. Start is inclusive, End exclusive.
type ChartQuery struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Mode            GroupMode `json:"mode"`
	SensorIDs       []string  `json:"sensor_ids,omitempty"`
	VariableTypes   []string  `json:"variable_types,omitempty"`
	SmoothWindow    int       `json:"smooth_window"`
	SpikeThreshold  float64   `json:"spike_threshold"`
	RainfallOverlay bool      `json:"rainfall_overlay"`
}

// Span is the total extent of the query window, which drives bucket-width
// selection regardless of where the data actually falls inside it.
func (q ChartQuery) Span() time.Duration {
	return q.End.Sub(q.Start)
}
