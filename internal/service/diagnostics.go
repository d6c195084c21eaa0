package service

import (
	"context"

	"hydroview/internal/models"
)

// FeedDiagnostics reports reachability and a peek at the newest raw
// rows of one feed, unfiltered.
type FeedDiagnostics struct {
	Feed      models.FeedKind  `json:"feed"`
	Reachable bool             `json:"reachable"`
	Error     string           `json:"error,omitempty"`
	Rows      []map[string]any `json:"rows,omitempty"`
}

const diagnosticsRowCount = 5

// Diagnose probes both feeds independently. A failing feed shows up as
// unreachable with its error; it never aborts the other probe.
func (s *ChartService) Diagnose(ctx context.Context) []FeedDiagnostics {
	report := make([]FeedDiagnostics, 0, 2)
	for _, feed := range []models.FeedKind{models.FeedSensor, models.FeedRainfall} {
		d := FeedDiagnostics{Feed: feed, Reachable: true}
		rows, err := s.store.LatestRows(ctx, feed, diagnosticsRowCount)
		if err != nil {
			d.Reachable = false
			d.Error = err.Error()
		} else {
			d.Rows = rows
		}
		report = append(report, d)
	}
	return report
}
