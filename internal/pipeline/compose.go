package pipeline

import "hydroview/internal/models"

// Fixed series palette, indexed by position within a panel and wrapping
// when exhausted.
var seriesPalette = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de",
	"#3ba272", "#fc8452", "#9a60b4", "#ea7ccc",
}

const (
	rainfallSeriesName = "降雨强度"
	rainfallColor      = "#2f4554"
	leftAxisTitle      = "测量值"
	rightAxisTitle     = "降雨强度 (mm/h)"
)

// ComposePanel merges one sensor group with the shared rainfall series
// on a dual-scale time axis. Sensor series always take the left scale;
// the rainfall series always takes the right scale, with its floor
// pinned at zero. When the overlay is requested but the rainfall series
// is empty the right axis is still reserved, just unlabeled and
// tick-free — a sensor series is never promoted to the right scale in
// its place.
func ComposePanel(group Group, rainfall []models.RainfallSample, overlay bool) models.Panel {
	panel := models.Panel{
		Title:    group.Title,
		Series:   make([]models.PanelSeries, 0, len(group.Series)+1),
		LeftAxis: models.AxisSpec{Title: leftAxisTitle, ShowTicks: true},
	}

	for i, s := range group.Series {
		points := make([]models.Point, len(s.Records))
		for j, r := range s.Records {
			points[j] = models.Point{Time: r.Timestamp, Value: r.Value}
		}
		panel.Series = append(panel.Series, models.PanelSeries{
			Name:   s.Name,
			Axis:   models.AxisLeft,
			Color:  seriesPalette[i%len(seriesPalette)],
			Points: points,
		})
	}

	if overlay {
		zero := 0.0
		panel.RightAxis = models.AxisSpec{Min: &zero}
		if len(rainfall) > 0 {
			panel.RightAxis.Title = rightAxisTitle
			panel.RightAxis.ShowTicks = true
			points := make([]models.Point, len(rainfall))
			for j, s := range rainfall {
				points[j] = models.Point{Time: s.Timestamp, Value: s.Value}
			}
			panel.Series = append(panel.Series, models.PanelSeries{
				Name:   rainfallSeriesName,
				Axis:   models.AxisRight,
				Color:  rainfallColor,
				Points: points,
			})
		}
	}
	return panel
}

// ComposePage lays the panels out two per row; a single panel gets a
// full-width row.
func ComposePage(groups []Group, rainfall []models.RainfallSample, overlay bool) models.ChartPage {
	panels := make([]models.Panel, len(groups))
	for i, g := range groups {
		panels[i] = ComposePanel(g, rainfall, overlay)
	}
	columns := 2
	if len(panels) <= 1 {
		columns = 1
	}
	return models.ChartPage{Panels: panels, Columns: columns}
}
