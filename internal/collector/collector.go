package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"hydroview/internal/models"
	"hydroview/internal/repository"
)

// realtimeResponse mirrors the realtime weather endpoint payload.
type realtimeResponse struct {
	Status string `json:"status"`
	Result struct {
		Realtime struct {
			Temperature   float64 `json:"temperature"`
			Humidity      float64 `json:"humidity"`
			Skycon        string  `json:"skycon"`
			Precipitation struct {
				Local struct {
					Intensity float64 `json:"intensity"`
				} `json:"local"`
			} `json:"precipitation"`
		} `json:"realtime"`
	} `json:"result"`
}

// Collector pulls the realtime weather endpoint for each active station
// and writes measurement and rainfall points to the store. It is the
// only write path in the system; the query pipeline never sees it.
type Collector struct {
	client   *resty.Client
	writer   repository.SeriesWriter
	stations repository.StationStore
	token    string
}

func New(baseURL, token string, writer repository.SeriesWriter, stations repository.StationStore) *Collector {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2)
	return &Collector{client: client, writer: writer, stations: stations, token: token}
}

// Run performs one collection pass over all active stations. A failing
// station is logged and skipped; the pass only errors when no station
// could be collected at all.
func (c *Collector) Run(ctx context.Context) error {
	stations, err := c.stations.List(ctx)
	if err != nil {
		return fmt.Errorf("listing stations: %w", err)
	}

	attempted, failed := 0, 0
	for _, st := range stations {
		if !st.IsActive {
			continue
		}
		attempted++
		if err := c.collectStation(ctx, st); err != nil {
			failed++
			log.Printf("collect %s: %v", st.Name, err)
			continue
		}
		log.Printf("collected %s", st.Name)
	}
	if attempted > 0 && failed == attempted {
		return fmt.Errorf("all %d station fetches failed", attempted)
	}
	return nil
}

func (c *Collector) collectStation(ctx context.Context, st models.Station) error {
	var payload realtimeResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&payload).
		Get(fmt.Sprintf("/%s/%.4f,%.4f/realtime", c.token, st.Lon, st.Lat))
	if err != nil {
		return fmt.Errorf("fetching realtime weather: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("realtime weather endpoint returned %s", resp.Status())
	}
	if payload.Status != "ok" {
		return fmt.Errorf("realtime weather status %q", payload.Status)
	}

	now := time.Now().UTC()
	label := stationLabel(st)
	realtime := payload.Result.Realtime

	readings := []models.Measurement{
		{Timestamp: now, SensorID: label, VariableType: "temperature", Value: realtime.Temperature, Unit: "℃"},
		{Timestamp: now, SensorID: label, VariableType: "humidity", Value: realtime.Humidity * 100, Unit: "%"},
	}
	for _, m := range readings {
		if err := c.writer.WriteMeasurement(ctx, m); err != nil {
			return err
		}
	}
	return c.writer.WriteRainfall(ctx, st.Name, models.RainfallSample{
		Timestamp: now,
		Value:     realtime.Precipitation.Local.Intensity,
	})
}

// stationLabel builds the composite device label the query side parses
// back apart: "<id>-<category>-<state>(<qualifier>)".
func stationLabel(st models.Station) string {
	return fmt.Sprintf("NH%03d-气象站-在线(%s)", st.ID, st.Name)
}
