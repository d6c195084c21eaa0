package models

import "time"

// Station is one monitored site. Stations drive the collector's fetch
// loop and the query UI's sensor choices; the pipeline itself never
// reads them.
type Station struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Lon       float64   `json:"lon"`
	Lat       float64   `json:"lat"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
