package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildMeasurementFlux(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)

	flux := buildMeasurementFlux("sensor_data", start, end, []string{"a", "b"})

	assert.Contains(t, flux, `from(bucket: "sensor_data")`)
	assert.Contains(t, flux, `range(start: 2024-05-01T00:00:00Z, stop: 2024-05-08T00:00:00Z)`)
	assert.Contains(t, flux, `r["_measurement"] == "sensor_data"`)
	assert.Contains(t, flux, `r["device_id"] == "a" or r["device_id"] == "b"`)
	assert.Contains(t, flux, `sort(columns: ["_time"])`)
	assert.Contains(t, flux, `limit(n: 200000)`)
}

func TestBuildMeasurementFluxWithoutIdentityFilter(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	flux := buildMeasurementFlux("sensor_data", start, end, nil)
	assert.NotContains(t, flux, "device_id")
}

func TestBuildMeasurementFluxConvertsZonedRangeToUTC(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, shanghai)
	end := start.AddDate(0, 0, 1)

	flux := buildMeasurementFlux("sensor_data", start, end, nil)
	assert.Contains(t, flux, "start: 2024-05-01T00:00:00Z")
}

func TestBuildRainfallFlux(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	flux := buildRainfallFlux("rainfall", start, end)
	assert.Contains(t, flux, `from(bucket: "rainfall")`)
	assert.Contains(t, flux, `r["_measurement"] == "rainfall"`)
	assert.Contains(t, flux, `r["_field"] == "intensity"`)
	assert.Equal(t, 1, strings.Count(flux, "limit("))
}
