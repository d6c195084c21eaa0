package main

import (
	"context"
	"log"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"hydroview/internal/collector"
	"hydroview/internal/config"
	"hydroview/internal/repository"
)

// One collection pass per invocation; scheduling belongs to cron or the
// CI workflow, not to this binary.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if cfg.WeatherAPIToken == "" {
		log.Fatal("WEATHER_API_TOKEN is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	influxClient := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	defer influxClient.Close()

	store := repository.NewInfluxRepository(
		influxClient, cfg.InfluxDBOrg,
		cfg.SensorBucket, cfg.RainfallBucket,
		time.Duration(cfg.QueryTimeoutSeconds)*time.Second,
	)
	if err := store.Health(ctx); err != nil {
		log.Fatalf("Error connecting to InfluxDB: %v", err)
	}

	stationDB, err := repository.OpenStationDB(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Error connecting to station database: %v", err)
	}
	defer stationDB.Close()

	c := collector.New(
		cfg.WeatherAPIURL, cfg.WeatherAPIToken,
		store, repository.NewStationRepository(stationDB),
	)
	if err := c.Run(ctx); err != nil {
		log.Fatalf("Collection pass failed: %v", err)
	}
	log.Println("Collection pass completed")
}
