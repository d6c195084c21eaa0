package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"

	"hydroview/internal/config"
	"hydroview/internal/controller"
	"hydroview/internal/metrics"
	"hydroview/internal/repository"
	"hydroview/internal/routes"
	"hydroview/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	ctx := context.Background()

	// The store client is constructed exactly once here and injected;
	// nothing downstream mutates it.
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
	log.Println("Successfully connected to InfluxDB!")

	stationDB, err := repository.OpenStationDB(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Error connecting to station database: %v", err)
	}
	defer stationDB.Close()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Could not connect to Redis, station cache disabled: %v", err)
			redisClient = nil
		} else {
			log.Println("Connected to Redis successfully!")
		}
	}

	stationStore := repository.NewCachedStationStore(
		repository.NewStationRepository(stationDB),
		redisClient,
		time.Duration(cfg.StationCacheSeconds)*time.Second,
	)

	m := metrics.New(prometheus.DefaultRegisterer)
	chartService := service.NewChartService(store, m)
	stationService := service.NewStationService(stationStore)

	router := routes.SetupRouter(
		controller.NewChartController(chartService),
		controller.NewStationController(stationService),
	)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "DELETE"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	handler := c.Handler(router)

	log.Printf("Server is running on port %s...", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatal("Error starting server:", err)
	}
}
