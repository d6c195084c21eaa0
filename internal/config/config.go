package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration.
type Config struct {
	InfluxDBURL    string
	InfluxDBToken  string
	InfluxDBOrg    string
	SensorBucket   string
	RainfallBucket string

	PostgresDSN string
	RedisAddr   string

	WeatherAPIURL   string
	WeatherAPIToken string

	Port                string
	QueryTimeoutSeconds int
	StationCacheSeconds int
}

// LoadConfig loads the configuration from environment variables,
// reading a .env file first when one exists.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}

	cfg := Config{
		InfluxDBURL:         os.Getenv("INFLUXDB_URL"),
		InfluxDBToken:       os.Getenv("INFLUXDB_TOKEN"),
		InfluxDBOrg:         os.Getenv("INFLUXDB_ORG"),
		SensorBucket:        getEnv("SENSOR_BUCKET", "sensor_data"),
		RainfallBucket:      getEnv("RAINFALL_BUCKET", "rainfall"),
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		WeatherAPIURL:       getEnv("WEATHER_API_URL", "https://api.caiyunapp.com/v2.6"),
		WeatherAPIToken:     os.Getenv("WEATHER_API_TOKEN"),
		Port:                getEnv("PORT", "8081"),
		QueryTimeoutSeconds: getEnvInt("QUERY_TIMEOUT_SECONDS", 30),
		StationCacheSeconds: getEnvInt("STATION_CACHE_SECONDS", 60),
	}
	if cfg.InfluxDBURL == "" || cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		return Config{}, fmt.Errorf("InfluxDB configuration is incomplete. Please set INFLUXDB_URL, INFLUXDB_TOKEN, and INFLUXDB_ORG environment variables")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
