package service

import (
	"context"
	"fmt"

	"hydroview/internal/models"
	"hydroview/internal/repository"
)

// StationService handles the monitored-site registry.
type StationService struct {
	stations repository.StationStore
}

func NewStationService(stations repository.StationStore) *StationService {
	return &StationService{stations: stations}
}

func (s *StationService) List(ctx context.Context) ([]models.Station, error) {
	return s.stations.List(ctx)
}

func (s *StationService) Add(ctx context.Context, station models.Station) (models.Station, error) {
	if station.Name == "" {
		return models.Station{}, fmt.Errorf("%w: station name is required", models.ErrInvalidQuery)
	}
	if station.Lon < -180 || station.Lon > 180 || station.Lat < -90 || station.Lat > 90 {
		return models.Station{}, fmt.Errorf("%w: station coordinates out of range", models.ErrInvalidQuery)
	}
	station.IsActive = true
	return s.stations.Add(ctx, station)
}

func (s *StationService) Delete(ctx context.Context, id int64) error {
	return s.stations.Delete(ctx, id)
}
