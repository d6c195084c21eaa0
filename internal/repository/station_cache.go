package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"hydroview/internal/models"
)

const stationCacheKey = "hydroview:stations"

// CachedStationStore fronts a StationStore with a TTL cache in Redis.
// A nil Redis client disables caching: every read goes straight to the
// backing store. Cache failures degrade to the backing store, never to
// an error.
type CachedStationStore struct {
	inner StationStore
	cache *redis.Client
	ttl   time.Duration
}

func NewCachedStationStore(inner StationStore, cache *redis.Client, ttl time.Duration) *CachedStationStore {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedStationStore{inner: inner, cache: cache, ttl: ttl}
}

func (s *CachedStationStore) List(ctx context.Context) ([]models.Station, error) {
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, stationCacheKey).Result()
		if err == nil {
			var stations []models.Station
			if err := json.Unmarshal([]byte(payload), &stations); err == nil {
				return stations, nil
			}
		} else if err != redis.Nil {
			log.Printf("station cache read failed, falling back to store: %v", err)
		}
	}

	stations, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, stations)
	return stations, nil
}

func (s *CachedStationStore) Add(ctx context.Context, station models.Station) (models.Station, error) {
	added, err := s.inner.Add(ctx, station)
	if err != nil {
		return models.Station{}, err
	}
	s.invalidate(ctx)
	return added, nil
}

func (s *CachedStationStore) Delete(ctx context.Context, id int64) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStationStore) store(ctx context.Context, stations []models.Station) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(stations)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, stationCacheKey, payload, s.ttl).Err(); err != nil {
		log.Printf("station cache write failed: %v", err)
	}
}

func (s *CachedStationStore) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, stationCacheKey).Err(); err != nil {
		log.Printf("station cache invalidation failed: %v", err)
	}
}

var _ StationStore = (*CachedStationStore)(nil)
