package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"hydroview/internal/models"
)

// StationRepository keeps the monitored-site registry in Postgres.
type StationRepository struct {
	db *sql.DB
}

// OpenStationDB opens the Postgres pool and verifies connectivity.
func OpenStationDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening station database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging station database: %w", err)
	}
	return db, nil
}

func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// List returns all stations in creation order.
func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, lon, lat, is_active, created_at FROM monitor_config ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	defer rows.Close()

	stations := make([]models.Station, 0)
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Lon, &s.Lat, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning station row: %w", err)
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating station rows: %w", err)
	}
	return stations, nil
}

// Add inserts a new station and returns it with its assigned id.
func (r *StationRepository) Add(ctx context.Context, station models.Station) (models.Station, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO monitor_config (name, lon, lat, is_active) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		station.Name, station.Lon, station.Lat, station.IsActive,
	).Scan(&station.ID, &station.CreatedAt)
	if err != nil {
		return models.Station{}, fmt.Errorf("inserting station: %w", err)
	}
	return station, nil
}

// Delete removes a station by id.
func (r *StationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM monitor_config WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting station: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

var _ StationStore = (*StationRepository)(nil)
