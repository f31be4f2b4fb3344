package repositories

import (
	"ambulance-dispatch-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createUnitsQuery := `
	CREATE TABLE IF NOT EXISTS units (
		id TEXT PRIMARY KEY,
		ambulance_id TEXT,
		name TEXT,
		contact TEXT,
		status TEXT,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_units_status
	ON units(status);
	`

	statements := []string{
		createUnitsQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the units table from a JSON seed file. Existing rows with the
// same key are replaced.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) (int, error) {
	if db == nil {
		return 0, errors.New("seed units: DB is nil")
	}

	records, err := LoadSeed(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed units: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed units: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO units (
		id,
		ambulance_id,
		name,
		contact,
		status,
		latitude,
		longitude
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		ambulance_id = EXCLUDED.ambulance_id,
		name = EXCLUDED.name,
		contact = EXCLUDED.contact,
		status = EXCLUDED.status,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		updated_at = now();
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("seed units: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		lat, lng := nullCoords(rec.Location)
		if _, err := stmt.ExecContext(ctx,
			rec.Key,
			nullString(rec.UnitID),
			nullString(rec.Name),
			nullString(rec.Contact),
			nullString(rec.Status),
			lat,
			lng,
		); err != nil {
			return 0, fmt.Errorf("seed units: insert id=%q: %w", rec.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed units: commit tx: %w", err)
	}

	return len(records), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullCoords(loc *domain.Location) (sql.NullFloat64, sql.NullFloat64) {
	if loc == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Lat, Valid: true}, sql.NullFloat64{Float64: loc.Lng, Valid: true}
}
