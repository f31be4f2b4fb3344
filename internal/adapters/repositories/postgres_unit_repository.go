package repositories

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the UnitRepository port.
type PostgresUnitRepository struct{ DB *sql.DB }

func NewPostgresUnitRepository(db *sql.DB) *PostgresUnitRepository {
	return &PostgresUnitRepository{DB: db}
}

const selectUnitColumns = `
	SELECT
		id,
		COALESCE(ambulance_id, ''),
		COALESCE(name, ''),
		COALESCE(contact, ''),
		COALESCE(status, ''),
		latitude,
		longitude
	FROM units
`

const casStatusQuery = `
	UPDATE units
	SET status = $1, updated_at = now()
	WHERE id = $2 AND status = $3;
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUnit(row rowScanner) (domain.UnitRecord, error) {
	var (
		rec      domain.UnitRecord
		lat, lng sql.NullFloat64
	)
	if err := row.Scan(&rec.Key, &rec.UnitID, &rec.Name, &rec.Contact, &rec.Status, &lat, &lng); err != nil {
		return domain.UnitRecord{}, err
	}
	if lat.Valid && lng.Valid {
		loc := domain.Location{Lat: lat.Float64, Lng: lng.Float64}
		if loc.Valid() {
			rec.Location = &loc
		}
	}
	return rec, nil
}

// Return every unit stored in the database.
func (p *PostgresUnitRepository) ListUnits(ctx context.Context) ([]domain.UnitRecord, error) {
	if p.DB == nil {
		return nil, errors.New("postgres unit repository: DB is nil")
	}

	rows, err := p.DB.QueryContext(ctx, selectUnitColumns+` ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list units: query units table: %w", err)
	}
	defer rows.Close()

	units := make([]domain.UnitRecord, 0, 64)
	for rows.Next() {
		rec, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("list units: scan row: %w", err)
		}
		units = append(units, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list units: row iteration: %w", err)
	}

	return units, nil
}

func (p *PostgresUnitRepository) GetUnit(ctx context.Context, key string) (domain.UnitRecord, error) {
	if p.DB == nil {
		return domain.UnitRecord{}, errors.New("postgres unit repository: DB is nil")
	}

	rec, err := scanUnit(p.DB.QueryRowContext(ctx, selectUnitColumns+` WHERE id = $1;`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UnitRecord{}, ports.ErrUnitNotFound
	}
	if err != nil {
		return domain.UnitRecord{}, fmt.Errorf("get unit %q: %w", key, err)
	}
	return rec, nil
}

// FindUnit prefers a row whose ambulance_id equals ref over a row keyed by ref.
func (p *PostgresUnitRepository) FindUnit(ctx context.Context, ref string) (domain.UnitRecord, error) {
	if p.DB == nil {
		return domain.UnitRecord{}, errors.New("postgres unit repository: DB is nil")
	}

	query := selectUnitColumns + `
	WHERE ambulance_id = $1 OR id = $1
	ORDER BY CASE WHEN ambulance_id = $1 THEN 0 ELSE 1 END, id
	LIMIT 1;
	`
	rec, err := scanUnit(p.DB.QueryRowContext(ctx, query, ref))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UnitRecord{}, ports.ErrUnitNotFound
	}
	if err != nil {
		return domain.UnitRecord{}, fmt.Errorf("find unit %q: %w", ref, err)
	}
	return rec, nil
}

// CompareAndSetStatus issues a single guarded UPDATE; zero affected rows
// means the stored status no longer matched (or the row is gone).
func (p *PostgresUnitRepository) CompareAndSetStatus(ctx context.Context, key string, from, to domain.UnitStatus) (bool, error) {
	if p.DB == nil {
		return false, errors.New("postgres unit repository: DB is nil")
	}

	res, err := p.DB.ExecContext(ctx, casStatusQuery, string(to), key, string(from))
	if err != nil {
		return false, fmt.Errorf("set unit status %q: %w", key, err)
	}

	swapped, err := casApplied(res)
	if err != nil {
		return false, fmt.Errorf("set unit status %q: %w", key, err)
	}
	return swapped, nil
}

// casApplied reports whether a guarded UPDATE matched its row. Zero rows
// is a lost race or a missing key, never an error.
func casApplied(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
