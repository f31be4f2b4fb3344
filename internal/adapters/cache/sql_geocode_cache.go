package cache

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// SQLGeocodeCache stores geocoding results in the geocode_cache table.
//
// Keys are expected to be normalized already (lower case, single spaces) so
// "12 MG Road" and "12  mg road" share a row. The cache compares keys
// byte for byte and never normalizes them itself.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// GetMany returns the cached locations for the given normalized addresses.
// Misses are simply absent from the result.
func (s *SQLGeocodeCache) GetMany(ctx context.Context, addresses []string) (_ map[string]domain.Location, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	keys := cacheKeys(addresses)
	if len(keys) == 0 {
		return map[string]domain.Location{}, nil
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT address, lat, lng FROM geocode_cache WHERE address = ANY($1::text[])`, keys)
	if err != nil {
		return nil, fmt.Errorf("geocode cache lookup: %w", err)
	}
	defer rows.Close()

	hits := make(map[string]domain.Location, len(keys))
	for rows.Next() {
		var (
			address string
			loc     domain.Location
		)
		if err := rows.Scan(&address, &loc.Lat, &loc.Lng); err != nil {
			return nil, fmt.Errorf("geocode cache lookup: scan: %w", err)
		}
		hits[address] = loc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("geocode cache lookup: %w", err)
	}

	return hits, nil
}

// PutMany upserts every entry in one statement. Entries with an empty key
// or an out-of-range location are rejected before anything is written.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Location) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if len(results) == 0 {
		return nil
	}

	addresses, lats, lngs, err := geocodeColumns(results)
	if err != nil {
		return fmt.Errorf("geocode cache store: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO geocode_cache (address, lat, lng)
	SELECT * FROM unnest($1::text[], $2::float8[], $3::float8[])
	ON CONFLICT (address) DO UPDATE
	SET lat = EXCLUDED.lat, lng = EXCLUDED.lng
	`, addresses, lats, lngs)
	if err != nil {
		return fmt.Errorf("geocode cache store: %w", err)
	}
	return nil
}

// geocodeColumns splits results into parallel column slices ordered by key.
func geocodeColumns(results map[string]domain.Location) ([]string, []float64, []float64, error) {
	addresses := make([]string, 0, len(results))
	for address, loc := range results {
		if strings.TrimSpace(address) == "" {
			return nil, nil, nil, errors.New("empty address key")
		}
		if !loc.Valid() {
			return nil, nil, nil, fmt.Errorf("invalid location for %q", address)
		}
		addresses = append(addresses, address)
	}
	slices.Sort(addresses)

	lats := make([]float64, len(addresses))
	lngs := make([]float64, len(addresses))
	for i, address := range addresses {
		lats[i] = results[address].Lat
		lngs[i] = results[address].Lng
	}
	return addresses, lats, lngs, nil
}

// cacheKeys drops blank and repeated keys, keeping first-seen order.
func cacheKeys(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if strings.TrimSpace(k) == "" || slices.Contains(out, k) {
			continue
		}
		out = append(out, k)
	}
	return out
}
