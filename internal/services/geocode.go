package services

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/platform/obs"
	"ambulance-dispatch-service/internal/ports"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// GeocodeService resolves addresses, consulting an optional cache first.
type GeocodeService struct {
	geocoder ports.Geocoder
	cache    ports.GeocodeCache
	log      zerolog.Logger
}

// NewGeocodeService wires a geocoder with an optional cache (nil disables it).
func NewGeocodeService(geocoder ports.Geocoder, cache ports.GeocodeCache, log zerolog.Logger) *GeocodeService {
	return &GeocodeService{geocoder: geocoder, cache: cache, log: log}
}

// NormalizeAddress collapses whitespace and case so equivalent addresses
// share a cache entry.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func (s *GeocodeService) Geocode(ctx context.Context, address string) (loc domain.Location, err error) {
	defer obs.Time(ctx, "geocode")(&err)

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Location{}, invalid("Address not provided")
	}

	log := obs.Logger(ctx, s.log)
	key := NormalizeAddress(address)

	// Cache failures degrade to a live lookup.
	if s.cache != nil {
		hits, err := s.cache.GetMany(ctx, []string{key})
		if err != nil {
			log.Warn().Err(err).Msg("geocode cache read failed")
		} else if hit, ok := hits[key]; ok {
			return hit, nil
		}
	}

	loc, err = s.geocoder.Geocode(ctx, address)
	if err != nil {
		return domain.Location{}, fmt.Errorf("geocode: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.PutMany(ctx, map[string]domain.Location{key: loc}); err != nil {
			log.Warn().Err(err).Msg("geocode cache write failed")
		}
	}

	return loc, nil
}
