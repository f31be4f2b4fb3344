package cache

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/platform/metrics"
	"ambulance-dispatch-service/internal/platform/obs"
	"ambulance-dispatch-service/internal/ports"
	"context"

	"github.com/rs/zerolog"
)

// CachedDistanceProvider consults a DistanceCache before delegating to the
// wrapped provider. Cache errors are logged and never fail a query.
type CachedDistanceProvider struct {
	next    ports.DistanceProvider
	cache   ports.DistanceCache
	metrics metrics.Recorder
	log     zerolog.Logger
}

func NewCachedDistanceProvider(
	next ports.DistanceProvider,
	cache ports.DistanceCache,
	rec metrics.Recorder,
	log zerolog.Logger,
) *CachedDistanceProvider {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &CachedDistanceProvider{next: next, cache: cache, metrics: rec, log: log}
}

func (p *CachedDistanceProvider) GetDistance(ctx context.Context, origin, destination domain.Location) (ports.DistanceResult, error) {
	log := obs.Logger(ctx, p.log)

	r, ok, err := p.cache.Get(ctx, origin, destination)
	if err != nil {
		log.Warn().Err(err).Msg("distance cache read failed")
	}
	p.metrics.DistanceCacheLookup(ok)
	if ok {
		return r, nil
	}

	r, err = p.next.GetDistance(ctx, origin, destination)
	if err != nil {
		return ports.DistanceResult{}, err
	}

	if err := p.cache.Put(ctx, origin, destination, r); err != nil {
		log.Warn().Err(err).Msg("distance cache write failed")
	}
	return r, nil
}
