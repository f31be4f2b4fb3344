package services

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/platform/metrics"
	"ambulance-dispatch-service/internal/platform/obs"
	"ambulance-dispatch-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type DispatchConfig struct {
	Concurrency            int
	QueryTimeout           time.Duration
	RequestTimeout         time.Duration
	MaxReservationAttempts int
	OnlyAvailable          bool
}

// Dispatcher assigns the nearest available unit to a requester.
type Dispatcher struct {
	repo         ports.UnitRepository
	oracle       *DistanceOracle
	reservations *ReservationManager
	cfg          DispatchConfig
	metrics      metrics.Recorder
	log          zerolog.Logger
}

func NewDispatcher(
	repo ports.UnitRepository,
	provider ports.DistanceProvider,
	cfg DispatchConfig,
	rec metrics.Recorder,
	log zerolog.Logger,
) *Dispatcher {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	if cfg.MaxReservationAttempts < 1 {
		cfg.MaxReservationAttempts = 1
	}

	return &Dispatcher{
		repo: repo,
		oracle: NewDistanceOracle(provider, log,
			WithConcurrency(cfg.Concurrency),
			WithQueryTimeout(cfg.QueryTimeout),
			WithOracleMetrics(rec),
		),
		reservations: NewReservationManager(repo, rec),
		cfg:          cfg,
		metrics:      rec,
		log:          log,
	}
}

// Dispatch picks the unit with the shortest driving distance to requester
// and reserves it.
//
// When the winner is claimed concurrently, the next-nearest result is tried,
// up to MaxReservationAttempts units in total.
func (d *Dispatcher) Dispatch(ctx context.Context, requester domain.Location) (a domain.Assignment, err error) {
	defer obs.Time(ctx, "dispatch")(&err)
	defer func() { d.metrics.DispatchRequest(dispatchOutcome(err)) }()

	if !requester.Valid() {
		return domain.Assignment{}, invalid("location latitude and longitude must be finite and in range")
	}

	if d.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.RequestTimeout)
		defer cancel()
	}

	log := obs.Logger(ctx, d.log)

	records, err := d.repo.ListUnits(ctx)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("dispatch: list units: %w", err)
	}

	candidates := FilterCandidates(log, records, FilterOptions{OnlyAvailable: d.cfg.OnlyAvailable})
	if len(candidates) == 0 {
		return domain.Assignment{}, ErrCandidateUnavailable
	}

	oracle := d.oracle.withLogger(log)
	results, err := oracle.Evaluate(ctx, requester, candidates)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("dispatch: %w", err)
	}
	if len(results) == 0 {
		return domain.Assignment{}, ErrCandidateUnavailable
	}

	ranked := RankByDistance(results)
	attempts := min(d.cfg.MaxReservationAttempts, len(ranked))

	for i := 0; i < attempts; i++ {
		r := ranked[i]

		err := d.reservations.Reserve(ctx, r.Candidate.Unit)
		if err == nil {
			unit := r.Candidate.Unit
			unit.Status = domain.StatusBusy

			log.Info().
				Str("unit_id", unit.ID).
				Int("distance_meters", r.DistanceMeters).
				Str("duration", r.DurationText).
				Msg("unit dispatched")

			return domain.Assignment{
				Unit:           unit,
				DistanceMeters: r.DistanceMeters,
				DurationText:   r.DurationText,
				Requester:      requester,
			}, nil
		}
		if !errors.Is(err, ErrReservationConflict) {
			return domain.Assignment{}, fmt.Errorf("dispatch: %w", err)
		}

		log.Info().
			Str("unit_id", r.Candidate.ID).
			Int("attempt", i+1).
			Msg("unit claimed concurrently; trying next nearest")
	}

	return domain.Assignment{}, ErrReservationConflict
}

func dispatchOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeAssigned
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeRejected
	case errors.Is(err, ErrCandidateUnavailable):
		return metrics.OutcomeUnavailable
	case errors.Is(err, ErrReservationConflict):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}
