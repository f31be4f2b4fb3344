package services

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/platform/metrics"
	"ambulance-dispatch-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type DistanceOracle struct {
	provider     ports.DistanceProvider
	concurrency  int
	queryTimeout time.Duration
	metrics      metrics.Recorder
	log          zerolog.Logger
}

type OracleOption func(*DistanceOracle)

// WithConcurrency bounds the number of in-flight routing queries.
func WithConcurrency(n int) OracleOption {
	return func(o *DistanceOracle) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithQueryTimeout caps each routing query. Zero disables the cap.
func WithQueryTimeout(d time.Duration) OracleOption {
	return func(o *DistanceOracle) { o.queryTimeout = d }
}

func WithOracleMetrics(r metrics.Recorder) OracleOption {
	return func(o *DistanceOracle) {
		if r != nil {
			o.metrics = r
		}
	}
}

func NewDistanceOracle(provider ports.DistanceProvider, log zerolog.Logger, opts ...OracleOption) *DistanceOracle {
	o := &DistanceOracle{
		provider:    provider,
		concurrency: 8,
		metrics:     metrics.NopRecorder{},
		log:         log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// withLogger returns a shallow copy logging through log.
func (o *DistanceOracle) withLogger(log zerolog.Logger) *DistanceOracle {
	cp := *o
	cp.log = log
	return &cp
}

// Evaluate queries the travel distance from origin to every candidate.
//
// Queries run concurrently, bounded by the configured limit. A failed query
// excludes only its own candidate. Results keep candidate order, so the
// first of several equal distances is the earliest candidate. If ctx ends
// before all queries finish, partial results are discarded and ctx's error
// is returned.
func (o *DistanceOracle) Evaluate(ctx context.Context, origin domain.Location, candidates []domain.Candidate) ([]domain.DistanceResult, error) {
	if len(candidates) == 0 {
		return []domain.DistanceResult{}, nil
	}

	slots := make([]*domain.DistanceResult, len(candidates))

	// Plain group: a failing candidate must not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(o.concurrency)

	for i, c := range candidates {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			r, err := o.query(ctx, origin, c)
			if err != nil {
				return nil
			}
			slots[i] = &r
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("distance oracle: %w", err)
	}

	out := make([]domain.DistanceResult, 0, len(candidates))
	for _, r := range slots {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (o *DistanceOracle) query(ctx context.Context, origin domain.Location, c domain.Candidate) (domain.DistanceResult, error) {
	qctx := ctx
	if o.queryTimeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, o.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	r, err := o.provider.GetDistance(qctx, origin, c.Location)
	elapsed := time.Since(start)

	if err != nil {
		outcome := metrics.OutcomeFailed
		var ext *ports.ExternalServiceError
		if errors.As(err, &ext) && !ext.Transport() {
			outcome = metrics.OutcomeRejected
		}
		o.metrics.DistanceQuery(outcome, elapsed)

		if ctx.Err() == nil {
			o.log.Warn().
				Err(err).
				Str("unit_id", c.ID).
				Str("destination", c.Location.String()).
				Msg("distance query failed; excluding candidate")
		}
		return domain.DistanceResult{}, err
	}

	o.metrics.DistanceQuery(metrics.OutcomeOK, elapsed)
	return domain.DistanceResult{
		Candidate:       c,
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		DurationText:    r.DurationText,
	}, nil
}
