package services

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/platform/metrics"
	"ambulance-dispatch-service/internal/ports"
	"context"
	"fmt"
)

// ReservationManager is the only writer of unit status.
type ReservationManager struct {
	repo    ports.UnitRepository
	metrics metrics.Recorder
}

func NewReservationManager(repo ports.UnitRepository, rec metrics.Recorder) *ReservationManager {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &ReservationManager{repo: repo, metrics: rec}
}

// Reserve moves the unit from available to busy with a single conditional
// write. It returns ErrReservationConflict if the unit was no longer available.
func (m *ReservationManager) Reserve(ctx context.Context, u domain.Unit) error {
	ok, err := m.repo.CompareAndSetStatus(ctx, u.Key, domain.StatusAvailable, domain.StatusBusy)
	if err != nil {
		return fmt.Errorf("reserve unit %q: %w", u.Key, err)
	}
	if !ok {
		m.metrics.ReservationConflict()
		return fmt.Errorf("reserve unit %q: %w", u.Key, ErrReservationConflict)
	}
	return nil
}
