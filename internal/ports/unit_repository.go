package ports

import (
	"ambulance-dispatch-service/internal/domain"
	"context"
)

// Port: a boundary for reading units and performing the single guarded
// status write a dispatch is allowed to make.
type UnitRepository interface {
	// Snapshot of every stored unit, unvalidated and in no particular order.
	ListUnits(ctx context.Context) ([]domain.UnitRecord, error)
	// Fresh read of one unit by datastore key. Returns ErrUnitNotFound if absent.
	GetUnit(ctx context.Context, key string) (domain.UnitRecord, error)
	// Resolve a unit by the identifier clients see (ambulance_id), falling
	// back to the datastore key. Returns ErrUnitNotFound if neither matches.
	FindUnit(ctx context.Context, ref string) (domain.UnitRecord, error)
	// Set status to `to` only if it currently equals `from`.
	// Reports false (and no error) when the stored status did not match.
	CompareAndSetStatus(ctx context.Context, key string, from, to domain.UnitStatus) (bool, error)
}
