package repositories

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/ports"
	"context"
	"strings"
	"sync"
)

// In-memory implementation of the UnitRepository port, used for local runs
// and tests. Status writes are serialized by a mutex.
type MemoryUnitRepository struct {
	mu    sync.Mutex
	order []string
	units map[string]domain.UnitRecord
}

func NewMemoryUnitRepository(records []domain.UnitRecord) *MemoryUnitRepository {
	r := &MemoryUnitRepository{units: make(map[string]domain.UnitRecord, len(records))}
	for _, rec := range records {
		r.put(rec)
	}
	return r
}

func (r *MemoryUnitRepository) put(rec domain.UnitRecord) {
	if _, ok := r.units[rec.Key]; !ok {
		r.order = append(r.order, rec.Key)
	}
	if rec.Location != nil {
		loc := *rec.Location
		rec.Location = &loc
	}
	r.units[rec.Key] = rec
}

// Upsert adds or replaces a record.
func (r *MemoryUnitRepository) Upsert(rec domain.UnitRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(rec)
}

// ListUnits returns records in insertion order.
func (r *MemoryUnitRepository) ListUnits(ctx context.Context) ([]domain.UnitRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.UnitRecord, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, copyRecord(r.units[k]))
	}
	return out, nil
}

func (r *MemoryUnitRepository) GetUnit(ctx context.Context, key string) (domain.UnitRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.UnitRecord{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.units[key]
	if !ok {
		return domain.UnitRecord{}, ports.ErrUnitNotFound
	}
	return copyRecord(rec), nil
}

// FindUnit matches ambulance ids in insertion order before trying keys.
func (r *MemoryUnitRepository) FindUnit(ctx context.Context, ref string) (domain.UnitRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.UnitRecord{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range r.order {
		if rec := r.units[k]; rec.UnitID != "" && strings.TrimSpace(rec.UnitID) == ref {
			return copyRecord(rec), nil
		}
	}
	if rec, ok := r.units[ref]; ok {
		return copyRecord(rec), nil
	}
	return domain.UnitRecord{}, ports.ErrUnitNotFound
}

// CompareAndSetStatus reports false for an unknown key.
func (r *MemoryUnitRepository) CompareAndSetStatus(ctx context.Context, key string, from, to domain.UnitStatus) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.units[key]
	if !ok || domain.UnitStatus(rec.Status) != from {
		return false, nil
	}
	rec.Status = string(to)
	r.units[key] = rec
	return true, nil
}

func copyRecord(rec domain.UnitRecord) domain.UnitRecord {
	if rec.Location != nil {
		loc := *rec.Location
		rec.Location = &loc
	}
	return rec
}
