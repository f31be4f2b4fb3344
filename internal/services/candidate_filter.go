package services

import (
	"ambulance-dispatch-service/internal/domain"
	"strings"

	"github.com/rs/zerolog"
)

type FilterOptions struct {
	// OnlyAvailable drops units whose status is not "available".
	OnlyAvailable bool
}

// NormalizeUnit applies record defaults. The second result is false when
// the record has no usable location.
func NormalizeUnit(rec domain.UnitRecord) (domain.Unit, bool) {
	u := domain.Unit{
		Key:     rec.Key,
		ID:      strings.TrimSpace(rec.UnitID),
		Name:    strings.TrimSpace(rec.Name),
		Contact: strings.TrimSpace(rec.Contact),
		Status:  domain.UnitStatus(strings.TrimSpace(rec.Status)),
	}
	if u.ID == "" {
		u.ID = domain.UnavailableID
	}
	if u.Name == "" {
		u.Name = domain.DefaultName
	}
	if u.Contact == "" {
		u.Contact = domain.DefaultContact
	}
	if u.Status == "" {
		u.Status = domain.UnknownStatus
	}

	if rec.Location == nil || !rec.Location.Valid() {
		return u, false
	}
	u.Location = *rec.Location
	return u, true
}

// FilterCandidates turns raw datastore records into dispatch candidates.
// Records without a valid location are skipped with a warning; a missing
// identifier never aborts processing. Input order is preserved.
func FilterCandidates(log zerolog.Logger, records []domain.UnitRecord, opts FilterOptions) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(records))

	for _, rec := range records {
		u, ok := NormalizeUnit(rec)
		if !ok {
			log.Warn().
				Str("unit_key", rec.Key).
				Str("unit_id", u.ID).
				Msg("skipping unit with missing or invalid location")
			continue
		}
		if opts.OnlyAvailable && !u.Available() {
			log.Debug().
				Str("unit_id", u.ID).
				Str("status", string(u.Status)).
				Msg("skipping unit that is not available")
			continue
		}
		if u.Key == "" {
			// Without a key the reservation write has nothing to address.
			log.Warn().Str("unit_id", u.ID).Msg("skipping unit without a datastore key")
			continue
		}

		out = append(out, domain.Candidate{Unit: u})
	}

	return out
}
