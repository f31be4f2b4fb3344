package repositories

import (
	"ambulance-dispatch-service/internal/domain"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// UnitSeed is one entry of the units seed file.
type UnitSeed struct {
	Key       string   `json:"key"`
	UnitID    string   `json:"ambulance_id"`
	Name      string   `json:"name"`
	Contact   string   `json:"contact"`
	Status    string   `json:"status"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Record converts the seed entry into a datastore record. A missing or
// out-of-range coordinate leaves Location nil.
func (s UnitSeed) Record() domain.UnitRecord {
	rec := domain.UnitRecord{
		Key:     strings.TrimSpace(s.Key),
		UnitID:  strings.TrimSpace(s.UnitID),
		Name:    s.Name,
		Contact: s.Contact,
		Status:  s.Status,
	}
	if s.Latitude != nil && s.Longitude != nil {
		loc := domain.Location{Lat: *s.Latitude, Lng: *s.Longitude}
		if loc.Valid() {
			rec.Location = &loc
		}
	}
	return rec
}

// LoadSeed reads unit records from a JSON file. Every entry needs a key.
func LoadSeed(jsonPath string) ([]domain.UnitRecord, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", jsonPath, err)
	}

	var data []UnitSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load seed: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(data))
	records := make([]domain.UnitRecord, 0, len(data))
	for i, item := range data {
		rec := item.Record()
		if rec.Key == "" {
			return nil, fmt.Errorf("load seed: item at index %d: key cannot be empty", i+1)
		}
		if _, dup := seen[rec.Key]; dup {
			return nil, fmt.Errorf("load seed: duplicate key %q", rec.Key)
		}
		seen[rec.Key] = struct{}{}
		records = append(records, rec)
	}

	return records, nil
}
