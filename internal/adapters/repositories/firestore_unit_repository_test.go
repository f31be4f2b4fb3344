package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/type/latlng"
)

func TestUnitRecordFromData(t *testing.T) {
	rec := unitRecordFromData("doc-1", map[string]any{
		"ambulance_id":     "AMB-001",
		"driver_name":      "Asha",
		"contact_number":   "+91 98450 00000",
		"status":           "available",
		"current_location": &latlng.LatLng{Latitude: 12.97, Longitude: 77.59},
	})

	assert.Equal(t, "doc-1", rec.Key)
	assert.Equal(t, "AMB-001", rec.UnitID)
	assert.Equal(t, "Asha", rec.Name)
	assert.Equal(t, "+91 98450 00000", rec.Contact)
	assert.Equal(t, "available", rec.Status)
	require.NotNil(t, rec.Location)
	assert.Equal(t, 12.97, rec.Location.Lat)
	assert.Equal(t, 77.59, rec.Location.Lng)
}

func TestUnitRecordFromData_NonGeoPointLocation(t *testing.T) {
	tests := []struct {
		name string
		loc  any
	}{
		{name: "missing", loc: nil},
		{name: "map", loc: map[string]any{"latitude": 1.0, "longitude": 2.0}},
		{name: "string", loc: "12.97,77.59"},
		{name: "out of range", loc: &latlng.LatLng{Latitude: 120, Longitude: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := map[string]any{"status": "available"}
			if tt.loc != nil {
				data["current_location"] = tt.loc
			}
			rec := unitRecordFromData("doc-2", data)
			assert.Nil(t, rec.Location)
			assert.Equal(t, "doc-2", rec.Key)
		})
	}
}

func TestUnitRecordFromData_MissingFieldsStayEmpty(t *testing.T) {
	rec := unitRecordFromData("doc-3", map[string]any{"ambulance_id": int64(7)})

	assert.Equal(t, "7", rec.UnitID)
	assert.Empty(t, rec.Name)
	assert.Empty(t, rec.Contact)
	assert.Empty(t, rec.Status)
}
