package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "units.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSeed(t *testing.T) {
	path := writeSeed(t, `[
		{"key": "amb-1", "ambulance_id": "AMB-001", "name": "Ravi", "status": "available", "latitude": 12.97, "longitude": 77.59},
		{"key": "amb-2", "status": "available", "latitude": 95, "longitude": 77.59},
		{"key": "amb-3", "status": "busy"}
	]`)

	recs, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "AMB-001", recs[0].UnitID)
	require.NotNil(t, recs[0].Location)
	assert.Equal(t, 12.97, recs[0].Location.Lat)

	assert.Nil(t, recs[1].Location, "out of range latitude is dropped")
	assert.Nil(t, recs[2].Location)
}

func TestLoadSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "bad json", body: `{`, want: "parse json"},
		{name: "missing key", body: `[{"ambulance_id": "x"}]`, want: "key cannot be empty"},
		{name: "duplicate key", body: `[{"key": "a"}, {"key": "a"}]`, want: "duplicate key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeed(writeSeed(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
