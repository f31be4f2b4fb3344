package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Geographic position in degrees (WGS84).
type Location struct {
	Lat float64
	Lng float64
}

// Valid reports whether both coordinates are finite and within range.
func (l Location) Valid() bool {
	if math.IsNaN(l.Lat) || math.IsInf(l.Lat, 0) || math.IsNaN(l.Lng) || math.IsInf(l.Lng, 0) {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// String renders "lat,lng" as accepted by the Google Maps web services.
func (l Location) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

// Key renders the location rounded to 5 decimals (~1m) for cache keys.
func (l Location) Key() string {
	return fmt.Sprintf("%.5f,%.5f", l.Lat, l.Lng)
}

// Return coordinates as [lat, lng] for JSON path payloads.
func (l Location) Pair() [2]float64 { return [2]float64{l.Lat, l.Lng} }
