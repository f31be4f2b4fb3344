// Package polyline decodes the Encoded Polyline Algorithm Format used by the
// Google Maps Directions API.
//
// Each point is stored as a pair of signed deltas (latitude, then longitude)
// from the previous point, scaled by 1e5, zig-zag encoded and split into
// 5-bit chunks offset by 63 so they print as ASCII.
package polyline

import (
	"errors"
	"fmt"
)

const precision = 1e5

// ErrTruncated is returned when the input ends inside a value or between the
// latitude and longitude of a point.
var ErrTruncated = errors.New("polyline: truncated input")

// ErrInvalidChar is returned for a byte outside the encoding's '?'..'~' range.
var ErrInvalidChar = errors.New("polyline: invalid character")

// Point is one decoded coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Decode returns the coordinates encoded in s, in order.
func Decode(s string) ([]Point, error) {
	points := make([]Point, 0, len(s)/4)

	var lat, lng int
	for i := 0; i < len(s); {
		dlat, n, err := decodeValue(s[i:])
		if err != nil {
			return nil, fmt.Errorf("decode latitude at offset %d: %w", i, err)
		}
		i += n
		if i >= len(s) {
			return nil, fmt.Errorf("decode longitude at offset %d: %w", i, ErrTruncated)
		}

		dlng, n, err := decodeValue(s[i:])
		if err != nil {
			return nil, fmt.Errorf("decode longitude at offset %d: %w", i, err)
		}
		i += n

		lat += dlat
		lng += dlng
		points = append(points, Point{
			Lat: float64(lat) / precision,
			Lng: float64(lng) / precision,
		})
	}

	return points, nil
}

// decodeValue reads one zig-zag encoded value and reports the bytes consumed.
func decodeValue(s string) (int, int, error) {
	var result, shift int
	for i := 0; i < len(s); i++ {
		if s[i] < 63 || s[i] > 126 {
			return 0, 0, fmt.Errorf("byte %q at %d: %w", s[i], i, ErrInvalidChar)
		}
		b := int(s[i]) - 63
		result |= (b & 0x1f) << shift
		shift += 5
		if b&0x20 == 0 {
			if result&1 != 0 {
				return ^(result >> 1), i + 1, nil
			}
			return result >> 1, i + 1, nil
		}
	}
	return 0, 0, ErrTruncated
}
