package googlemaps

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/platform/obs"
	"context"
	"net/url"
)

const geocodingService = "geocoding"

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves address to the coordinate of its best match.
func (c *Client) Geocode(ctx context.Context, address string) (_ domain.Location, err error) {
	defer obs.Time(ctx, "googlemaps.Geocode")(&err)

	params := url.Values{}
	params.Set("address", address)

	var decoded geocodeResponse
	if err := c.getJSON(ctx, geocodingService, "/maps/api/geocode/json", params, &decoded); err != nil {
		return domain.Location{}, err
	}

	if decoded.Status != statusOK {
		return domain.Location{}, serviceError(geocodingService, decoded.Status, decoded.ErrorMessage)
	}
	if len(decoded.Results) == 0 {
		return domain.Location{}, serviceError(geocodingService, "ZERO_RESULTS", "")
	}

	loc := decoded.Results[0].Geometry.Location
	return domain.Location{Lat: loc.Lat, Lng: loc.Lng}, nil
}
