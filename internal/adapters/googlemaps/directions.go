package googlemaps

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/platform/obs"
	"ambulance-dispatch-service/internal/ports"
	"context"
	"net/url"
)

const directionsService = "directions"

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance textValue `json:"distance"`
			Duration textValue `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// GetDirections returns the first leg of the first driving route.
func (c *Client) GetDirections(ctx context.Context, origin, destination domain.Location) (_ ports.DirectionsResult, err error) {
	defer obs.Time(ctx, "googlemaps.GetDirections")(&err)

	params := url.Values{}
	params.Set("origin", origin.String())
	params.Set("destination", destination.String())
	params.Set("mode", "driving")

	var decoded directionsResponse
	if err := c.getJSON(ctx, directionsService, "/maps/api/directions/json", params, &decoded); err != nil {
		return ports.DirectionsResult{}, err
	}

	if decoded.Status != statusOK {
		return ports.DirectionsResult{}, serviceError(directionsService, decoded.Status, decoded.ErrorMessage)
	}
	if len(decoded.Routes) == 0 || len(decoded.Routes[0].Legs) == 0 {
		return ports.DirectionsResult{}, serviceError(directionsService, "ZERO_RESULTS", "no route returned")
	}

	route := decoded.Routes[0]
	leg := route.Legs[0]

	return ports.DirectionsResult{
		EncodedPolyline: route.OverviewPolyline.Points,
		DistanceText:    leg.Distance.Text,
		DurationText:    leg.Duration.Text,
	}, nil
}
