package googlemaps

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/platform/obs"
	"ambulance-dispatch-service/internal/ports"
	"context"
	"math"
	"net/url"
)

const distanceMatrixService = "distance matrix"

type distanceMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string    `json:"status"`
			Distance textValue `json:"distance"`
			Duration textValue `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// GetDistance queries one origin/destination pair, driving, departing now.
// A non-OK top-level or element status is returned as a
// *ports.ExternalServiceError carrying the service's error_message.
func (c *Client) GetDistance(ctx context.Context, origin, destination domain.Location) (_ ports.DistanceResult, err error) {
	defer obs.Time(ctx, "googlemaps.GetDistance")(&err)

	params := url.Values{}
	params.Set("origins", origin.String())
	params.Set("destinations", destination.String())
	params.Set("mode", "driving")
	params.Set("departure_time", "now")

	var decoded distanceMatrixResponse
	if err := c.getJSON(ctx, distanceMatrixService, "/maps/api/distancematrix/json", params, &decoded); err != nil {
		return ports.DistanceResult{}, err
	}

	if decoded.Status != statusOK {
		msg := decoded.ErrorMessage
		if msg == "" {
			msg = "No valid distance available"
		}
		return ports.DistanceResult{}, serviceError(distanceMatrixService, decoded.Status, msg)
	}
	if len(decoded.Rows) == 0 || len(decoded.Rows[0].Elements) == 0 {
		return ports.DistanceResult{}, serviceError(distanceMatrixService, "EMPTY_RESPONSE", "no rows in response")
	}

	el := decoded.Rows[0].Elements[0]
	if el.Status != statusOK {
		return ports.DistanceResult{}, serviceError(distanceMatrixService, el.Status, "no route to destination")
	}

	return ports.DistanceResult{
		DistanceMeters:  int(math.Round(el.Distance.Value)),
		DurationSeconds: int(math.Round(el.Duration.Value)),
		DurationText:    el.Duration.Text,
	}, nil
}
