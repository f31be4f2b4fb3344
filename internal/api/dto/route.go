package dto

type RouteRequest struct {
	AmbulanceID *string  `json:"ambulance_id"`
	UserLat     *float64 `json:"user_lat"`
	UserLng     *float64 `json:"user_lng"`
}

// RouteResponse carries the path as [lat, lng] pairs ordered from the
// ambulance to the user.
type RouteResponse struct {
	Path     [][2]float64 `json:"path"`
	Distance string       `json:"distance"`
	Duration string       `json:"duration"`
}
