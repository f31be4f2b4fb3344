package dto

// Pointer fields distinguish an absent value from a zero coordinate.
type LocationPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type NearestAmbulanceRequest struct {
	Location *LocationPayload `json:"location"`
}

// ID is the ambulance id shown to users. Key is the datastore key; both are
// accepted as ambulance_id by /fetch-route.
type AmbulanceResponse struct {
	ID             string  `json:"id"`
	Key            string  `json:"key"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Contact        string  `json:"contact"`
	DriverName     string  `json:"driver_name"`
	DistanceMeters int     `json:"distance_meters"`
	Duration       string  `json:"duration"`
}

type NearestAmbulanceResponse struct {
	NearestAmbulance AmbulanceResponse `json:"nearest_ambulance"`
}
