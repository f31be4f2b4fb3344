package dto

type GeocodeRequest struct {
	Address *string `json:"address"`
}

type GeocodeResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
