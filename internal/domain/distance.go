package domain

// Travel distance and duration from the requester to one candidate.
type DistanceResult struct {
	Candidate       Candidate
	DistanceMeters  int
	DurationSeconds int
	// Human-readable duration as reported by the routing service, e.g. "12 mins".
	DurationText string
}

// Assignment is the outcome of a successful dispatch request.
type Assignment struct {
	Unit           Unit
	DistanceMeters int
	DurationText   string
	Requester      Location
}
