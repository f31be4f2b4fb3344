package domain

// Represents a drivable path from a unit to a destination.
// Path points are ordered from origin to destination. Routes are computed
// on demand and never cached.
type Route struct {
	UnitID       string
	Path         []Location
	DistanceText string
	DurationText string
}
