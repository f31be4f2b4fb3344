package domain

// UnitStatus is the dispatch state of a unit. Values other than the
// constants below are stored and passed through verbatim.
type UnitStatus string

const (
	StatusAvailable UnitStatus = "available"
	StatusBusy      UnitStatus = "busy"
)

// Defaults applied when a stored record is missing a field.
const (
	UnavailableID  = "unavailable"
	DefaultName    = "Ambulance"
	DefaultContact = "Not provided"
	UnknownStatus  = UnitStatus("Not available")
)

// UnitRecord is a unit as read from the datastore, before validation.
// Empty strings mean the field was absent; Location is nil when the stored
// position was absent or malformed.
type UnitRecord struct {
	// Key addresses the record in the datastore (document id / primary key).
	Key      string
	UnitID   string
	Name     string
	Contact  string
	Status   string
	Location *Location
}

// Mobile unit (e.g. an ambulance) tracked in the shared store.
type Unit struct {
	Key      string
	ID       string
	Name     string
	Contact  string
	Status   UnitStatus
	Location Location
}

// Available reports whether the unit can be dispatched.
func (u Unit) Available() bool { return u.Status == StatusAvailable }

// Candidate is a unit with a location validated at filter time. It lives
// only for the duration of one dispatch request.
type Candidate struct {
	Unit
}
