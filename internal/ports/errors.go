package ports

import (
	"errors"
	"fmt"
)

// ErrUnitNotFound is returned by repositories when no record matches a key.
var ErrUnitNotFound = errors.New("unit not found")

// ExternalServiceError reports a failed call to a mapping service.
//
// Status carries the service-reported status (e.g. "ZERO_RESULTS") when the
// service answered; HTTPStatus is set when the HTTP exchange itself failed.
// Err wraps the underlying transport error, if any.
type ExternalServiceError struct {
	Service    string
	Status     string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ExternalServiceError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Service, e.Err)
	case e.HTTPStatus != 0:
		return fmt.Sprintf("%s: unexpected http status %d", e.Service, e.HTTPStatus)
	case e.Message != "":
		return fmt.Sprintf("%s: status %s: %s", e.Service, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: status %s", e.Service, e.Status)
	}
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// Transport reports whether the failure happened below the service protocol
// (network error, timeout, non-2xx HTTP response) rather than as a status
// returned by the service.
func (e *ExternalServiceError) Transport() bool {
	return e.Err != nil || e.HTTPStatus != 0
}
