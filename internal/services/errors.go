package services

import (
	"ambulance-dispatch-service/internal/ports"
	"errors"
)

var (
	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("validation failed")
	// ErrCandidateUnavailable is returned when no unit had both a valid
	// location and a successful distance query.
	ErrCandidateUnavailable = errors.New("no available ambulance with a valid location")
	// ErrReservationConflict is returned when every attempted unit was
	// claimed by a concurrent dispatch. Callers may retry.
	ErrReservationConflict = errors.New("ambulance was claimed by another request")
	ErrUnitNotFound        = ports.ErrUnitNotFound
)

// ValidationError carries a caller-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &ValidationError{Msg: msg} }
