package service

import "errors"

var (
	// ErrInvalidTransition is returned when the requested status change is
	// not in the allowed-transition table, before any network call is made.
	ErrInvalidTransition = errors.New("status transition not allowed")

	// ErrNotAllowed is returned when the acting role may not perform the
	// operation (e.g. a customer confirming, a vendor deleting).
	ErrNotAllowed = errors.New("operation not allowed for this role")

	// ErrUnknownBooking is returned when the booking id is not part of the
	// actor's scope.
	ErrUnknownBooking = errors.New("booking not found in this scope")

	// ErrValidation covers field validation failures on CRUD entities.
	ErrValidation = errors.New("validation failed")
)
