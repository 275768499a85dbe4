// Package service implements seat reservation and occupancy
// notifications on top of the repository layer.
package service

import "errors"

// Callers classify failures with errors.Is against these values.
var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrConflict        = errors.New("seats not available")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrRegistryClosed  = errors.New("subscription registry closed")
)
