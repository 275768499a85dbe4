// Package repository holds the persistence layer. Repositories translate
// driver errors into the sentinels below so that higher layers never see
// sql.ErrNoRows or driver specific error types.
package repository

import "errors"

// ErrNotFound is returned when a looked up row does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller asks for a resource owned by
// another user.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write collides with a unique key.
var ErrConflict = errors.New("conflict")

// ErrSeatsUnavailable is returned by SeatTx.MarkBooked when at least one
// seat was no longer unbooked at update time.
var ErrSeatsUnavailable = errors.New("seats unavailable")
