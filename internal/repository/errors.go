// Package repository defines error values that are reused across
// multiple repositories.  These sentinels allow higher layers such as
// handlers and the booking orchestrator to distinguish between failure
// scenarios without string matching.  For example, ErrConflict signals
// that an operation cannot proceed due to existing dependent records
// (e.g. deleting a show slot that still has live bookings).
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state.  Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when a staff or customer record with the
// same email already exists.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateSlot is returned when a show slot for the same date and
// time already exists.
var ErrDuplicateSlot = errors.New("show slot already exists for this date and time")
