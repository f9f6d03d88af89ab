// Package repository defines error types that are reused across multiple
// repositories. These sentinel values let higher layers such as handlers
// distinguish between failure scenarios: ErrBayOccupied signals that a
// check-in targeted a bay that already holds an active session, while
// ErrNoActiveSession signals a checkout for a plate that is not currently
// parked. Both are rejected operations, never retried internally.
package repository

import "errors"

// ErrBayOccupied is returned by Open when the target bay already has a
// non-deleted session without an exit time. Handlers should translate this
// into an HTTP 409 response.
var ErrBayOccupied = errors.New("bay occupied")

// ErrNoActiveSession is returned by Close when no active session exists for
// the given plate. Handlers should translate this into an HTTP 409
// response.
var ErrNoActiveSession = errors.New("no active session")

// ErrTariffNotConfigured is returned when one of the named tariff rows the
// fee calculation depends on is missing. This is a configuration fault
// (operators must seed the tariff table) and surfaces as HTTP 500, not as a
// user-correctable error.
var ErrTariffNotConfigured = errors.New("tariff not configured")

// ErrBayNotFound is returned when a bay cannot be found or is soft-deleted.
var ErrBayNotFound = errors.New("bay not found")

// ErrSessionNotFound is returned when a session cannot be found or is
// soft-deleted.
var ErrSessionNotFound = errors.New("session not found")
