// Package apperr defines the closed set of error kinds shared by all
// modules. Callers match them with errors.Is; message text is never
// inspected.
package apperr

import "errors"

var (
	// Session / identity.
	ErrAuthRequired       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already in use")
	ErrEmailInvalid       = errors.New("malformed email address")
	ErrRateLimited        = errors.New("too many attempts")

	// Remote backing store. The underlying cause is logged, not exposed.
	ErrBackend = errors.New("backend operation failed")

	// Connectivity probe reasons.
	ErrNoNetwork   = errors.New("no network connection")
	ErrTimeout     = errors.New("connection timed out")
	ErrUnreachable = errors.New("backend unreachable")

	// The guard is disconnected and the caller did not force offline.
	ErrOffline = errors.New("remote operations unavailable while offline")

	// Validation.
	ErrInvalidMood = errors.New("unknown mood")
	ErrInvalidDate = errors.New("invalid date key")
)
