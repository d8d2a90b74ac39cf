// Package domain defines domain-level errors for the briefing feature.
package domain

import "errors"

// Domain errors for briefing lifecycle operations.
// These errors represent business logic failures and should be handled appropriately by upper layers.
var (
	// ErrBriefingNotFound indicates that no briefing exists for the given identifier.
	ErrBriefingNotFound = errors.New("briefing not found")

	// ErrForbidden indicates that the requester is not allowed to act on the
	// briefing. It carries no detail about the resource beyond "not allowed".
	ErrForbidden = errors.New("operation not allowed")

	// ErrInvalidState indicates that the requested operation is not valid for
	// the briefing's current lifecycle state (e.g. re-paying an active job).
	ErrInvalidState = errors.New("operation not valid for current briefing status")

	// ErrValidation indicates that the input was rejected before any side
	// effect (empty title, negative budget).
	ErrValidation = errors.New("invalid briefing input")

	// ErrStatusConflict indicates that a compare-and-set status update found
	// the stored status different from the expected one.
	ErrStatusConflict = errors.New("briefing status changed concurrently")

	// ErrGateway indicates that the payment provider was unreachable or
	// rejected the request. The briefing is unchanged and the operation is
	// safe to retry.
	ErrGateway = errors.New("payment gateway error")

	// ErrMalformedNotification indicates that an inbound payment notification
	// could not be parsed. It is logged and dropped, never applied.
	ErrMalformedNotification = errors.New("malformed payment notification")
)
