/*
errors.go - Centralized error types for stores and callers

PURPOSE:
  The engine's own computations are total — they never fail (spec'd
  defaults cover empty event lists, zero targets, missing deadlines). The
  errors here belong to the surrounding operations: persisting events and
  goals, and performing the redeem / soft-reset mutations.

USAGE:
  Stores and the API layer wrap these with context:

    if errors.Is(err, engine.ErrGoalNotFound) { ... 404 ... }

SEE ALSO:
  - store/sqlite: returns these from persistence operations
  - api/handlers.go: maps them to HTTP status codes
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrChildNotFound is returned when a referenced child doesn't exist.
	ErrChildNotFound = errors.New("child not found")

	// ErrGoalNotFound is returned when a referenced goal doesn't exist.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrDuplicateIdempotencyKey is returned when an event with the same
	// idempotency key already exists. Expected behavior for retries.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// ErrAlreadyRedeemed is returned when redeeming or soft-resetting a
	// goal that is already completed. Redemption is irreversible.
	ErrAlreadyRedeemed = errors.New("goal already redeemed")

	// ErrGoalNotReady is returned when redeeming a goal whose earned
	// points are still below target.
	ErrGoalNotReady = errors.New("goal has not reached its target")

	// ErrGoalExpired is returned when redeeming a goal past its deadline.
	// Expired goals are soft-reset or deleted, never redeemed.
	ErrGoalExpired = errors.New("goal deadline has passed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotReadyError reports how far short of target a redeem attempt fell.
type NotReadyError struct {
	GoalID GoalID
	Earned int64
	Target int64
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("goal %s not ready: earned %d of %d", e.GoalID, e.Earned, e.Target)
}

func (e *NotReadyError) Unwrap() error { return ErrGoalNotReady }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicateIdempotencyKey) ||
		errors.Is(err, ErrAlreadyRedeemed) ||
		errors.Is(err, ErrGoalNotReady) ||
		errors.Is(err, ErrGoalExpired)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrChildNotFound) ||
		errors.Is(err, ErrGoalNotFound)
}
