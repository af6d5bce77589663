/*
status.go - Goal lifecycle state resolution

PURPOSE:
  Maps (goal, earned points, now) to one of five lifecycle states. The
  precedence order of the checks is itself part of the contract: a
  redeemed goal is "completed" even if its deadline has passed, and
  expiry is only ever checked for unredeemed goals.

STATES:
  completed            Redeemed. Terminal.
  expired              Deadline passed without redemption. Terminal.
  ready_to_redeem      Earned >= target; waiting on the parent to redeem.
  active_with_deadline Counting down to a deadline.
  active               Default state.

The engine never flips a goal into "completed" itself — redemption is an
external action that sets Redeemed and freezes earned points atomically.
Resolve only reports the derived state.
*/
package engine

import "time"

// =============================================================================
// STATUS - Five-state goal lifecycle
// =============================================================================

type Status string

const (
	StatusActive             Status = "active"
	StatusActiveWithDeadline Status = "active_with_deadline"
	StatusReadyToRedeem      Status = "ready_to_redeem"
	StatusCompleted          Status = "completed"
	StatusExpired            Status = "expired"
)

// Terminal reports whether the status admits no further progress.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusExpired
}

// =============================================================================
// RESOLVER - Ordered guards, first match wins
// =============================================================================

// Resolve returns the goal's lifecycle state. The guards run in strict
// precedence order; do not reorder them:
//
//	1. completed            redeemed, regardless of anything else
//	2. expired              deadline passed, not redeemed
//	3. ready_to_redeem      earned >= target
//	4. active_with_deadline a deadline exists
//	5. active               default
//
// A goal with target <= 0 can never reach ready_to_redeem through the
// points test.
func Resolve(g Goal, earned int64, now time.Time) Status {
	if g.Redeemed {
		return StatusCompleted
	}
	if g.Deadline != nil && now.After(*g.Deadline) {
		return StatusExpired
	}
	if g.Target > 0 && earned >= g.Target {
		return StatusReadyToRedeem
	}
	if g.Deadline != nil {
		return StatusActiveWithDeadline
	}
	return StatusActive
}
