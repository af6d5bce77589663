/*
goal.go - Goal value type, redemption, and soft reset

PURPOSE:
  A Goal is the definition of a single reward target: how many points it
  takes, the time window in which events count, whether it has been
  redeemed, and the earning multiplier applied to qualifying points.

IMMUTABILITY:
  Goal is a value type. Redeem and SoftReset return new Goal values; the
  owning store persists the replacement as a single whole-record write so
  readers always see a consistent goal.

LIFECYCLE:
  Created  -> multiplier 1.0, window start = creation time
  Redeem   -> redeemed = true, earned points frozen forever
  SoftReset-> multiplier halved, window restarted, deadline cleared

MONOTONICITY:
  - Multiplier only ever decreases (soft reset compounds x0.5).
  - WindowStart only ever moves forward.
  - FrozenEarned is set exactly once, at redemption.

SEE ALSO:
  - aggregate.go: How the window and multiplier shape earned points
  - status.go: How redemption and deadlines shape lifecycle state
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// GOAL - A reward target a child accumulates points toward
// =============================================================================

type Goal struct {
	ID      GoalID
	ChildID ChildID
	Name    string

	// Target is the points needed to finish the goal. A target <= 0 can
	// never be satisfied and always reports zero progress.
	Target int64

	CreatedAt time.Time

	// WindowStart is the earliest timestamp at which events count.
	// Defaults to CreatedAt; moved forward (never back) by soft reset.
	WindowStart time.Time

	// Deadline, if set, is the latest timestamp at which events count and
	// the instant after which the goal expires. Cleared by soft reset.
	Deadline *time.Time

	// Redemption state. Once Redeemed is true the goal's earned points
	// are FrozenEarned forever, regardless of later events.
	Redeemed     bool
	RedeemedAt   *time.Time
	FrozenEarned *int64

	// Multiplier scales qualifying points, in (0, 1]. Starts at 1 and
	// only decreases (soft reset halves it).
	Multiplier decimal.Decimal

	// Priority breaks ties among a child's non-terminal goals: the lowest
	// value is the primary goal receiving untagged events.
	Priority int

	Notes string
}

// NewGoal creates a goal with the default window (= creation time) and a
// full earning multiplier.
func NewGoal(id GoalID, childID ChildID, name string, target int64, createdAt time.Time) Goal {
	return Goal{
		ID:          id,
		ChildID:     childID,
		Name:        name,
		Target:      target,
		CreatedAt:   createdAt,
		WindowStart: createdAt,
		Multiplier:  decimal.NewFromInt(1),
	}
}

// HasDeadline reports whether the goal is time-boxed.
func (g Goal) HasDeadline() bool { return g.Deadline != nil }

// ExpiredAt reports whether the goal's deadline has passed without
// redemption. A redeemed goal never expires.
func (g Goal) ExpiredAt(now time.Time) bool {
	return !g.Redeemed && g.Deadline != nil && now.After(*g.Deadline)
}

// TerminalAt reports whether the goal can no longer accumulate progress:
// either redeemed (completed) or past its deadline (expired).
func (g Goal) TerminalAt(now time.Time) bool {
	return g.Redeemed || g.ExpiredAt(now)
}

// Window returns the time range in which events count toward the goal.
func (g Goal) Window() Window {
	return Window{Start: g.WindowStart, Deadline: g.Deadline}
}

// =============================================================================
// MUTATIONS - Explicit, whole-value replacements
// =============================================================================

// Redeem marks the goal completed and freezes its earned points in the
// same step. The caller supplies the earned value it just computed so the
// frozen figure and the status resolver can never disagree.
func (g Goal) Redeem(earned int64, now time.Time) Goal {
	out := g
	out.Redeemed = true
	at := now
	out.RedeemedAt = &at
	frozen := earned
	out.FrozenEarned = &frozen
	return out
}

// SoftReset forgives a missed timed goal without deleting it: the window
// restarts at "now", the deadline is cleared, and all future earning is
// permanently discounted by half. Repeated resets compound (two resets
// leave the multiplier at 0.25); there is no floor other than the
// approach to zero.
func (g Goal) SoftReset(now time.Time) Goal {
	out := g
	out.Multiplier = g.Multiplier.Div(decimal.NewFromInt(2))
	out.WindowStart = now
	out.Deadline = nil
	return out
}

// WithPriority returns a copy with a new priority. Used when a parent
// swaps which goal is primary.
func (g Goal) WithPriority(p int) Goal {
	out := g
	out.Priority = p
	return out
}

// =============================================================================
// WINDOW - [start, deadline] range for event qualification
// =============================================================================

// Window is the time range within which events count toward a goal.
// The deadline bound is inclusive; no deadline means open-ended.
type Window struct {
	Start    time.Time
	Deadline *time.Time
}

// Contains reports whether a timestamp qualifies: at or after the start,
// and at or before the deadline when one is set.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	if w.Deadline != nil && t.After(*w.Deadline) {
		return false
	}
	return true
}
