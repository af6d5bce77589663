/*
Package engine provides the goal progress engine.

PURPOSE:
  This package contains the pure computation that turns a child's point
  event history into goal progress: how many points a goal has earned,
  which lifecycle state it is in, how far it is from its target, and which
  milestones have been crossed. Everything here is a deterministic function
  of (goal, events, now) — no I/O, no clocks, no hidden state.

KEY CONCEPTS IN THIS FILE (types.go):
  - Event: A signed, timestamped point entry for a child (immutable)
  - ChildID/GoalID/EventID: Type-safe identifiers
  - RawBalance: The child's signed point total across all events

DESIGN PRINCIPLES:
  1. Purity: Every computation takes an immutable event snapshot and an
     explicit "now"; calling it twice with the same inputs gives the same
     outputs.
  2. Immutability: Events are never mutated. Goals are values; redemption
     and soft reset produce new Goal values (see goal.go).
  3. Explicit attribution: Whether a goal is "primary" is a required
     parameter, never inferred (see aggregate.go).
  4. Precision: The earning multiplier uses decimal.Decimal so repeated
     halving and truncation are exact.

USAGE:
  events := []engine.Event{{ChildID: "kid-1", Amount: 12, OccurredAt: t}}
  earned := engine.EarnedPoints(goal, events, true)
  status := engine.Resolve(goal, earned, now)

SEE ALSO:
  - goal.go: Goal value type, redemption, soft reset
  - aggregate.go: Window aggregation and evaluation
  - status.go: Lifecycle state resolution
  - primary.go: Primary goal selection
  - milestone.go: Milestone thresholds
*/
package engine

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ChildID string
type GoalID string
type EventID string

// =============================================================================
// EVENT - Single signed point entry
// =============================================================================

// Event records points earned (positive) or spent (negative) by a child.
//
// INVARIANTS:
//   - Events are never mutated after creation. The only permitted
//     retroactive change — attaching a GoalID label — is an external
//     concern; this engine only reads events.
//   - Only positive amounts count toward goals. Negative amounts affect
//     the child's raw balance, never goal progress.
type Event struct {
	ID         EventID
	ChildID    ChildID
	Amount     int64 // signed: positive = credit, negative = debit
	OccurredAt time.Time

	// GoalID is an optional explicit assignment. Empty means untagged:
	// the event counts toward whichever goal is currently primary.
	GoalID GoalID

	// Kind labels where the points came from, e.g. "chore:dishes" or
	// "bonus". Informational only.
	Kind   string
	Reason string

	// IdempotencyKey prevents duplicate appends from retries.
	IdempotencyKey string

	CreatedAt time.Time
}

// Tagged reports whether the event names a specific goal.
func (e Event) Tagged() bool { return e.GoalID != "" }

// IsCredit reports whether the event adds points.
func (e Event) IsCredit() bool { return e.Amount > 0 }

// =============================================================================
// RAW BALANCE - Signed point total, independent of goals
// =============================================================================

// RawBalance sums every event for the child, credits and debits alike.
// This is the "how many points does the kid have" number shown next to
// goal progress. Debits show up here even though they never reduce a
// goal's earned points.
func RawBalance(childID ChildID, events []Event) int64 {
	var total int64
	for _, e := range events {
		if e.ChildID != childID {
			continue
		}
		total += e.Amount
	}
	return total
}

// TotalEarned sums only the credits for a child.
func TotalEarned(childID ChildID, events []Event) int64 {
	var total int64
	for _, e := range events {
		if e.ChildID == childID && e.Amount > 0 {
			total += e.Amount
		}
	}
	return total
}

// TotalSpent sums only the debits for a child, reported as a positive number.
func TotalSpent(childID ChildID, events []Event) int64 {
	var total int64
	for _, e := range events {
		if e.ChildID == childID && e.Amount < 0 {
			total -= e.Amount
		}
	}
	return total
}
