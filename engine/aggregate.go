/*
aggregate.go - Window aggregation and goal evaluation

PURPOSE:
  Computes how many points a goal has earned from the child's event
  history, then derives progress, remaining distance, and the full
  evaluation record the API returns per goal.

ATTRIBUTION RULES (the part that must not drift):
  - An event tagged with a GoalID counts ONLY toward that exact goal,
    whether or not the goal is primary.
  - An untagged event counts ONLY toward the goal evaluated with
    isPrimary = true.
  This keeps several simultaneous goals from double-counting a single
  behavior event while still defaulting untagged daily activity to the
  family's current main focus.

FREEZE GUARANTEE:
  Once a goal is redeemed its earned points are the frozen snapshot taken
  at redemption, forever. EarnedPoints short-circuits before looking at
  any event.

ISPRIMARY IS EXPLICIT:
  The aggregator never infers primary-ness from context; the caller passes
  it in (see primary.go for the selection). This keeps the function pure
  and the attribution rule auditable in one place.

SEE ALSO:
  - primary.go: Which goal gets isPrimary = true
  - status.go: Lifecycle state from the same earned value
  - milestone.go: Thresholds included in the evaluation record
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WINDOW AGGREGATOR - Earned points for one goal
// =============================================================================

// EarnedPoints returns the goal's earned points, always >= 0 and never
// above the target.
//
// For a redeemed goal this is the frozen snapshot, unconditionally. For a
// live goal it is the sum of qualifying positive events — right child,
// inside the window, attributed per the rules above — scaled by the
// earning multiplier, truncated toward zero, and capped at the target.
// Overshoot stays in the child's raw balance; the goal itself reports at
// most what it needed.
//
// Debits (negative amounts) never reduce progress; they only affect the
// child's raw balance (see RawBalance).
func EarnedPoints(g Goal, events []Event, isPrimary bool) int64 {
	if g.Redeemed {
		if g.FrozenEarned != nil {
			return *g.FrozenEarned
		}
		return 0
	}

	window := g.Window()
	var sum int64
	for _, e := range events {
		if e.ChildID != g.ChildID {
			continue
		}
		if e.Amount <= 0 {
			continue
		}
		if !window.Contains(e.OccurredAt) {
			continue
		}
		if e.Tagged() {
			if e.GoalID != g.ID {
				continue
			}
		} else if !isPrimary {
			continue
		}
		sum += e.Amount
	}

	// Truncate toward zero. Inputs are positive and the multiplier is in
	// (0,1], so the product is never negative.
	earned := decimal.NewFromInt(sum).Mul(g.Multiplier).IntPart()
	if g.Target > 0 && earned > g.Target {
		return g.Target
	}
	return earned
}

// =============================================================================
// PROGRESS / REMAINING - Derived, never stored
// =============================================================================

// Progress returns earned/target clamped to [0, 1], or 0 for an
// unsatisfiable target.
func Progress(g Goal, earned int64) float64 {
	if g.Target <= 0 {
		return 0
	}
	p := float64(earned) / float64(g.Target)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Remaining returns how many points the goal still needs, floored at 0.
func Remaining(g Goal, earned int64) int64 {
	r := g.Target - earned
	if r < 0 {
		return 0
	}
	return r
}

// =============================================================================
// EVALUATION - The per-goal output record
// =============================================================================

// Evaluation is everything a caller needs to render one goal: lifecycle
// state, earned points, progress, and milestone information. All fields
// derive from the same EarnedPoints value so the progress bar and the
// state machine can never disagree about whether a goal is ready.
type Evaluation struct {
	GoalID            GoalID
	Status            Status
	EarnedPoints      int64
	Progress          float64 // 0.0 - 1.0
	Remaining         int64
	IsPrimary         bool
	Milestones        []int64
	MilestonesReached []int64
	NextMilestone     *int64
}

// Evaluate computes the full evaluation record for a single goal.
func Evaluate(g Goal, events []Event, isPrimary bool, now time.Time) Evaluation {
	earned := EarnedPoints(g, events, isPrimary)

	ev := Evaluation{
		GoalID:            g.ID,
		Status:            Resolve(g, earned, now),
		EarnedPoints:      earned,
		Progress:          Progress(g, earned),
		Remaining:         Remaining(g, earned),
		IsPrimary:         isPrimary,
		Milestones:        Milestones(g.Target),
		MilestonesReached: MilestonesReached(g.Target, earned),
	}
	if m, ok := NextMilestone(g.Target, earned); ok {
		next := m
		ev.NextMilestone = &next
	}
	return ev
}

// EvaluateChild evaluates every goal for a child against one event
// snapshot, resolving the primary goal internally. Results come back in
// the same order as the input goals.
func EvaluateChild(goals []Goal, events []Event, now time.Time) []Evaluation {
	primary, hasPrimary := PrimaryGoal(goals, now)

	out := make([]Evaluation, len(goals))
	for i, g := range goals {
		isPrimary := hasPrimary && g.ID == primary.ID
		out[i] = Evaluate(g, events, isPrimary, now)
	}
	return out
}
