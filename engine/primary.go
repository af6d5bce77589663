/*
primary.go - Primary goal selection

PURPOSE:
  A child can have several goals running at once, but exactly one of the
  non-terminal ones is "primary" at any instant: the goal that receives
  untagged point events. Selection is purely structural — lowest priority
  value among non-redeemed, non-expired goals — and is recomputed at read
  time; nothing is ever marked primary in storage.

DETERMINISM:
  The sort is stable, so goals sharing a priority value keep their
  insertion order and the selection cannot flip between evaluations
  without an actual state change.
*/
package engine

import (
	"sort"
	"time"
)

// =============================================================================
// PRIMARY SELECTOR
// =============================================================================

// ActiveGoals filters out redeemed and expired goals, preserving order.
func ActiveGoals(goals []Goal, now time.Time) []Goal {
	var out []Goal
	for _, g := range goals {
		if g.TerminalAt(now) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// OrderActive returns the child's non-terminal goals sorted ascending by
// priority. Index 0 is the primary goal; everything after it is queued,
// in priority order. Ties keep insertion order (stable sort).
func OrderActive(goals []Goal, now time.Time) []Goal {
	active := ActiveGoals(goals, now)
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority < active[j].Priority
	})
	return active
}

// PrimaryGoal returns the goal currently receiving untagged events, or
// false when the child has no non-terminal goals.
func PrimaryGoal(goals []Goal, now time.Time) (Goal, bool) {
	ordered := OrderActive(goals, now)
	if len(ordered) == 0 {
		return Goal{}, false
	}
	return ordered[0], true
}
