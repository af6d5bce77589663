/*
pace.go - Required earning pace for timed goals

PURPOSE:
  Answers "how many points per day does the kid need to average to finish
  before the deadline?" — the number a parent sees when deciding whether a
  timed goal is still realistic or due for a soft reset.

Pure like the rest of the engine: a function of (goal, earned, now) with
no clock access of its own.
*/
package engine

import "time"

// =============================================================================
// PACE - Points per day still needed
// =============================================================================

// RequiredPace returns the average points per day needed between now and
// the deadline to reach the target. Returns false when there is nothing
// to compute: no deadline, target already reached, unsatisfiable target,
// or a deadline already behind us.
func RequiredPace(g Goal, earned int64, now time.Time) (float64, bool) {
	if g.Deadline == nil || g.Target <= 0 || g.Redeemed {
		return 0, false
	}
	remaining := Remaining(g, earned)
	if remaining == 0 {
		return 0, false
	}
	left := g.Deadline.Sub(now)
	if left <= 0 {
		return 0, false
	}

	days := left.Hours() / 24
	if days < 1 {
		// Less than a day left: the whole remainder is due "today".
		return float64(remaining), true
	}
	return float64(remaining) / days, true
}
