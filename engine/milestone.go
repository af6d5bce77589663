/*
milestone.go - Intermediate progress thresholds

PURPOSE:
  Derives the milestone markers shown along a goal's progress bar, and
  the "just crossed a milestone" check used to fire one-time celebratory
  feedback. Milestones are a function of the target alone — no goal
  instance, no event history.

POLICY (a step function of target):
  target <= 0    no milestones
  target <= 10   one milestone at target/2
  target <= 20   three quarter marks: target/4, target/2, 3*target/4
  target >  20   step s = max(5, (target/4/5)*5), multiples of s up to
                 target-s

All division is integer division; the step formula is preserved from the
original product behavior, including the uncapped interval size for very
large targets.
*/
package engine

// =============================================================================
// MILESTONE CALCULATOR
// =============================================================================

// Milestones returns the ascending intermediate thresholds for a target.
// Every value is strictly inside (0, target).
func Milestones(target int64) []int64 {
	switch {
	case target <= 0:
		return nil
	case target <= 10:
		half := target / 2
		if half <= 0 {
			return nil
		}
		return []int64{half}
	case target <= 20:
		return []int64{target / 4, target / 2, 3 * target / 4}
	default:
		step := (target / 4 / 5) * 5
		if step < 5 {
			step = 5
		}
		var out []int64
		for m := step; m+step <= target; m += step {
			out = append(out, m)
		}
		return out
	}
}

// MilestonesReached returns the milestones at or below the earned value.
func MilestonesReached(target, earned int64) []int64 {
	var out []int64
	for _, m := range Milestones(target) {
		if m <= earned {
			out = append(out, m)
		}
	}
	return out
}

// NextMilestone returns the first milestone above the earned value.
func NextMilestone(target, earned int64) (int64, bool) {
	for _, m := range Milestones(target) {
		if m > earned {
			return m, true
		}
	}
	return 0, false
}

// JustCrossed returns the first milestone passed between two earned
// values: previous < m <= current. Used to celebrate a milestone exactly
// once and never re-announce one already passed.
func JustCrossed(target, previousEarned, currentEarned int64) (int64, bool) {
	for _, m := range Milestones(target) {
		if previousEarned < m && m <= currentEarned {
			return m, true
		}
	}
	return 0, false
}
