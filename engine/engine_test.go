/*
engine_test.go - Behavioral tests for the goal progress engine

PURPOSE:
  These tests document the engine's externally observable behavior:
  attribution, freezing, expiry, soft reset, and milestone crossing.
  Each test states its scenario in GIVEN/WHEN/THEN form.

Shared helpers for the whole package live here.
*/
package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sprouthq/goal-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var t0 = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func at(h time.Duration) time.Time { return t0.Add(h) }

func newGoal(id string, target int64) engine.Goal {
	return engine.NewGoal(engine.GoalID(id), "kid-1", "Test Goal", target, t0)
}

func withDeadline(g engine.Goal, d time.Time) engine.Goal {
	g.Deadline = &d
	return g
}

func credit(amount int64, occurred time.Time) engine.Event {
	return engine.Event{ChildID: "kid-1", Amount: amount, OccurredAt: occurred}
}

func taggedCredit(goalID string, amount int64, occurred time.Time) engine.Event {
	e := credit(amount, occurred)
	e.GoalID = engine.GoalID(goalID)
	return e
}

func debit(amount int64, occurred time.Time) engine.Event {
	return engine.Event{ChildID: "kid-1", Amount: -amount, OccurredAt: occurred}
}

// =============================================================================
// CORE SCENARIOS
// =============================================================================

func TestEvaluate_UntaggedEventOverTarget_ReadyToRedeem(t *testing.T) {
	// GIVEN: Primary goal with target 10, no deadline
	// WHEN: One untagged event of +12 lands an hour into the window
	// THEN: Earned caps at the target, progress is 1.0, status is
	//       ready_to_redeem

	goal := newGoal("g1", 10)
	events := []engine.Event{credit(12, at(time.Hour))}

	ev := engine.Evaluate(goal, events, true, at(2*time.Hour))

	if ev.EarnedPoints != 10 {
		t.Errorf("expected 10 earned points (capped at target), got %d", ev.EarnedPoints)
	}
	if ev.Progress != 1.0 {
		t.Errorf("expected progress 1.0, got %v", ev.Progress)
	}
	if ev.Status != engine.StatusReadyToRedeem {
		t.Errorf("expected ready_to_redeem, got %s", ev.Status)
	}
	if ev.Remaining != 0 {
		t.Errorf("expected 0 remaining, got %d", ev.Remaining)
	}
}

func TestEvaluate_DeadlinePassedWithoutPoints_Expired(t *testing.T) {
	// GIVEN: Goal with target 10 and a one-day deadline, no events
	// WHEN: Evaluated an hour after the deadline
	// THEN: Status is expired with zero earned points

	goal := withDeadline(newGoal("g1", 10), at(24*time.Hour))

	ev := engine.Evaluate(goal, nil, true, at(25*time.Hour))

	if ev.Status != engine.StatusExpired {
		t.Errorf("expected expired, got %s", ev.Status)
	}
	if ev.EarnedPoints != 0 {
		t.Errorf("expected 0 earned points, got %d", ev.EarnedPoints)
	}
}

func TestEvaluate_RedeemedGoal_FrozenAgainstNewEvents(t *testing.T) {
	// GIVEN: A goal redeemed with 10 frozen points
	// WHEN: A +100 event is appended after redemption
	// THEN: Earned points stay at 10 and status stays completed

	goal := newGoal("g1", 10)
	goal = goal.Redeem(10, at(time.Hour))

	events := []engine.Event{credit(100, at(2 * time.Hour))}
	ev := engine.Evaluate(goal, events, true, at(3*time.Hour))

	if ev.EarnedPoints != 10 {
		t.Errorf("freeze violated: expected 10 earned points, got %d", ev.EarnedPoints)
	}
	if ev.Status != engine.StatusCompleted {
		t.Errorf("expected completed, got %s", ev.Status)
	}
}

func TestSoftReset_DiscountsFutureEarningAndRestartsWindow(t *testing.T) {
	// GIVEN: Goal with target 30 and 20 points earned before the reset
	// WHEN: The goal is soft reset at t+48h
	// THEN: Multiplier halves, window restarts, deadline clears, the old
	//       events stop counting, and new events earn at half rate

	deadline := at(24 * time.Hour)
	goal := withDeadline(newGoal("g1", 30), deadline)
	preReset := []engine.Event{credit(20, at(time.Hour))}

	if earned := engine.EarnedPoints(goal, preReset, true); earned != 20 {
		t.Fatalf("setup: expected 20 earned pre-reset, got %d", earned)
	}

	resetAt := at(48 * time.Hour)
	goal = goal.SoftReset(resetAt)

	if !goal.Multiplier.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("expected multiplier 0.5, got %v", goal.Multiplier)
	}
	if !goal.WindowStart.Equal(resetAt) {
		t.Errorf("expected window start %v, got %v", resetAt, goal.WindowStart)
	}
	if goal.Deadline != nil {
		t.Error("expected deadline cleared after soft reset")
	}

	// Pre-reset events fall outside the new window.
	if earned := engine.EarnedPoints(goal, preReset, true); earned != 0 {
		t.Errorf("expected 0 earned after window restart, got %d", earned)
	}

	// New events earn at half rate, truncated toward zero.
	events := append(preReset, credit(15, resetAt.Add(time.Hour)))
	if earned := engine.EarnedPoints(goal, events, true); earned != 7 {
		t.Errorf("expected 7 earned (15 x 0.5 truncated), got %d", earned)
	}
}

func TestSoftReset_Compounds(t *testing.T) {
	// GIVEN: A goal soft reset twice
	// THEN: The multiplier compounds to 0.25 and the window start never
	//       moves backward

	goal := newGoal("g1", 100)
	first := goal.SoftReset(at(time.Hour))
	second := first.SoftReset(at(2 * time.Hour))

	if second.Multiplier.GreaterThanOrEqual(first.Multiplier) {
		t.Error("multiplier must strictly decrease on each reset")
	}
	if second.WindowStart.Before(first.WindowStart) {
		t.Error("window start must never move backward")
	}

	events := []engine.Event{credit(100, at(3 * time.Hour))}
	if earned := engine.EarnedPoints(second, events, true); earned != 25 {
		t.Errorf("expected 25 earned (100 x 0.25), got %d", earned)
	}
}
