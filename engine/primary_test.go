package engine_test

import (
	"testing"
	"time"

	"github.com/sprouthq/goal-engine/engine"
)

// =============================================================================
// PRIMARY SELECTION
// =============================================================================

func TestPrimaryGoal_LowestPriorityWins(t *testing.T) {
	g1 := newGoal("g1", 50)
	g1.Priority = 3
	g2 := newGoal("g2", 50)
	g2.Priority = 1
	g3 := newGoal("g3", 50)
	g3.Priority = 2

	primary, ok := engine.PrimaryGoal([]engine.Goal{g1, g2, g3}, at(time.Hour))
	if !ok || primary.ID != "g2" {
		t.Errorf("expected g2 primary, got %v (ok=%v)", primary.ID, ok)
	}

	ordered := engine.OrderActive([]engine.Goal{g1, g2, g3}, at(time.Hour))
	if ordered[0].ID != "g2" || ordered[1].ID != "g3" || ordered[2].ID != "g1" {
		t.Errorf("expected [g2 g3 g1], got %v %v %v", ordered[0].ID, ordered[1].ID, ordered[2].ID)
	}
}

func TestPrimaryGoal_TiesKeepCreationOrder(t *testing.T) {
	// GIVEN: Two goals with equal priority
	// THEN: The earlier-created (earlier in the slice) one is primary, and
	//       the choice is stable across repeated evaluations

	g1 := newGoal("g1", 50)
	g2 := newGoal("g2", 50)
	goals := []engine.Goal{g1, g2}

	for i := 0; i < 10; i++ {
		primary, ok := engine.PrimaryGoal(goals, at(time.Hour))
		if !ok || primary.ID != "g1" {
			t.Fatalf("iteration %d: expected g1 primary, got %v", i, primary.ID)
		}
	}
}

func TestPrimaryGoal_SkipsRedeemedAndExpired(t *testing.T) {
	// GIVEN: The top-priority goal is redeemed and the next one expired
	// THEN: Selection falls through to the first live goal

	g1 := newGoal("g1", 50)
	g1.Priority = 1
	g1 = g1.Redeem(50, at(time.Hour))

	g2 := withDeadline(newGoal("g2", 50), at(2*time.Hour))
	g2.Priority = 2

	g3 := newGoal("g3", 50)
	g3.Priority = 3

	primary, ok := engine.PrimaryGoal([]engine.Goal{g1, g2, g3}, at(3*time.Hour))
	if !ok || primary.ID != "g3" {
		t.Errorf("expected g3 primary, got %v (ok=%v)", primary.ID, ok)
	}
}

func TestPrimaryGoal_ExpiryHandsOffPrimacyInstantly(t *testing.T) {
	// GIVEN: A timed primary goal and a queued goal
	// WHEN: The deadline passes
	// THEN: The queued goal starts receiving untagged events

	g1 := withDeadline(newGoal("g1", 50), at(24*time.Hour))
	g1.Priority = 1
	g2 := newGoal("g2", 50)
	g2.Priority = 2
	goals := []engine.Goal{g1, g2}

	before, _ := engine.PrimaryGoal(goals, at(23*time.Hour))
	if before.ID != "g1" {
		t.Errorf("before deadline: expected g1, got %v", before.ID)
	}

	after, _ := engine.PrimaryGoal(goals, at(25*time.Hour))
	if after.ID != "g2" {
		t.Errorf("after deadline: expected g2, got %v", after.ID)
	}
}

func TestPrimaryGoal_NoLiveGoals(t *testing.T) {
	g := newGoal("g1", 50)
	g = g.Redeem(50, at(time.Hour))

	if _, ok := engine.PrimaryGoal([]engine.Goal{g}, at(2*time.Hour)); ok {
		t.Error("expected no primary among terminal goals")
	}
	if _, ok := engine.PrimaryGoal(nil, at(2*time.Hour)); ok {
		t.Error("expected no primary for empty set")
	}
}
