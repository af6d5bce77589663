package family_test

import (
	"testing"
	"time"

	"github.com/sprouthq/goal-engine/engine"
	"github.com/sprouthq/goal-engine/family"
)

var t0 = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

// =============================================================================
// EVENT KINDS
// =============================================================================

func TestChoreKindRoundTrip(t *testing.T) {
	kind := family.ChoreKind("dishes")
	if kind != "chore:dishes" {
		t.Errorf("expected chore:dishes, got %s", kind)
	}

	id, ok := family.ChoreIDFromKind(kind)
	if !ok || id != "dishes" {
		t.Errorf("expected dishes, got %s (ok=%v)", id, ok)
	}

	if _, ok := family.ChoreIDFromKind(family.KindBonus); ok {
		t.Error("bonus is not a chore kind")
	}
}

func TestChoreEvent(t *testing.T) {
	// GIVEN: One completion of the dishes chore
	// THEN: The ledger event carries the catalog's points and kind

	e := family.ChoreDishes.Event("e1", "kid-1", t0)

	if e.Amount != 5 {
		t.Errorf("expected 5 points, got %d", e.Amount)
	}
	if e.Kind != "chore:dishes" {
		t.Errorf("expected chore:dishes kind, got %s", e.Kind)
	}
	if !e.IsCredit() {
		t.Error("chore completions are credits")
	}
	if e.Tagged() {
		t.Error("chore events are untagged; attribution follows the primary goal")
	}
}

func TestCatalogLookup(t *testing.T) {
	c, ok := family.ChoreByID("walk-dog")
	if !ok || c.Points != 6 {
		t.Errorf("expected walk-dog at 6 points, got %+v (ok=%v)", c, ok)
	}

	if _, ok := family.ChoreByID("mow-lawn"); ok {
		t.Error("unknown chore must not resolve")
	}
}

// =============================================================================
// GOAL TEMPLATES
// =============================================================================

func TestTemplateBuild_TimedGoal(t *testing.T) {
	goal := family.TemplateOuting.Build("g1", "kid-1", t0)

	if goal.Target != 60 {
		t.Errorf("expected target 60, got %d", goal.Target)
	}
	if goal.Deadline == nil {
		t.Fatal("outing template sets a deadline")
	}
	want := t0.Add(14 * 24 * time.Hour)
	if !goal.Deadline.Equal(want) {
		t.Errorf("expected deadline %v, got %v", want, goal.Deadline)
	}
	if !goal.WindowStart.Equal(t0) {
		t.Errorf("window opens at creation, got %v", goal.WindowStart)
	}
	if engine.Resolve(goal, 0, t0) != engine.StatusActiveWithDeadline {
		t.Error("freshly built timed goal should be active with deadline")
	}
}

func TestTemplateBuild_OpenEnded(t *testing.T) {
	goal := family.TemplateToy.Build("g1", "kid-1", t0)

	if goal.Deadline != nil {
		t.Error("toy template is open-ended")
	}
	if goal.Priority != 0 {
		t.Errorf("expected default priority, got %d", goal.Priority)
	}
}

func TestTemplateBuild_BigTicketRunsBehind(t *testing.T) {
	// GIVEN: An outing goal and a big save built from presets
	// THEN: The outing goal wins primary selection

	outing := family.TemplateOuting.Build("g1", "kid-1", t0)
	save := family.TemplateBigTicket.Build("g2", "kid-1", t0)

	primary, ok := engine.PrimaryGoal([]engine.Goal{save, outing}, t0.Add(time.Hour))
	if !ok || primary.ID != "g1" {
		t.Errorf("expected the outing primary, got %v (ok=%v)", primary.ID, ok)
	}
}

func TestTemplateByID(t *testing.T) {
	tmpl, ok := family.TemplateByID("allowance")
	if !ok || tmpl.Target != 25 || tmpl.DeadlineDays != 7 {
		t.Errorf("unexpected allowance template: %+v (ok=%v)", tmpl, ok)
	}

	if _, ok := family.TemplateByID("pony"); ok {
		t.Error("unknown template must not resolve")
	}
}
