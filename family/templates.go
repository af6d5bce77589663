/*
templates.go - Pre-built goal templates

PURPOSE:
  Ready-to-use goal presets so a parent does not start from a blank form.
  Each template fixes the target and an optional deadline length; Build
  stamps identity and the clock onto an engine.Goal.

AVAILABLE TEMPLATES:
  TemplateAllowance:
    - Small weekly jar (25 points, 7-day deadline)
    - Teaches the deadline mechanic on a low-stakes goal

  TemplateOuting:
    - Medium goal (60 points, 14-day deadline)
    - Zoo trip, cinema, swimming pool

  TemplateToy:
    - Open-ended save-up goal (100 points, no deadline)

  TemplateBigTicket:
    - Long save (250 points, no deadline), lower priority by default
    - Meant to run behind an active short goal and collect tagged events

EXAMPLE:
  tmpl, _ := family.TemplateByID("outing")
  goal := tmpl.Build("g-42", "kid-1", time.Now())
  store.SaveGoal(ctx, goal)

SEE ALSO:
  - factory/: Parses the JSON form of these templates
  - engine/goal.go: The Goal record templates produce
*/
package family

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sprouthq/goal-engine/engine"
)

// =============================================================================
// GOAL TEMPLATE
// =============================================================================

// GoalTemplate is a reusable goal preset.
type GoalTemplate struct {
	ID           string
	Name         string
	Target       int64
	DeadlineDays int             // 0 = open-ended
	Multiplier   decimal.Decimal // Zero value means full rate
	Priority     int
	Notes        string
}

// Build creates a goal from the template. The earning window opens at now;
// a deadline, when the template has one, is DeadlineDays whole days out.
func (t GoalTemplate) Build(id engine.GoalID, childID engine.ChildID, now time.Time) engine.Goal {
	g := engine.NewGoal(id, childID, t.Name, t.Target, now)
	g.Priority = t.Priority
	g.Notes = t.Notes
	if !t.Multiplier.IsZero() {
		g.Multiplier = t.Multiplier
	}
	if t.DeadlineDays > 0 {
		deadline := now.Add(time.Duration(t.DeadlineDays) * 24 * time.Hour)
		g.Deadline = &deadline
	}
	return g
}

// =============================================================================
// PRESETS
// =============================================================================

var (
	TemplateAllowance = GoalTemplate{
		ID: "allowance", Name: "Weekly Allowance Jar",
		Target: 25, DeadlineDays: 7,
		Notes: "Fill the jar before Sunday night.",
	}
	TemplateOuting = GoalTemplate{
		ID: "outing", Name: "Family Outing",
		Target: 60, DeadlineDays: 14,
		Notes: "Zoo, cinema or the pool.",
	}
	TemplateToy = GoalTemplate{
		ID: "toy", Name: "New Toy",
		Target: 100,
	}
	TemplateBigTicket = GoalTemplate{
		ID: "big-ticket", Name: "Big Save",
		Target: 250, Priority: 10,
		Notes: "Long save behind the active goal.",
	}
)

// Templates returns the preset templates in display order.
func Templates() []GoalTemplate {
	return []GoalTemplate{
		TemplateAllowance,
		TemplateOuting,
		TemplateToy,
		TemplateBigTicket,
	}
}

// TemplateByID looks up a preset template.
func TemplateByID(id string) (GoalTemplate, bool) {
	for _, t := range Templates() {
		if t.ID == id {
			return t, true
		}
	}
	return GoalTemplate{}, false
}
