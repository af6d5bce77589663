/*
Package factory provides JSON to Go goal-template conversion.

PURPOSE:
  Converts JSON template definitions into family.GoalTemplate values. This
  enables template configuration without code changes - a parent-facing
  admin UI can store templates as JSON, and the factory creates the proper
  Go structs.

WHY JSON?
  - Non-developers can tune targets and deadlines
  - Easy integration with an admin UI
  - Version control for household presets
  - Database storage of template configs

JSON SCHEMA:
  {
    "id": "outing",
    "name": "Family Outing",
    "target": 60,
    "deadline_days": 14,
    "multiplier": 1.0,
    "priority": 0,
    "notes": "Zoo, cinema or the pool."
  }

KEY FEATURES:
  - Validates required fields (id, name, positive target)
  - Sets sensible defaults (open-ended, full rate, priority 0)
  - Rejects multipliers outside (0, 1]

USAGE:
  // From JSON string
  tmpl, err := factory.ParseTemplate(jsonString)

  // From a domain preset (recommended)
  jsonStr := family.OutingTemplateJSON("outing", "Family Outing", 60, 14)
  tmpl, err := factory.ParseTemplate(jsonStr)

  // Stamp out a live goal
  goal := tmpl.Build(engine.GoalID(uuid.NewString()), childID, time.Now())

SEE ALSO:
  - family/templates.go: Go-based preset templates
  - family/factory.go: JSON preset builders
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sprouthq/goal-engine/family"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// TemplateJSON is the JSON representation of a goal template.
type TemplateJSON struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Target       int64    `json:"target"`
	DeadlineDays int      `json:"deadline_days,omitempty"`
	Multiplier   *float64 `json:"multiplier,omitempty"` // Default 1.0
	Priority     int      `json:"priority,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseTemplate parses a JSON string into a GoalTemplate.
func ParseTemplate(jsonStr string) (family.GoalTemplate, error) {
	var tj TemplateJSON
	if err := json.Unmarshal([]byte(jsonStr), &tj); err != nil {
		return family.GoalTemplate{}, fmt.Errorf("failed to parse template JSON: %w", err)
	}
	return FromJSON(tj)
}

// FromJSON converts TemplateJSON to a family.GoalTemplate.
func FromJSON(tj TemplateJSON) (family.GoalTemplate, error) {
	if tj.ID == "" {
		return family.GoalTemplate{}, fmt.Errorf("template requires an id")
	}
	if tj.Name == "" {
		return family.GoalTemplate{}, fmt.Errorf("template %q requires a name", tj.ID)
	}
	if tj.Target <= 0 {
		return family.GoalTemplate{}, fmt.Errorf("template %q requires a positive target, got %d", tj.ID, tj.Target)
	}
	if tj.DeadlineDays < 0 {
		return family.GoalTemplate{}, fmt.Errorf("template %q has negative deadline_days", tj.ID)
	}
	tmpl := family.GoalTemplate{
		ID:           tj.ID,
		Name:         tj.Name,
		Target:       tj.Target,
		DeadlineDays: tj.DeadlineDays,
		Priority:     tj.Priority,
		Notes:        tj.Notes,
	}

	if tj.Multiplier != nil {
		m := *tj.Multiplier
		if m <= 0 || m > 1 {
			return family.GoalTemplate{}, fmt.Errorf("template %q multiplier must be in (0, 1], got %v", tj.ID, m)
		}
		tmpl.Multiplier = decimal.NewFromFloat(m)
	}

	return tmpl, nil
}

// ToJSON converts a GoalTemplate back to its JSON form.
func ToJSON(t family.GoalTemplate) TemplateJSON {
	tj := TemplateJSON{
		ID:           t.ID,
		Name:         t.Name,
		Target:       t.Target,
		DeadlineDays: t.DeadlineDays,
		Priority:     t.Priority,
		Notes:        t.Notes,
	}
	if !t.Multiplier.IsZero() && !t.Multiplier.Equal(decimal.NewFromInt(1)) {
		m, _ := t.Multiplier.Float64()
		tj.Multiplier = &m
	}
	return tj
}
