package factory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sprouthq/goal-engine/factory"
	"github.com/sprouthq/goal-engine/family"
)

var t0 = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func TestParseTemplate_FullDefinition(t *testing.T) {
	tmpl, err := factory.ParseTemplate(`{
		"id": "outing",
		"name": "Family Outing",
		"target": 60,
		"deadline_days": 14,
		"multiplier": 0.5,
		"priority": 2,
		"notes": "Zoo trip"
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tmpl.ID != "outing" || tmpl.Name != "Family Outing" {
		t.Errorf("identity not parsed: %+v", tmpl)
	}
	if tmpl.Target != 60 || tmpl.DeadlineDays != 14 || tmpl.Priority != 2 {
		t.Errorf("numbers not parsed: %+v", tmpl)
	}
	if !tmpl.Multiplier.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("expected multiplier 0.5, got %v", tmpl.Multiplier)
	}
}

func TestParseTemplate_DefaultsAreOpenEndedFullRate(t *testing.T) {
	tmpl, err := factory.ParseTemplate(`{"id": "toy", "name": "New Toy", "target": 100}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	goal := tmpl.Build("g1", "kid-1", t0)
	if goal.Deadline != nil {
		t.Error("no deadline_days means open-ended")
	}
	if !goal.Multiplier.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected full rate, got %v", goal.Multiplier)
	}
}

func TestParseTemplate_Rejections(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"malformed", `{not json`},
		{"missing id", `{"name": "X", "target": 10}`},
		{"missing name", `{"id": "x", "target": 10}`},
		{"zero target", `{"id": "x", "name": "X", "target": 0}`},
		{"negative target", `{"id": "x", "name": "X", "target": -5}`},
		{"negative deadline", `{"id": "x", "name": "X", "target": 10, "deadline_days": -1}`},
		{"multiplier over one", `{"id": "x", "name": "X", "target": 10, "multiplier": 1.5}`},
		{"zero multiplier", `{"id": "x", "name": "X", "target": 10, "multiplier": 0}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := factory.ParseTemplate(tc.json); err == nil {
				t.Errorf("expected an error for %s", tc.name)
			}
		})
	}
}

func TestParseTemplate_PresetRoundTrip(t *testing.T) {
	// The family JSON builders must parse back into equivalent templates.
	tmpl, err := factory.ParseTemplate(family.OutingTemplateJSON("outing", "Family Outing", 60, 14))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl.Target != 60 || tmpl.DeadlineDays != 14 {
		t.Errorf("preset did not survive the round trip: %+v", tmpl)
	}

	back := factory.ToJSON(tmpl)
	if back.Multiplier != nil {
		t.Error("full-rate template must omit the multiplier in JSON")
	}

	again, err := factory.FromJSON(back)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != tmpl.ID || again.Target != tmpl.Target {
		t.Errorf("ToJSON/FromJSON drifted: %+v vs %+v", again, tmpl)
	}
}
