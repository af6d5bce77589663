/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates children, goals, and
	ledger events that demonstrate specific features.

AVAILABLE SCENARIOS:

	starter-family:   Two children, template goals, a week of chores
	deadline-rush:    A timed goal mid-flight with a required daily pace
	second-chance:    A goal that expired and was soft-reset to half rate

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create children
 3. Create goals (mostly from templates)
 4. Append chore and bonus events backdated over recent days

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "starter-family"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
  - family/: chore catalog and goal templates
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sprouthq/goal-engine/engine"
	"github.com/sprouthq/goal-engine/family"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "starter-family",
		Name:        "Starter Family",
		Description: "Two children with template goals and a week of chores",
	},
	{
		ID:          "deadline-rush",
		Name:        "Deadline Rush",
		Description: "A timed goal mid-flight, behind pace",
	},
	{
		ID:          "second-chance",
		Name:        "Second Chance",
		Description: "An expired goal restarted at half rate",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: h.currentScenario, Name: h.currentScenario})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "starter-family":
		err = loadStarterFamily(ctx, h)
	case "deadline-rush":
		err = loadDeadlineRush(ctx, h)
	case "second-chance":
		err = loadSecondChance(ctx, h)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SeedStarterFamily loads the starter scenario when the store is empty.
// Used by -seed at startup; never clobbers existing data.
func (h *Handler) SeedStarterFamily(ctx context.Context) error {
	children, err := h.Store.ListChildren(ctx)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return nil
	}
	if err := loadStarterFamily(ctx, h); err != nil {
		return err
	}
	h.currentScenario = "starter-family"
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// scenarioSeeder accumulates writes so loaders read as data, not plumbing.
type scenarioSeeder struct {
	h   *Handler
	ctx context.Context
	seq int
	err error
}

func (s *scenarioSeeder) child(id, name string, createdAt time.Time) {
	if s.err != nil {
		return
	}
	s.err = s.h.Store.SaveChild(s.ctx, engine.Child{
		ID: engine.ChildID(id), Name: name, CreatedAt: createdAt,
	})
}

func (s *scenarioSeeder) goal(g engine.Goal) {
	if s.err != nil {
		return
	}
	s.err = s.h.Store.SaveGoal(s.ctx, g)
}

func (s *scenarioSeeder) chore(childID string, chore family.Chore, occurredAt time.Time) {
	if s.err != nil {
		return
	}
	s.seq++
	e := chore.Event(engine.EventID(fmt.Sprintf("seed-%d", s.seq)), engine.ChildID(childID), occurredAt)
	e.IdempotencyKey = fmt.Sprintf("seed-%d", s.seq)
	s.err = s.h.Store.Append(s.ctx, e)
}

func (s *scenarioSeeder) event(childID string, amount int64, kind, reason string, goalID string, occurredAt time.Time) {
	if s.err != nil {
		return
	}
	s.seq++
	s.err = s.h.Store.Append(s.ctx, engine.Event{
		ID:             engine.EventID(fmt.Sprintf("seed-%d", s.seq)),
		ChildID:        engine.ChildID(childID),
		Amount:         amount,
		OccurredAt:     occurredAt,
		GoalID:         engine.GoalID(goalID),
		Kind:           kind,
		Reason:         reason,
		IdempotencyKey: fmt.Sprintf("seed-%d", s.seq),
	})
}

// loadStarterFamily seeds two children with template goals and a week of
// chores. Maya's outing goal is primary and collects the untagged events;
// her big save only grows through tagged bonuses.
func loadStarterFamily(ctx context.Context, h *Handler) error {
	now := time.Now().UTC()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	s := &scenarioSeeder{h: h, ctx: ctx}

	s.child("maya", "Maya", weekAgo)
	s.child("leo", "Leo", weekAgo)

	outing := family.TemplateOuting.Build("maya-outing", "maya", weekAgo)
	save := family.TemplateBigTicket.Build("maya-save", "maya", weekAgo)
	toy := family.TemplateToy.Build("leo-toy", "leo", weekAgo)
	s.goal(outing)
	s.goal(save)
	s.goal(toy)

	for day := 1; day <= 6; day++ {
		at := weekAgo.Add(time.Duration(day) * 24 * time.Hour)
		s.chore("maya", family.ChoreDishes, at)
		if day%2 == 0 {
			s.chore("maya", family.ChoreHomework, at.Add(2*time.Hour))
			s.chore("leo", family.ChoreWalkDog, at.Add(time.Hour))
		}
	}

	// Grandma's bonus goes straight to the big save.
	s.event("maya", 20, family.KindBonus, "Bonus from Grandma", "maya-save", now.Add(-24*time.Hour))
	// Leo spent some raw balance on screen time; goals are untouched.
	s.event("leo", -5, family.KindSpend, "Extra screen time", "", now.Add(-12*time.Hour))

	return s.err
}

// loadDeadlineRush seeds one timed goal past its halfway point with a few
// days left, so the pace field has something to say.
func loadDeadlineRush(ctx context.Context, h *Handler) error {
	now := time.Now().UTC()
	start := now.Add(-10 * 24 * time.Hour)
	s := &scenarioSeeder{h: h, ctx: ctx}

	s.child("maya", "Maya", start)

	goal := family.TemplateOuting.Build("maya-outing", "maya", start)
	s.goal(goal) // 14-day deadline, 4 days remain

	for day := 1; day <= 9; day += 2 {
		s.chore("maya", family.ChoreTidyRoom, start.Add(time.Duration(day)*24*time.Hour))
	}

	return s.err
}

// loadSecondChance seeds a goal whose deadline passed, then soft-resets it
// and records fresh progress at the discounted rate.
func loadSecondChance(ctx context.Context, h *Handler) error {
	now := time.Now().UTC()
	start := now.Add(-20 * 24 * time.Hour)
	s := &scenarioSeeder{h: h, ctx: ctx}

	s.child("leo", "Leo", start)

	goal := family.TemplateAllowance.Build("leo-jar", "leo", start)
	s.goal(goal)

	// Progress that arrived too late: the 7-day deadline passed.
	s.chore("leo", family.ChoreReading, start.Add(2*24*time.Hour))
	s.chore("leo", family.ChoreReading, start.Add(4*24*time.Hour))
	if s.err != nil {
		return s.err
	}

	// Parent gave a second chance three days ago.
	resetAt := now.Add(-3 * 24 * time.Hour)
	if _, err := h.Tracker.SoftReset(ctx, goal.ID, resetAt); err != nil {
		return err
	}
	s.event("leo", 0, family.KindReset, "Fresh start at half rate", string(goal.ID), resetAt)

	s.chore("leo", family.ChoreHomework, now.Add(-2*24*time.Hour))
	s.chore("leo", family.ChoreHomework, now.Add(-24*time.Hour))

	return s.err
}
