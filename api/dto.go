/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Child:
    ChildDTO, CreateChildRequest, SnapshotDTO

  Goal:
    GoalDTO, CreateGoalRequest, EvaluationDTO, PriorityRequest

  Events:
    EventDTO, AppendEventRequest

  Templates:
    TemplateDTO (wraps factory.TemplateJSON)

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/template.go: TemplateJSON type
*/
package api

import (
	"time"

	"github.com/sprouthq/goal-engine/engine"
	"github.com/sprouthq/goal-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ChildDTO represents a child in API responses.
type ChildDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateChildRequest is the request to register a child.
type CreateChildRequest struct {
	ID   string `json:"id,omitempty"` // Generated when empty
	Name string `json:"name"`
}

// GoalDTO represents a goal in API responses.
type GoalDTO struct {
	ID           string  `json:"id"`
	ChildID      string  `json:"child_id"`
	Name         string  `json:"name"`
	Target       int64   `json:"target"`
	CreatedAt    string  `json:"created_at"`
	WindowStart  string  `json:"window_start"`
	Deadline     *string `json:"deadline,omitempty"`
	Redeemed     bool    `json:"redeemed"`
	RedeemedAt   *string `json:"redeemed_at,omitempty"`
	FrozenEarned *int64  `json:"frozen_earned,omitempty"`
	Multiplier   string  `json:"multiplier"`
	Priority     int     `json:"priority"`
	Notes        string  `json:"notes,omitempty"`
}

// CreateGoalRequest is the request to create a goal, either from scratch
// or stamped from a template.
type CreateGoalRequest struct {
	ID         string `json:"id,omitempty"`          // Generated when empty
	TemplateID string `json:"template_id,omitempty"` // Preset lookup; overrides the fields below
	Name       string `json:"name,omitempty"`
	Target     int64  `json:"target,omitempty"`
	Deadline   string `json:"deadline,omitempty"` // RFC 3339
	Priority   int    `json:"priority,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// PriorityRequest is the request to reprioritize a goal.
type PriorityRequest struct {
	Priority int `json:"priority"`
}

// EventDTO represents a ledger event.
type EventDTO struct {
	ID             string `json:"id"`
	ChildID        string `json:"child_id"`
	Amount         int64  `json:"amount"`
	OccurredAt     string `json:"occurred_at"`
	GoalID         string `json:"goal_id,omitempty"`
	Kind           string `json:"kind,omitempty"`
	Reason         string `json:"reason,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// AppendEventRequest is the request to record a point event.
type AppendEventRequest struct {
	Amount         int64  `json:"amount"`
	OccurredAt     string `json:"occurred_at,omitempty"` // RFC 3339; defaults to now
	GoalID         string `json:"goal_id,omitempty"`     // Empty means primary attribution
	Kind           string `json:"kind,omitempty"`
	Reason         string `json:"reason,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// EvaluationDTO is the derived view of a goal at a point in time.
type EvaluationDTO struct {
	GoalID            string   `json:"goal_id"`
	Status            string   `json:"status"`
	EarnedPoints      int64    `json:"earned_points"`
	Progress          float64  `json:"progress"`
	Remaining         int64    `json:"remaining"`
	IsPrimary         bool     `json:"is_primary"`
	Milestones        []int64  `json:"milestones,omitempty"`
	MilestonesReached []int64  `json:"milestones_reached,omitempty"`
	NextMilestone     *int64   `json:"next_milestone,omitempty"`
	RequiredPace      *float64 `json:"required_pace,omitempty"` // Points per day
}

// GoalDetailDTO bundles a goal with its current evaluation.
type GoalDetailDTO struct {
	Goal       GoalDTO       `json:"goal"`
	Evaluation EvaluationDTO `json:"evaluation"`
	AsOf       string        `json:"as_of"`
}

// SnapshotDTO is the full per-child view.
type SnapshotDTO struct {
	Child       ChildDTO        `json:"child"`
	Goals       []GoalDTO       `json:"goals"`
	Evaluations []EvaluationDTO `json:"evaluations"`
	RawBalance  int64           `json:"raw_balance"`
	TotalEarned int64           `json:"total_earned"`
	TotalSpent  int64           `json:"total_spent"`
	AsOf        string          `json:"as_of"`
}

// ChoreDTO represents a catalog chore.
type ChoreDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Points    int64  `json:"points"`
	Category  string `json:"category"`
	MaxPerDay int    `json:"max_per_day,omitempty"`
}

// ProgressSnapshotDTO is one point of recorded goal history.
type ProgressSnapshotDTO struct {
	TakenAt  string  `json:"taken_at"`
	Status   string  `json:"status"`
	Earned   int64   `json:"earned"`
	Progress float64 `json:"progress"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toChildDTO(c engine.Child) ChildDTO {
	return ChildDTO{
		ID:        string(c.ID),
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toGoalDTO(g engine.Goal) GoalDTO {
	dto := GoalDTO{
		ID:           string(g.ID),
		ChildID:      string(g.ChildID),
		Name:         g.Name,
		Target:       g.Target,
		CreatedAt:    g.CreatedAt.Format(time.RFC3339),
		WindowStart:  g.WindowStart.Format(time.RFC3339),
		Redeemed:     g.Redeemed,
		FrozenEarned: g.FrozenEarned,
		Multiplier:   g.Multiplier.String(),
		Priority:     g.Priority,
		Notes:        g.Notes,
	}
	if g.Deadline != nil {
		s := g.Deadline.Format(time.RFC3339)
		dto.Deadline = &s
	}
	if g.RedeemedAt != nil {
		s := g.RedeemedAt.Format(time.RFC3339)
		dto.RedeemedAt = &s
	}
	return dto
}

func toGoalDTOs(goals []engine.Goal) []GoalDTO {
	dtos := make([]GoalDTO, len(goals))
	for i, g := range goals {
		dtos[i] = toGoalDTO(g)
	}
	return dtos
}

func toEventDTO(e engine.Event) EventDTO {
	return EventDTO{
		ID:             string(e.ID),
		ChildID:        string(e.ChildID),
		Amount:         e.Amount,
		OccurredAt:     e.OccurredAt.Format(time.RFC3339),
		GoalID:         string(e.GoalID),
		Kind:           e.Kind,
		Reason:         e.Reason,
		IdempotencyKey: e.IdempotencyKey,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
}

// toEvaluationDTO renders an evaluation; the pace field is filled from the
// goal when a deadline makes it meaningful.
func toEvaluationDTO(g engine.Goal, ev engine.Evaluation, now time.Time) EvaluationDTO {
	dto := EvaluationDTO{
		GoalID:            string(ev.GoalID),
		Status:            string(ev.Status),
		EarnedPoints:      ev.EarnedPoints,
		Progress:          ev.Progress,
		Remaining:         ev.Remaining,
		IsPrimary:         ev.IsPrimary,
		Milestones:        ev.Milestones,
		MilestonesReached: ev.MilestonesReached,
		NextMilestone:     ev.NextMilestone,
	}
	if pace, ok := engine.RequiredPace(g, ev.EarnedPoints, now); ok {
		dto.RequiredPace = &pace
	}
	return dto
}

func toProgressSnapshotDTOs(snaps []sqlite.ProgressSnapshot) []ProgressSnapshotDTO {
	dtos := make([]ProgressSnapshotDTO, len(snaps))
	for i, s := range snaps {
		dtos[i] = ProgressSnapshotDTO{
			TakenAt:  s.TakenAt.Format(time.RFC3339),
			Status:   string(s.Status),
			Earned:   s.Earned,
			Progress: s.Progress,
		}
	}
	return dtos
}
