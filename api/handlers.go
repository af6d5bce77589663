/*
handlers.go - HTTP API handlers for the goal progress engine

PURPOSE:
  Exposes the goal engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Children:
    GET    /api/children                 List all children
    POST   /api/children                 Register a child
    GET    /api/children/{id}            Get child details
    GET    /api/children/{id}/snapshot   Goals + evaluations + raw balance
    GET    /api/children/{id}/events     Ledger history
    POST   /api/children/{id}/events     Record a point event
    POST   /api/children/{id}/chores/{choreID}  Record a chore completion

  Goals:
    GET    /api/children/{id}/goals      List goals for a child
    POST   /api/children/{id}/goals      Create goal (inline or from template)
    GET    /api/goals/{id}               Goal + current evaluation
    GET    /api/goals/{id}/history       Recorded progress snapshots
    POST   /api/goals/{id}/redeem        Redeem a ready goal
    POST   /api/goals/{id}/reset         Soft reset (restart window, half rate)
    PUT    /api/goals/{id}/priority      Reprioritize
    DELETE /api/goals/{id}               Remove a goal

  Catalog:
    GET    /api/chores                   Chore catalog
    GET    /api/templates                Goal template presets

  Scenarios:
    GET    /api/scenarios                List demo scenarios
    POST   /api/scenarios/load           Load a demo scenario
    POST   /api/scenarios/reset          Clear the database

TIME:
  Read endpoints accept ?as_of=RFC3339 to evaluate at a chosen instant;
  they default to the server clock. Writes stamp missing occurred_at
  with the server clock.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Child or goal not found
  - 409: Conflict (duplicate idempotency key, already redeemed,
         not ready, expired)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loader
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sprouthq/goal-engine/engine"
	"github.com/sprouthq/goal-engine/factory"
	"github.com/sprouthq/goal-engine/family"
	"github.com/sprouthq/goal-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Tracker *engine.Tracker
	Metrics *Metrics

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:   store,
		Tracker: engine.NewTracker(store),
		Metrics: NewMetrics(),
	}
}

// asOf resolves the evaluation instant for read endpoints.
func asOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

// =============================================================================
// CHILD HANDLERS
// =============================================================================

// ListChildren returns all children.
func (h *Handler) ListChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.Store.ListChildren(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list children", err)
		return
	}

	dtos := make([]ChildDTO, len(children))
	for i, c := range children {
		dtos[i] = toChildDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateChild registers a child.
func (h *Handler) CreateChild(w http.ResponseWriter, r *http.Request) {
	var req CreateChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	child := engine.Child{
		ID:        engine.ChildID(id),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.SaveChild(r.Context(), child); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create child", err)
		return
	}

	writeJSON(w, http.StatusCreated, toChildDTO(child))
}

// GetChild returns a single child.
func (h *Handler) GetChild(w http.ResponseWriter, r *http.Request) {
	child, err := h.Store.Child(r.Context(), engine.ChildID(chi.URLParam(r, "id")))
	if err != nil {
		writeEngineError(w, "Failed to get child", err)
		return
	}
	writeJSON(w, http.StatusOK, toChildDTO(child))
}

// GetSnapshot returns the full derived view for a child.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	now, err := asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of (use RFC 3339)", err)
		return
	}

	snap, err := h.Tracker.Snapshot(r.Context(), engine.ChildID(chi.URLParam(r, "id")), now)
	if err != nil {
		writeEngineError(w, "Failed to build snapshot", err)
		return
	}
	h.Metrics.EvaluationsServed.Add(float64(len(snap.Evaluations)))

	evals := make([]EvaluationDTO, len(snap.Evaluations))
	for i, ev := range snap.Evaluations {
		evals[i] = toEvaluationDTO(snap.Goals[i], ev, now)
	}

	writeJSON(w, http.StatusOK, SnapshotDTO{
		Child:       toChildDTO(snap.Child),
		Goals:       toGoalDTOs(snap.Goals),
		Evaluations: evals,
		RawBalance:  snap.RawBalance,
		TotalEarned: snap.TotalEarned,
		TotalSpent:  snap.TotalSpent,
		AsOf:        now.Format(time.RFC3339),
	})
}

// =============================================================================
// EVENT HANDLERS
// =============================================================================

// ListEvents returns a child's ledger history in chronological order.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	childID := engine.ChildID(chi.URLParam(r, "id"))
	if _, err := h.Store.Child(r.Context(), childID); err != nil {
		writeEngineError(w, "Failed to get child", err)
		return
	}

	events, err := h.Store.Events(r.Context(), childID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events", err)
		return
	}

	dtos := make([]EventDTO, len(events))
	for i, e := range events {
		dtos[i] = toEventDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AppendEvent records a point event for a child.
func (h *Handler) AppendEvent(w http.ResponseWriter, r *http.Request) {
	childID := engine.ChildID(chi.URLParam(r, "id"))

	var req AppendEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Amount == 0 {
		writeError(w, http.StatusBadRequest, "Amount must be non-zero", nil)
		return
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != "" {
		t, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid occurred_at (use RFC 3339)", err)
			return
		}
		occurredAt = t
	}

	ctx := r.Context()
	if _, err := h.Store.Child(ctx, childID); err != nil {
		writeEngineError(w, "Failed to get child", err)
		return
	}
	if req.GoalID != "" {
		if _, err := h.Store.Goal(ctx, engine.GoalID(req.GoalID)); err != nil {
			writeEngineError(w, "Failed to get goal", err)
			return
		}
	}

	event := engine.Event{
		ID:             engine.EventID(uuid.NewString()),
		ChildID:        childID,
		Amount:         req.Amount,
		OccurredAt:     occurredAt,
		GoalID:         engine.GoalID(req.GoalID),
		Kind:           req.Kind,
		Reason:         req.Reason,
		IdempotencyKey: req.IdempotencyKey,
	}

	if err := h.Tracker.AppendEvent(ctx, event); err != nil {
		writeEngineError(w, "Failed to record event", err)
		return
	}
	h.Metrics.EventsAppended.Inc()

	writeJSON(w, http.StatusCreated, toEventDTO(event))
}

// CompleteChore records one completion of a catalog chore.
func (h *Handler) CompleteChore(w http.ResponseWriter, r *http.Request) {
	childID := engine.ChildID(chi.URLParam(r, "id"))
	choreID := chi.URLParam(r, "choreID")

	chore, ok := family.ChoreByID(choreID)
	if !ok {
		writeError(w, http.StatusNotFound, "Chore not found", nil)
		return
	}

	ctx := r.Context()
	if _, err := h.Store.Child(ctx, childID); err != nil {
		writeEngineError(w, "Failed to get child", err)
		return
	}

	event := chore.Event(engine.EventID(uuid.NewString()), childID, time.Now().UTC())
	if err := h.Tracker.AppendEvent(ctx, event); err != nil {
		writeEngineError(w, "Failed to record chore", err)
		return
	}
	h.Metrics.EventsAppended.Inc()

	writeJSON(w, http.StatusCreated, toEventDTO(event))
}

// =============================================================================
// GOAL HANDLERS
// =============================================================================

// ListGoals returns a child's goals in creation order.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	childID := engine.ChildID(chi.URLParam(r, "id"))
	if _, err := h.Store.Child(r.Context(), childID); err != nil {
		writeEngineError(w, "Failed to get child", err)
		return
	}

	goals, err := h.Store.GoalsByChild(r.Context(), childID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list goals", err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalDTOs(goals))
}

// CreateGoal creates a goal for a child, inline or stamped from a preset.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	childID := engine.ChildID(chi.URLParam(r, "id"))

	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if _, err := h.Store.Child(ctx, childID); err != nil {
		writeEngineError(w, "Failed to get child", err)
		return
	}

	id := engine.GoalID(req.ID)
	if id == "" {
		id = engine.GoalID(uuid.NewString())
	}
	now := time.Now().UTC()

	var goal engine.Goal
	if req.TemplateID != "" {
		tmpl, ok := family.TemplateByID(req.TemplateID)
		if !ok {
			writeError(w, http.StatusNotFound, "Template not found", nil)
			return
		}
		goal = tmpl.Build(id, childID, now)
	} else {
		if req.Name == "" || req.Target <= 0 {
			writeError(w, http.StatusBadRequest, "Name and a positive target are required", nil)
			return
		}
		goal = engine.NewGoal(id, childID, req.Name, req.Target, now)
		goal.Priority = req.Priority
		goal.Notes = req.Notes
		if req.Deadline != "" {
			deadline, err := time.Parse(time.RFC3339, req.Deadline)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid deadline (use RFC 3339)", err)
				return
			}
			if !deadline.After(now) {
				writeError(w, http.StatusBadRequest, "Deadline must be in the future", nil)
				return
			}
			goal.Deadline = &deadline
		}
	}

	if err := h.Store.SaveGoal(ctx, goal); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create goal", err)
		return
	}

	writeJSON(w, http.StatusCreated, toGoalDTO(goal))
}

// GetGoal returns a goal together with its current evaluation.
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	now, err := asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of (use RFC 3339)", err)
		return
	}

	goal, eval, err := h.Tracker.EvaluateGoal(r.Context(), engine.GoalID(chi.URLParam(r, "id")), now)
	if err != nil {
		writeEngineError(w, "Failed to evaluate goal", err)
		return
	}
	h.Metrics.EvaluationsServed.Inc()

	writeJSON(w, http.StatusOK, GoalDetailDTO{
		Goal:       toGoalDTO(goal),
		Evaluation: toEvaluationDTO(goal, eval, now),
		AsOf:       now.Format(time.RFC3339),
	})
}

// GetGoalHistory returns recorded progress snapshots, oldest first.
func (h *Handler) GetGoalHistory(w http.ResponseWriter, r *http.Request) {
	goalID := engine.GoalID(chi.URLParam(r, "id"))
	if _, err := h.Store.Goal(r.Context(), goalID); err != nil {
		writeEngineError(w, "Failed to get goal", err)
		return
	}

	snaps, err := h.Store.ProgressHistory(r.Context(), goalID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load history", err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressSnapshotDTOs(snaps))
}

// RedeemGoal redeems a ready goal and freezes its earned points.
func (h *Handler) RedeemGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.Tracker.Redeem(r.Context(), engine.GoalID(chi.URLParam(r, "id")), time.Now().UTC())
	if err != nil {
		writeEngineError(w, "Failed to redeem goal", err)
		return
	}
	h.Metrics.Redemptions.Inc()

	writeJSON(w, http.StatusOK, toGoalDTO(goal))
}

// ResetGoal restarts a goal's earning window at half rate.
func (h *Handler) ResetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.Tracker.SoftReset(r.Context(), engine.GoalID(chi.URLParam(r, "id")), time.Now().UTC())
	if err != nil {
		writeEngineError(w, "Failed to reset goal", err)
		return
	}
	h.Metrics.SoftResets.Inc()

	writeJSON(w, http.StatusOK, toGoalDTO(goal))
}

// SetPriority reprioritizes a goal.
func (h *Handler) SetPriority(w http.ResponseWriter, r *http.Request) {
	var req PriorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	goal, err := h.Tracker.SetPriority(r.Context(), engine.GoalID(chi.URLParam(r, "id")), req.Priority)
	if err != nil {
		writeEngineError(w, "Failed to set priority", err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalDTO(goal))
}

// DeleteGoal removes a goal. The ledger keeps any events tagged to it.
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteGoal(r.Context(), engine.GoalID(chi.URLParam(r, "id"))); err != nil {
		writeEngineError(w, "Failed to delete goal", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListChores returns the chore catalog.
func (h *Handler) ListChores(w http.ResponseWriter, r *http.Request) {
	catalog := family.Catalog()
	dtos := make([]ChoreDTO, len(catalog))
	for i, c := range catalog {
		dtos[i] = ChoreDTO{
			ID:        c.ID,
			Name:      c.Name,
			Points:    c.Points,
			Category:  string(c.Category),
			MaxPerDay: c.MaxPerDay,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListTemplates returns the goal template presets in their JSON form.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates := family.Templates()
	dtos := make([]factory.TemplateJSON, len(templates))
	for i, t := range templates {
		dtos[i] = factory.ToJSON(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps domain errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, engine.ErrDuplicateIdempotencyKey),
		errors.Is(err, engine.ErrAlreadyRedeemed),
		errors.Is(err, engine.ErrGoalNotReady),
		errors.Is(err, engine.ErrGoalExpired):
		writeError(w, http.StatusConflict, message, err)
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
