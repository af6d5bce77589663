/*
store.go - Persistence interfaces for events, goals, and children

PURPOSE:
  Defines the boundary between the pure engine and whatever durably
  stores its inputs. The engine itself performs no I/O; these interfaces
  are consumed by the Tracker (service.go) and implemented by the SQLite
  store and the in-memory store.

APPEND-ONLY EVENTS:
  The event log has no Update and no Delete. Points taken away are new
  negative events, not edits. Idempotency keys reject duplicate appends
  from retries.

WHOLE-RECORD GOAL REPLACEMENT:
  Goals mutate only through ReplaceGoal with a complete new value
  (redeem, soft reset, re-priority). There is no partial update a reader
  could observe half-applied.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite
  - engine/store: in-memory for tests and dev

SEE ALSO:
  - service.go: The operations layer using these interfaces
*/
package engine

import (
	"context"
	"time"
)

// =============================================================================
// CHILD - The entity accumulating points
// =============================================================================

type Child struct {
	ID        ChildID
	Name      string
	CreatedAt time.Time
}

// =============================================================================
// STORE INTERFACES
// =============================================================================

// EventStore persists the append-only point event log.
type EventStore interface {
	// Append adds an event. Fails if the idempotency key exists.
	// This is the ONLY write operation; events are never edited.
	Append(ctx context.Context, e Event) error

	// AppendBatch adds multiple events atomically.
	AppendBatch(ctx context.Context, events []Event) error

	// Events returns all events for a child, chronologically.
	Events(ctx context.Context, childID ChildID) ([]Event, error)

	// Exists checks whether an idempotency key has been used.
	Exists(ctx context.Context, idempotencyKey string) (bool, error)
}

// GoalStore persists goal records. Mutation is whole-record replacement.
type GoalStore interface {
	// SaveGoal inserts a new goal.
	SaveGoal(ctx context.Context, g Goal) error

	// Goal returns a goal by ID, or ErrGoalNotFound.
	Goal(ctx context.Context, id GoalID) (Goal, error)

	// GoalsByChild returns a child's goals in creation order. Creation
	// order matters: it is the tie-break for primary selection.
	GoalsByChild(ctx context.Context, childID ChildID) ([]Goal, error)

	// ReplaceGoal atomically overwrites an existing goal record.
	ReplaceGoal(ctx context.Context, g Goal) error

	// DeleteGoal removes a goal entirely. The event history stays.
	DeleteGoal(ctx context.Context, id GoalID) error
}

// ChildStore persists child records.
type ChildStore interface {
	SaveChild(ctx context.Context, c Child) error
	Child(ctx context.Context, id ChildID) (Child, error)
	ListChildren(ctx context.Context) ([]Child, error)
}

// Store bundles everything the Tracker needs.
type Store interface {
	EventStore
	GoalStore
	ChildStore
}
