// Package store provides an in-memory engine.Store for tests and dev.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/sprouthq/goal-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	events      map[engine.ChildID][]engine.Event
	idempotency map[string]bool
	goals       map[engine.GoalID]engine.Goal
	goalOrder   map[engine.ChildID][]engine.GoalID // creation order per child
	children    map[engine.ChildID]engine.Child
	childOrder  []engine.ChildID
}

func NewMemory() *Memory {
	return &Memory{
		events:      make(map[engine.ChildID][]engine.Event),
		idempotency: make(map[string]bool),
		goals:       make(map[engine.GoalID]engine.Goal),
		goalOrder:   make(map[engine.ChildID][]engine.GoalID),
		children:    make(map[engine.ChildID]engine.Child),
	}
}

var _ engine.Store = (*Memory)(nil)

// =============================================================================
// EVENT STORE - Append-only
// =============================================================================

// Append adds a single event. Append-only.
func (m *Memory) Append(_ context.Context, e engine.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendLocked(e)
}

// AppendBatch adds multiple events atomically.
func (m *Memory) AppendBatch(_ context.Context, events []engine.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check all idempotency keys first (atomic check)
	for _, e := range events {
		if e.IdempotencyKey != "" && m.idempotency[e.IdempotencyKey] {
			return engine.ErrDuplicateIdempotencyKey
		}
	}

	for _, e := range events {
		if err := m.appendLocked(e); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) appendLocked(e engine.Event) error {
	if e.IdempotencyKey != "" && m.idempotency[e.IdempotencyKey] {
		return engine.ErrDuplicateIdempotencyKey
	}

	evs := m.events[e.ChildID]

	// Binary search for insertion point to keep chronological order.
	i := sort.Search(len(evs), func(i int) bool {
		return evs[i].OccurredAt.After(e.OccurredAt)
	})
	evs = append(evs, engine.Event{})
	copy(evs[i+1:], evs[i:])
	evs[i] = e
	m.events[e.ChildID] = evs

	if e.IdempotencyKey != "" {
		m.idempotency[e.IdempotencyKey] = true
	}
	return nil
}

func (m *Memory) Events(_ context.Context, childID engine.ChildID) ([]engine.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]engine.Event, len(m.events[childID]))
	copy(result, m.events[childID])
	return result, nil
}

func (m *Memory) Exists(_ context.Context, idempotencyKey string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.idempotency[idempotencyKey], nil
}

// =============================================================================
// GOAL STORE - Whole-record replacement only
// =============================================================================

func (m *Memory) SaveGoal(_ context.Context, g engine.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.goals[g.ID]; !ok {
		m.goalOrder[g.ChildID] = append(m.goalOrder[g.ChildID], g.ID)
	}
	m.goals[g.ID] = g
	return nil
}

func (m *Memory) Goal(_ context.Context, id engine.GoalID) (engine.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.goals[id]
	if !ok {
		return engine.Goal{}, engine.ErrGoalNotFound
	}
	return g, nil
}

func (m *Memory) GoalsByChild(_ context.Context, childID engine.ChildID) ([]engine.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.Goal
	for _, id := range m.goalOrder[childID] {
		if g, ok := m.goals[id]; ok {
			result = append(result, g)
		}
	}
	return result, nil
}

func (m *Memory) ReplaceGoal(_ context.Context, g engine.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.goals[g.ID]; !ok {
		return engine.ErrGoalNotFound
	}
	m.goals[g.ID] = g
	return nil
}

func (m *Memory) DeleteGoal(_ context.Context, id engine.GoalID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.goals[id]
	if !ok {
		return engine.ErrGoalNotFound
	}
	delete(m.goals, id)

	order := m.goalOrder[g.ChildID]
	for i, gid := range order {
		if gid == id {
			m.goalOrder[g.ChildID] = append(order[:i], order[i+1:]...)
			break
		}
	}
	return nil
}

// =============================================================================
// CHILD STORE
// =============================================================================

func (m *Memory) SaveChild(_ context.Context, c engine.Child) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.children[c.ID]; !ok {
		m.childOrder = append(m.childOrder, c.ID)
	}
	m.children[c.ID] = c
	return nil
}

func (m *Memory) Child(_ context.Context, id engine.ChildID) (engine.Child, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.children[id]
	if !ok {
		return engine.Child{}, engine.ErrChildNotFound
	}
	return c, nil
}

func (m *Memory) ListChildren(_ context.Context) ([]engine.Child, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]engine.Child, 0, len(m.childOrder))
	for _, id := range m.childOrder {
		result = append(result, m.children[id])
	}
	return result, nil
}
