/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements engine.Store (events, goals, children) plus the progress
  history table used for milestone-crossing detection. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  The events table is an immutable ledger:
  - No UPDATE statements on events
  - No DELETE statements on events
  - Points taken away are new negative events, never edits

GOAL REPLACEMENT:
  Goals are the one table with UPDATE, and only as a whole-record
  replacement (redeem, soft reset, re-priority). A reader never sees a
  partially mutated goal.

KEY TABLES:
  events:             Immutable ledger of signed point entries
  goals:              Goal records (replaced whole on mutation)
  children:           Child records
  progress_snapshots: Periodic evaluation history for charts/milestones

INDEXES:
  - idx_events_child_occurred: The aggregation hot path
  - idx_events_idempotency:    Retry rejection
  - idx_goals_child:           Per-child goal listing in creation order

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/goals.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  tracker := engine.NewTracker(store)

SEE ALSO:
  - engine/store.go: Interface definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/sprouthq/goal-engine/engine"
)

// Store implements engine.Store plus progress history using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Children (entities accumulating points)
	CREATE TABLE IF NOT EXISTS children (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Events (append-only point ledger)
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		occurred_at TEXT NOT NULL,
		goal_id TEXT,
		kind TEXT,
		reason TEXT,
		idempotency_key TEXT UNIQUE,
		created_at TEXT NOT NULL
	);

	-- Aggregation hot path: all of a child's events in time order
	CREATE INDEX IF NOT EXISTS idx_events_child_occurred
		ON events(child_id, occurred_at);
	CREATE INDEX IF NOT EXISTS idx_events_idempotency
		ON events(idempotency_key) WHERE idempotency_key IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_events_goal
		ON events(goal_id) WHERE goal_id IS NOT NULL;

	-- Goals (whole-record replacement only)
	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL,
		name TEXT NOT NULL,
		target INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		window_start TEXT NOT NULL,
		deadline TEXT,
		redeemed BOOLEAN NOT NULL DEFAULT FALSE,
		redeemed_at TEXT,
		frozen_earned INTEGER,
		multiplier TEXT NOT NULL,
		priority INTEGER NOT NULL DEFAULT 0,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_goals_child
		ON goals(child_id);

	-- Progress snapshots (periodic evaluation history)
	CREATE TABLE IF NOT EXISTS progress_snapshots (
		id TEXT PRIMARY KEY,
		goal_id TEXT NOT NULL,
		child_id TEXT NOT NULL,
		taken_at TEXT NOT NULL,
		status TEXT NOT NULL,
		earned INTEGER NOT NULL,
		progress REAL NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_goal_taken
		ON progress_snapshots(goal_id, taken_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset clears all data. Used by the demo scenario loader only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"progress_snapshots", "events", "goals", "children"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// EVENT STORE (engine.EventStore interface)
// =============================================================================

// Append adds an event to the ledger.
func (s *Store) Append(ctx context.Context, e engine.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendEvent(ctx, s.db, e)
}

func (s *Store) appendEvent(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, e engine.Event) error {
	query := `
		INSERT INTO events
		(id, child_id, amount, occurred_at, goal_id, kind, reason, idempotency_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx, query,
		e.ID,
		e.ChildID,
		e.Amount,
		e.OccurredAt.UTC().Format(time.RFC3339Nano),
		nullString(string(e.GoalID)),
		e.Kind,
		e.Reason,
		nullString(e.IdempotencyKey),
		createdAt.Format(time.RFC3339Nano),
	)

	if err != nil {
		if isIdempotencyKeyConflict(err) {
			return engine.ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

// AppendBatch adds multiple events atomically.
func (s *Store) AppendBatch(ctx context.Context, events []engine.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check for duplicate idempotency keys within the batch first
	keys := make(map[string]bool)
	for _, e := range events {
		if e.IdempotencyKey != "" {
			if keys[e.IdempotencyKey] {
				return engine.ErrDuplicateIdempotencyKey
			}
			keys[e.IdempotencyKey] = true
		}
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, e := range events {
		if err := s.appendEvent(ctx, sqlTx, e); err != nil {
			return err
		}
	}

	return sqlTx.Commit()
}

// Events returns all events for a child, chronologically.
func (s *Store) Events(ctx context.Context, childID engine.ChildID) ([]engine.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, child_id, amount, occurred_at, goal_id, kind, reason, idempotency_key, created_at
		FROM events
		WHERE child_id = ?
		ORDER BY occurred_at ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []engine.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// Exists checks if an idempotency key exists.
func (s *Store) Exists(ctx context.Context, idempotencyKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events WHERE idempotency_key = ?",
		idempotencyKey,
	).Scan(&count)

	return count > 0, err
}

func scanEvent(rows *sql.Rows) (engine.Event, error) {
	var (
		e              engine.Event
		occurredAt     string
		goalID         sql.NullString
		kind           sql.NullString
		reason         sql.NullString
		idempotencyKey sql.NullString
		createdAt      string
	)

	err := rows.Scan(
		&e.ID, &e.ChildID, &e.Amount, &occurredAt,
		&goalID, &kind, &reason, &idempotencyKey, &createdAt,
	)
	if err != nil {
		return e, fmt.Errorf("failed to scan event: %w", err)
	}

	e.OccurredAt, _ = time.Parse(time.RFC3339Nano, occurredAt)
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	e.GoalID = engine.GoalID(goalID.String)
	e.Kind = kind.String
	e.Reason = reason.String
	e.IdempotencyKey = idempotencyKey.String

	return e, nil
}

// =============================================================================
// GOAL STORE (engine.GoalStore interface)
// =============================================================================

// SaveGoal inserts a new goal record.
func (s *Store) SaveGoal(ctx context.Context, g engine.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO goals
		(id, child_id, name, target, created_at, window_start, deadline,
		 redeemed, redeemed_at, frozen_earned, multiplier, priority, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query, goalArgs(g)...)
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	return nil
}

// ReplaceGoal overwrites an existing goal as a single whole-record write.
func (s *Store) ReplaceGoal(ctx context.Context, g engine.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE goals SET
			child_id = ?, name = ?, target = ?, created_at = ?, window_start = ?,
			deadline = ?, redeemed = ?, redeemed_at = ?, frozen_earned = ?,
			multiplier = ?, priority = ?, notes = ?
		WHERE id = ?
	`

	args := append(goalArgs(g)[1:], g.ID)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to replace goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return engine.ErrGoalNotFound
	}
	return nil
}

// Goal returns a single goal by ID.
func (s *Store) Goal(ctx context.Context, id engine.GoalID) (engine.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, goalSelect+" WHERE id = ?", id)
	if err != nil {
		return engine.Goal{}, fmt.Errorf("failed to query goal: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return engine.Goal{}, err
		}
		return engine.Goal{}, engine.ErrGoalNotFound
	}
	return scanGoal(rows)
}

// GoalsByChild returns a child's goals in creation order. The rowid
// tie-break keeps goals created in the same instant deterministic, which
// primary selection relies on.
func (s *Store) GoalsByChild(ctx context.Context, childID engine.ChildID) ([]engine.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		goalSelect+" WHERE child_id = ? ORDER BY created_at ASC, rowid ASC", childID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []engine.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}

	return goals, rows.Err()
}

// DeleteGoal removes a goal record. The event history is untouched; any
// events tagged to the goal simply stop matching anything.
func (s *Store) DeleteGoal(ctx context.Context, id engine.GoalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return engine.ErrGoalNotFound
	}
	return nil
}

const goalSelect = `
	SELECT id, child_id, name, target, created_at, window_start, deadline,
	       redeemed, redeemed_at, frozen_earned, multiplier, priority, notes
	FROM goals`

func goalArgs(g engine.Goal) []any {
	var deadline, redeemedAt any
	if g.Deadline != nil {
		deadline = g.Deadline.UTC().Format(time.RFC3339Nano)
	}
	if g.RedeemedAt != nil {
		redeemedAt = g.RedeemedAt.UTC().Format(time.RFC3339Nano)
	}
	var frozen any
	if g.FrozenEarned != nil {
		frozen = *g.FrozenEarned
	}

	return []any{
		g.ID,
		g.ChildID,
		g.Name,
		g.Target,
		g.CreatedAt.UTC().Format(time.RFC3339Nano),
		g.WindowStart.UTC().Format(time.RFC3339Nano),
		deadline,
		g.Redeemed,
		redeemedAt,
		frozen,
		g.Multiplier.String(),
		g.Priority,
		g.Notes,
	}
}

func scanGoal(rows *sql.Rows) (engine.Goal, error) {
	var (
		g            engine.Goal
		createdAt    string
		windowStart  string
		deadline     sql.NullString
		redeemedAt   sql.NullString
		frozenEarned sql.NullInt64
		multiplier   string
		notes        sql.NullString
	)

	err := rows.Scan(
		&g.ID, &g.ChildID, &g.Name, &g.Target, &createdAt, &windowStart,
		&deadline, &g.Redeemed, &redeemedAt, &frozenEarned, &multiplier,
		&g.Priority, &notes,
	)
	if err != nil {
		return g, fmt.Errorf("failed to scan goal: %w", err)
	}

	g.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	g.WindowStart, _ = time.Parse(time.RFC3339Nano, windowStart)
	if deadline.Valid {
		t, _ := time.Parse(time.RFC3339Nano, deadline.String)
		g.Deadline = &t
	}
	if redeemedAt.Valid {
		t, _ := time.Parse(time.RFC3339Nano, redeemedAt.String)
		g.RedeemedAt = &t
	}
	if frozenEarned.Valid {
		v := frozenEarned.Int64
		g.FrozenEarned = &v
	}
	g.Multiplier, err = decimal.NewFromString(multiplier)
	if err != nil {
		return g, fmt.Errorf("invalid multiplier %q: %w", multiplier, err)
	}
	g.Notes = notes.String

	return g, nil
}

// =============================================================================
// CHILD STORE (engine.ChildStore interface)
// =============================================================================

// SaveChild inserts or updates a child record.
func (s *Store) SaveChild(ctx context.Context, c engine.Child) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO children (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save child: %w", err)
	}
	return nil
}

// Child returns a child record by ID.
func (s *Store) Child(ctx context.Context, id engine.ChildID) (engine.Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		c         engine.Child
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM children WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &createdAt)
	if err == sql.ErrNoRows {
		return engine.Child{}, engine.ErrChildNotFound
	}
	if err != nil {
		return engine.Child{}, fmt.Errorf("failed to query child: %w", err)
	}

	c.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return c, nil
}

// ListChildren returns all children in creation order.
func (s *Store) ListChildren(ctx context.Context) ([]engine.Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM children ORDER BY created_at ASC, rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	var children []engine.Child
	for rows.Next() {
		var (
			c         engine.Child
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		children = append(children, c)
	}

	return children, rows.Err()
}

// =============================================================================
// PROGRESS SNAPSHOTS - Periodic evaluation history
// =============================================================================

// ProgressSnapshot is one recorded evaluation of a goal, used for charts
// and for detecting milestones crossed between sweeps.
type ProgressSnapshot struct {
	ID       string
	GoalID   engine.GoalID
	ChildID  engine.ChildID
	TakenAt  time.Time
	Status   engine.Status
	Earned   int64
	Progress float64
}

// SaveProgressSnapshot records one evaluation.
func (s *Store) SaveProgressSnapshot(ctx context.Context, snap ProgressSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO progress_snapshots
		(id, goal_id, child_id, taken_at, status, earned, progress, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		snap.ID, snap.GoalID, snap.ChildID,
		snap.TakenAt.UTC().Format(time.RFC3339Nano),
		snap.Status, snap.Earned, snap.Progress,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save progress snapshot: %w", err)
	}
	return nil
}

// LatestProgressSnapshot returns the most recent snapshot for a goal, or
// false when none has been recorded yet.
func (s *Store) LatestProgressSnapshot(ctx context.Context, goalID engine.GoalID) (ProgressSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		snap    ProgressSnapshot
		takenAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, goal_id, child_id, taken_at, status, earned, progress
		FROM progress_snapshots
		WHERE goal_id = ?
		ORDER BY taken_at DESC
		LIMIT 1
	`, goalID).Scan(&snap.ID, &snap.GoalID, &snap.ChildID, &takenAt, &snap.Status, &snap.Earned, &snap.Progress)
	if err == sql.ErrNoRows {
		return ProgressSnapshot{}, false, nil
	}
	if err != nil {
		return ProgressSnapshot{}, false, fmt.Errorf("failed to query progress snapshot: %w", err)
	}

	snap.TakenAt, _ = time.Parse(time.RFC3339Nano, takenAt)
	return snap, true, nil
}

// ProgressHistory returns all snapshots for a goal, oldest first.
func (s *Store) ProgressHistory(ctx context.Context, goalID engine.GoalID) ([]ProgressSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, goal_id, child_id, taken_at, status, earned, progress
		FROM progress_snapshots
		WHERE goal_id = ?
		ORDER BY taken_at ASC
	`, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress history: %w", err)
	}
	defer rows.Close()

	var history []ProgressSnapshot
	for rows.Next() {
		var (
			snap    ProgressSnapshot
			takenAt string
		)
		if err := rows.Scan(&snap.ID, &snap.GoalID, &snap.ChildID, &takenAt, &snap.Status, &snap.Earned, &snap.Progress); err != nil {
			return nil, fmt.Errorf("failed to scan progress snapshot: %w", err)
		}
		snap.TakenAt, _ = time.Parse(time.RFC3339Nano, takenAt)
		history = append(history, snap)
	}

	return history, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isIdempotencyKeyConflict matches only the UNIQUE violation on
// events.idempotency_key. Other UNIQUE violations, such as a duplicate
// client-supplied event id, surface as plain append failures.
func isIdempotencyKeyConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: events.idempotency_key")
}
