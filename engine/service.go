/*
service.go - Tracker: the operations layer over a Store

PURPOSE:
  The Tracker is the bridge between the pure engine functions and a
  Store. It loads snapshots, runs evaluations, and performs the three
  explicit goal mutations — redeem, soft reset, re-priority — as single
  whole-record replacements.

ATOMIC REDEMPTION:
  Redeem computes earned points and freezes them in the same step as
  setting Redeemed, so the frozen figure always equals what the status
  resolver last saw. The engine never flips Redeemed on its own; this is
  the one place the flip happens.

TIME IS A PARAMETER:
  Every operation takes "now" from the caller rather than reading a
  system clock, keeping behavior testable and deterministic.
*/
package engine

import (
	"context"
	"time"
)

// =============================================================================
// TRACKER
// =============================================================================

// Tracker performs goal operations against a Store.
type Tracker struct {
	Store Store
}

func NewTracker(store Store) *Tracker {
	return &Tracker{Store: store}
}

// =============================================================================
// EVENTS
// =============================================================================

// AppendEvent adds a point event to the child's log. Duplicate
// idempotency keys are rejected before the write.
func (t *Tracker) AppendEvent(ctx context.Context, e Event) error {
	if e.IdempotencyKey != "" {
		exists, err := t.Store.Exists(ctx, e.IdempotencyKey)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateIdempotencyKey
		}
	}
	return t.Store.Append(ctx, e)
}

// =============================================================================
// EVALUATION
// =============================================================================

// ChildSnapshot is one consistent read of a child's goals and events,
// evaluated at a single instant.
type ChildSnapshot struct {
	Child       Child
	Goals       []Goal
	Evaluations []Evaluation
	RawBalance  int64
	TotalEarned int64
	TotalSpent  int64
}

// Snapshot loads a child's goals and events and evaluates everything at
// "now". Goals come back in creation order with their evaluations
// aligned index-for-index.
func (t *Tracker) Snapshot(ctx context.Context, childID ChildID, now time.Time) (*ChildSnapshot, error) {
	child, err := t.Store.Child(ctx, childID)
	if err != nil {
		return nil, err
	}
	goals, err := t.Store.GoalsByChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	events, err := t.Store.Events(ctx, childID)
	if err != nil {
		return nil, err
	}

	return &ChildSnapshot{
		Child:       child,
		Goals:       goals,
		Evaluations: EvaluateChild(goals, events, now),
		RawBalance:  RawBalance(childID, events),
		TotalEarned: TotalEarned(childID, events),
		TotalSpent:  TotalSpent(childID, events),
	}, nil
}

// EvaluateGoal evaluates a single goal, resolving primary-ness against
// the child's other goals.
func (t *Tracker) EvaluateGoal(ctx context.Context, goalID GoalID, now time.Time) (Goal, Evaluation, error) {
	g, err := t.Store.Goal(ctx, goalID)
	if err != nil {
		return Goal{}, Evaluation{}, err
	}
	goals, err := t.Store.GoalsByChild(ctx, g.ChildID)
	if err != nil {
		return Goal{}, Evaluation{}, err
	}
	events, err := t.Store.Events(ctx, g.ChildID)
	if err != nil {
		return Goal{}, Evaluation{}, err
	}

	primary, hasPrimary := PrimaryGoal(goals, now)
	isPrimary := hasPrimary && primary.ID == g.ID
	return g, Evaluate(g, events, isPrimary, now), nil
}

// =============================================================================
// MUTATIONS - Redeem, soft reset, re-priority
// =============================================================================

// Redeem completes a goal: it verifies the goal is redeemable, freezes
// the earned points computed this instant, and replaces the record. The
// returned goal is the persisted value.
func (t *Tracker) Redeem(ctx context.Context, goalID GoalID, now time.Time) (Goal, error) {
	g, eval, err := t.EvaluateGoal(ctx, goalID, now)
	if err != nil {
		return Goal{}, err
	}

	switch eval.Status {
	case StatusCompleted:
		return Goal{}, ErrAlreadyRedeemed
	case StatusExpired:
		return Goal{}, ErrGoalExpired
	case StatusReadyToRedeem:
		// fall through
	default:
		return Goal{}, &NotReadyError{GoalID: g.ID, Earned: eval.EarnedPoints, Target: g.Target}
	}

	redeemed := g.Redeem(eval.EarnedPoints, now)
	if err := t.Store.ReplaceGoal(ctx, redeemed); err != nil {
		return Goal{}, err
	}
	return redeemed, nil
}

// SoftReset forgives a goal: multiplier halved, window restarted at now,
// deadline cleared. A completed goal cannot be reset — redemption is
// irreversible.
func (t *Tracker) SoftReset(ctx context.Context, goalID GoalID, now time.Time) (Goal, error) {
	g, err := t.Store.Goal(ctx, goalID)
	if err != nil {
		return Goal{}, err
	}
	if g.Redeemed {
		return Goal{}, ErrAlreadyRedeemed
	}

	reset := g.SoftReset(now)
	if err := t.Store.ReplaceGoal(ctx, reset); err != nil {
		return Goal{}, err
	}
	return reset, nil
}

// SetPriority changes which goal the child's untagged events default to.
// Lower sorts first; the lowest non-terminal goal is primary.
func (t *Tracker) SetPriority(ctx context.Context, goalID GoalID, priority int) (Goal, error) {
	g, err := t.Store.Goal(ctx, goalID)
	if err != nil {
		return Goal{}, err
	}

	updated := g.WithPriority(priority)
	if err := t.Store.ReplaceGoal(ctx, updated); err != nil {
		return Goal{}, err
	}
	return updated, nil
}
