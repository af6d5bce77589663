package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprouthq/goal-engine/engine"
	"github.com/sprouthq/goal-engine/engine/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestTracker(t *testing.T) *engine.Tracker {
	t.Helper()
	mem := store.NewMemory()
	tracker := engine.NewTracker(mem)

	ctx := context.Background()
	require.NoError(t, mem.SaveChild(ctx, engine.Child{ID: "kid-1", Name: "Maya", CreatedAt: t0}))
	return tracker
}

func saveGoal(t *testing.T, tr *engine.Tracker, g engine.Goal) {
	t.Helper()
	require.NoError(t, tr.Store.SaveGoal(context.Background(), g))
}

func appendCredit(t *testing.T, tr *engine.Tracker, amount int64, occurred time.Time, key string) {
	t.Helper()
	require.NoError(t, tr.AppendEvent(context.Background(), engine.Event{
		ChildID:        "kid-1",
		Amount:         amount,
		OccurredAt:     occurred,
		IdempotencyKey: key,
	}))
}

// =============================================================================
// EVENTS
// =============================================================================

func TestTracker_AppendEvent_RejectsDuplicateKey(t *testing.T) {
	tr := newTestTracker(t)

	appendCredit(t, tr, 5, at(time.Hour), "chore-1")

	err := tr.AppendEvent(context.Background(), engine.Event{
		ChildID: "kid-1", Amount: 5, OccurredAt: at(time.Hour), IdempotencyKey: "chore-1",
	})
	assert.ErrorIs(t, err, engine.ErrDuplicateIdempotencyKey)
}

// =============================================================================
// REDEEM
// =============================================================================

func TestTracker_Redeem_FreezesEarnedPoints(t *testing.T) {
	// GIVEN: A primary goal past its target
	// WHEN: The parent redeems it
	// THEN: The record is replaced with frozen earned points, and later
	//       events never change the reported value

	tr := newTestTracker(t)
	saveGoal(t, tr, newGoal("g1", 10))
	appendCredit(t, tr, 12, at(time.Hour), "e1")

	ctx := context.Background()
	redeemed, err := tr.Redeem(ctx, "g1", at(2*time.Hour))
	require.NoError(t, err)

	assert.True(t, redeemed.Redeemed)
	require.NotNil(t, redeemed.FrozenEarned)
	assert.Equal(t, int64(10), *redeemed.FrozenEarned)
	require.NotNil(t, redeemed.RedeemedAt)

	// Append more points: the completed goal must not move.
	appendCredit(t, tr, 100, at(3*time.Hour), "e2")

	_, eval, err := tr.EvaluateGoal(ctx, "g1", at(4*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, engine.StatusCompleted, eval.Status)
	assert.Equal(t, int64(10), eval.EarnedPoints)
}

func TestTracker_Redeem_NotReady(t *testing.T) {
	tr := newTestTracker(t)
	saveGoal(t, tr, newGoal("g1", 10))
	appendCredit(t, tr, 4, at(time.Hour), "e1")

	_, err := tr.Redeem(context.Background(), "g1", at(2*time.Hour))
	assert.ErrorIs(t, err, engine.ErrGoalNotReady)

	var notReady *engine.NotReadyError
	require.True(t, errors.As(err, &notReady))
	assert.Equal(t, int64(4), notReady.Earned)
	assert.Equal(t, int64(10), notReady.Target)
}

func TestTracker_Redeem_TwiceFails(t *testing.T) {
	tr := newTestTracker(t)
	saveGoal(t, tr, newGoal("g1", 10))
	appendCredit(t, tr, 10, at(time.Hour), "e1")

	ctx := context.Background()
	_, err := tr.Redeem(ctx, "g1", at(2*time.Hour))
	require.NoError(t, err)

	_, err = tr.Redeem(ctx, "g1", at(3*time.Hour))
	assert.ErrorIs(t, err, engine.ErrAlreadyRedeemed)
}

func TestTracker_Redeem_ExpiredGoalFails(t *testing.T) {
	tr := newTestTracker(t)
	saveGoal(t, tr, withDeadline(newGoal("g1", 10), at(time.Hour)))
	appendCredit(t, tr, 12, at(30*time.Minute), "e1")

	_, err := tr.Redeem(context.Background(), "g1", at(2*time.Hour))
	assert.ErrorIs(t, err, engine.ErrGoalExpired)
}

func TestTracker_Redeem_MissingGoal(t *testing.T) {
	tr := newTestTracker(t)

	_, err := tr.Redeem(context.Background(), "nope", at(time.Hour))
	assert.ErrorIs(t, err, engine.ErrGoalNotFound)
	assert.True(t, engine.IsNotFound(err))
}

// =============================================================================
// SOFT RESET
// =============================================================================

func TestTracker_SoftReset_PersistsTheReplacement(t *testing.T) {
	tr := newTestTracker(t)
	saveGoal(t, tr, withDeadline(newGoal("g1", 30), at(24*time.Hour)))
	appendCredit(t, tr, 20, at(time.Hour), "e1")

	ctx := context.Background()
	reset, err := tr.SoftReset(ctx, "g1", at(48*time.Hour))
	require.NoError(t, err)

	assert.Nil(t, reset.Deadline)
	assert.Equal(t, at(48*time.Hour), reset.WindowStart)

	// Old events fall out of the restarted window.
	_, eval, err := tr.EvaluateGoal(ctx, "g1", at(49*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), eval.EarnedPoints)
	assert.Equal(t, engine.StatusActive, eval.Status)

	// New earning is discounted by half.
	appendCredit(t, tr, 10, at(50*time.Hour), "e2")
	_, eval, err = tr.EvaluateGoal(ctx, "g1", at(51*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(5), eval.EarnedPoints)
}

func TestTracker_SoftReset_CompletedGoalFails(t *testing.T) {
	tr := newTestTracker(t)
	saveGoal(t, tr, newGoal("g1", 10))
	appendCredit(t, tr, 10, at(time.Hour), "e1")

	ctx := context.Background()
	_, err := tr.Redeem(ctx, "g1", at(2*time.Hour))
	require.NoError(t, err)

	_, err = tr.SoftReset(ctx, "g1", at(3*time.Hour))
	assert.ErrorIs(t, err, engine.ErrAlreadyRedeemed)
}

// =============================================================================
// PRIORITY + SNAPSHOT
// =============================================================================

func TestTracker_SetPriority_MovesUntaggedAttribution(t *testing.T) {
	// GIVEN: Two goals, g1 primary; the parent promotes g2
	// THEN: Untagged points flow to g2 in the next snapshot

	tr := newTestTracker(t)
	g1 := newGoal("g1", 50)
	g1.Priority = 1
	g2 := newGoal("g2", 50)
	g2.Priority = 2
	saveGoal(t, tr, g1)
	saveGoal(t, tr, g2)

	ctx := context.Background()
	_, err := tr.SetPriority(ctx, "g2", 0)
	require.NoError(t, err)

	appendCredit(t, tr, 10, at(time.Hour), "e1")

	snap, err := tr.Snapshot(ctx, "kid-1", at(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, snap.Evaluations, 2)
	assert.Equal(t, int64(0), snap.Evaluations[0].EarnedPoints)
	assert.Equal(t, int64(10), snap.Evaluations[1].EarnedPoints)
	assert.True(t, snap.Evaluations[1].IsPrimary)
}

func TestTracker_Snapshot_RawBalanceIncludesDebits(t *testing.T) {
	tr := newTestTracker(t)
	saveGoal(t, tr, newGoal("g1", 50))
	appendCredit(t, tr, 20, at(time.Hour), "e1")

	ctx := context.Background()
	require.NoError(t, tr.AppendEvent(ctx, engine.Event{
		ChildID: "kid-1", Amount: -8, OccurredAt: at(2 * time.Hour), IdempotencyKey: "spend-1",
	}))

	snap, err := tr.Snapshot(ctx, "kid-1", at(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(12), snap.RawBalance)
	assert.Equal(t, int64(20), snap.TotalEarned)
	assert.Equal(t, int64(8), snap.TotalSpent)
	// Debits never touch goal progress.
	assert.Equal(t, int64(20), snap.Evaluations[0].EarnedPoints)
}

func TestTracker_Snapshot_MissingChild(t *testing.T) {
	tr := newTestTracker(t)

	_, err := tr.Snapshot(context.Background(), "ghost", at(time.Hour))
	assert.ErrorIs(t, err, engine.ErrChildNotFound)
}
