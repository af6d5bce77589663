/*
scheduler.go - Periodic progress snapshot sweep

PURPOSE:
  Records goal progress on a schedule so the UI can chart history and so
  milestone crossings are noticed even when nobody is watching the API.

DESIGN:
  - Runs a background goroutine with a configurable interval
  - Each sweep evaluates every live goal and writes a progress snapshot
  - Compares against the previous snapshot to detect crossed milestones
  - The engine stays schedule-free; all timing lives here

USAGE:
  sweep := NewProgressScheduler(store, handler.Metrics, 15*time.Minute)
  sweep.Start()
  // ... later
  sweep.Stop()

SEE ALSO:
  - store/sqlite: progress_snapshots persistence
  - engine/milestone.go: crossing detection
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sprouthq/goal-engine/engine"
	"github.com/sprouthq/goal-engine/store/sqlite"
)

// ProgressScheduler periodically snapshots every goal's progress.
type ProgressScheduler struct {
	Store    *sqlite.Store
	Metrics  *Metrics
	Interval time.Duration

	tracker *engine.Tracker
	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
}

// NewProgressScheduler creates a sweep over the given store.
func NewProgressScheduler(store *sqlite.Store, metrics *Metrics, interval time.Duration) *ProgressScheduler {
	return &ProgressScheduler{
		Store:    store,
		Metrics:  metrics,
		Interval: interval,
		tracker:  engine.NewTracker(store),
		stop:     make(chan struct{}),
	}
}

// Start begins the sweep. A non-positive interval disables it.
func (ps *ProgressScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.Interval <= 0 {
		log.Println("[Sweep] Disabled, not starting")
		return
	}

	ps.ticker = time.NewTicker(ps.Interval)
	ps.wg.Add(1)
	go ps.run()

	log.Printf("[Sweep] Started with interval: %v", ps.Interval)
}

// Stop stops the sweep.
func (ps *ProgressScheduler) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker != nil {
		ps.ticker.Stop()
		close(ps.stop)
		ps.wg.Wait()
		log.Println("[Sweep] Stopped")
	}
}

func (ps *ProgressScheduler) run() {
	defer ps.wg.Done()

	// Run immediately on start
	ps.RunOnce(context.Background())

	for {
		select {
		case <-ps.ticker.C:
			ps.RunOnce(context.Background())
		case <-ps.stop:
			return
		}
	}
}

// RunOnce sweeps all children now. Exposed for tests and admin use.
func (ps *ProgressScheduler) RunOnce(ctx context.Context) {
	now := time.Now().UTC()

	children, err := ps.Store.ListChildren(ctx)
	if err != nil {
		log.Printf("[Sweep] Error listing children: %v", err)
		return
	}

	recorded := 0
	for _, child := range children {
		snap, err := ps.tracker.Snapshot(ctx, child.ID, now)
		if err != nil {
			log.Printf("[Sweep] Error snapshotting %s: %v", child.ID, err)
			continue
		}

		for i, eval := range snap.Evaluations {
			goal := snap.Goals[i]
			if err := ps.record(ctx, goal, eval, now); err != nil {
				log.Printf("[Sweep] Error recording %s: %v", goal.ID, err)
				continue
			}
			recorded++
		}
	}

	if ps.Metrics != nil {
		ps.Metrics.SnapshotSweepRuns.Inc()
	}
	if recorded > 0 {
		log.Printf("[Sweep] Recorded %d progress snapshots", recorded)
	}
}

// record writes one snapshot and reports milestones crossed since the last.
func (ps *ProgressScheduler) record(ctx context.Context, goal engine.Goal, eval engine.Evaluation, now time.Time) error {
	prev, found, err := ps.Store.LatestProgressSnapshot(ctx, goal.ID)
	if err != nil {
		return err
	}

	var prevEarned int64
	if found {
		prevEarned = prev.Earned
	}

	if crossed, ok := engine.JustCrossed(goal.Target, prevEarned, eval.EarnedPoints); ok {
		log.Printf("[Sweep] %s crossed milestone %d (%d/%d points)",
			goal.ID, crossed, eval.EarnedPoints, goal.Target)
		if ps.Metrics != nil {
			ps.Metrics.MilestonesCrossed.Inc()
		}
	}

	return ps.Store.SaveProgressSnapshot(ctx, sqlite.ProgressSnapshot{
		ID:       uuid.NewString(),
		GoalID:   goal.ID,
		ChildID:  goal.ChildID,
		TakenAt:  now,
		Status:   eval.Status,
		Earned:   eval.EarnedPoints,
		Progress: eval.Progress,
	})
}
