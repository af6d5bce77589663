package engine_test

import (
	"reflect"
	"testing"

	"github.com/sprouthq/goal-engine/engine"
)

// =============================================================================
// MILESTONE BANDS
// =============================================================================

func TestMilestones_Bands(t *testing.T) {
	cases := []struct {
		target int64
		want   []int64
	}{
		{-5, nil},
		{0, nil},
		{1, nil},           // target/2 = 0, nothing inside (0, target)
		{6, []int64{3}},
		{10, []int64{5}},
		{11, []int64{2, 5, 8}},
		{16, []int64{4, 8, 12}},
		{20, []int64{5, 10, 15}},
		{22, []int64{5, 10, 15}},
		{30, []int64{5, 10, 15, 20, 25}},
		{100, []int64{25, 50, 75}},
		{1000, []int64{250, 500, 750}},
	}

	for _, c := range cases {
		got := engine.Milestones(c.target)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Milestones(%d) = %v, want %v", c.target, got, c.want)
		}
	}
}

func TestMilestones_AlwaysInsideOpenInterval(t *testing.T) {
	for target := int64(1); target <= 500; target++ {
		prev := int64(0)
		for _, m := range engine.Milestones(target) {
			if m <= 0 || m >= target {
				t.Fatalf("target %d: milestone %d outside (0, target)", target, m)
			}
			if m <= prev {
				t.Fatalf("target %d: milestones not strictly ascending", target)
			}
			prev = m
		}
	}
}

// =============================================================================
// REACHED / NEXT / JUST CROSSED
// =============================================================================

func TestMilestonesReached(t *testing.T) {
	got := engine.MilestonesReached(30, 17)
	want := []int64{5, 10, 15}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNextMilestone(t *testing.T) {
	if m, ok := engine.NextMilestone(30, 17); !ok || m != 20 {
		t.Errorf("expected next 20, got %d (ok=%v)", m, ok)
	}
	if _, ok := engine.NextMilestone(30, 25); ok {
		t.Error("expected no next milestone past the last one")
	}
	if _, ok := engine.NextMilestone(0, 0); ok {
		t.Error("expected no milestones for zero target")
	}
}

func TestJustCrossed(t *testing.T) {
	// Crossing from 4 to 11 passes the 5 milestone first.
	if m, ok := engine.JustCrossed(30, 4, 11); !ok || m != 5 {
		t.Errorf("expected crossed 5, got %d (ok=%v)", m, ok)
	}
	// Landing exactly on a milestone counts as crossing it.
	if m, ok := engine.JustCrossed(30, 4, 5); !ok || m != 5 {
		t.Errorf("expected crossed 5 on exact landing, got %d (ok=%v)", m, ok)
	}
	// A milestone already passed is never re-announced.
	if _, ok := engine.JustCrossed(30, 5, 5); ok {
		t.Error("unchanged earned must not re-announce a milestone")
	}
	if _, ok := engine.JustCrossed(30, 7, 9); ok {
		t.Error("no milestone between 7 and 9")
	}
}
