/*
Package family provides the household catalog on top of the goal engine.

PURPOSE:
  The engine package is deliberately generic: signed point events, goals,
  windows. This package pins down the family vocabulary that sits on top:
  - Chores a child can do and what each one pays
  - Event kinds so the ledger stays explainable to a parent
  - Goal templates for common rewards (allowance jar, outing, toy)

EVENT KINDS:
  Every ledger event carries a Kind string. Chore completions use the
  "chore:<id>" form so the UI can resolve them back to the catalog entry;
  manual grants and spends use the flat kinds below.

EXAMPLE FLOW:
  1. Parent creates a goal from TemplateToy ("New Lego Set", 60 points)
  2. Child does ChoreDishes twice: two +5 events tagged chore:dishes
  3. Untagged bonus of +10 flows to the primary goal
  4. At 60 earned the goal turns ready and the parent redeems it

SEE ALSO:
  - templates.go: Goal presets built from this catalog
  - factory/: JSON template parsing for stored presets
  - engine/: The evaluation core these types feed
*/
package family

import (
	"strings"
	"time"

	"github.com/sprouthq/goal-engine/engine"
)

// =============================================================================
// EVENT KINDS
// =============================================================================

// Event kinds recorded on ledger events.
const (
	KindBonus      = "bonus"      // Manual parent grant
	KindSpend      = "spend"      // Raw balance spend (candy, screen time)
	KindAdjustment = "adjustment" // Correction entry
	KindReset      = "reset"      // Marker logged alongside a goal reset

	chorePrefix = "chore:"
)

// ChoreKind returns the event kind for a completed chore.
func ChoreKind(choreID string) string {
	return chorePrefix + choreID
}

// ChoreIDFromKind extracts the catalog ID from a chore event kind.
// Returns false for non-chore kinds.
func ChoreIDFromKind(kind string) (string, bool) {
	if !strings.HasPrefix(kind, chorePrefix) {
		return "", false
	}
	return strings.TrimPrefix(kind, chorePrefix), true
}

// =============================================================================
// CHORE CATALOG
// =============================================================================

// Chore is a repeatable task with a fixed point value.
type Chore struct {
	ID        string
	Name      string
	Points    int64
	Category  ChoreCategory
	MaxPerDay int // 0 = unlimited
}

// Kind returns the event kind for completions of this chore.
func (c Chore) Kind() string { return ChoreKind(c.ID) }

// Event builds a credit event for one completion of this chore.
// The caller supplies identity and timing; the catalog supplies amount and kind.
func (c Chore) Event(id engine.EventID, childID engine.ChildID, occurredAt time.Time) engine.Event {
	return engine.Event{
		ID:         id,
		ChildID:    childID,
		Amount:     c.Points,
		OccurredAt: occurredAt,
		Kind:       c.Kind(),
		Reason:     c.Name,
	}
}

type ChoreCategory string

const (
	ChoreHousehold ChoreCategory = "household"
	ChoreSchool    ChoreCategory = "school"
	ChorePets      ChoreCategory = "pets"
	ChoreKindness  ChoreCategory = "kindness"
)

// Default catalog. Households override these through the API; the defaults
// keep the demo scenario and tests honest.
var (
	ChoreDishes = Chore{
		ID: "dishes", Name: "Do the Dishes", Points: 5,
		Category: ChoreHousehold, MaxPerDay: 2,
	}
	ChoreTidyRoom = Chore{
		ID: "tidy-room", Name: "Tidy Your Room", Points: 8,
		Category: ChoreHousehold, MaxPerDay: 1,
	}
	ChoreHomework = Chore{
		ID: "homework", Name: "Finish Homework", Points: 10,
		Category: ChoreSchool, MaxPerDay: 1,
	}
	ChoreReading = Chore{
		ID: "reading", Name: "Read for 20 Minutes", Points: 4,
		Category: ChoreSchool, MaxPerDay: 3,
	}
	ChoreWalkDog = Chore{
		ID: "walk-dog", Name: "Walk the Dog", Points: 6,
		Category: ChorePets, MaxPerDay: 2,
	}
	ChoreHelpSibling = Chore{
		ID: "help-sibling", Name: "Help a Sibling", Points: 5,
		Category: ChoreKindness,
	}
)

// Catalog returns the default chore catalog in display order.
func Catalog() []Chore {
	return []Chore{
		ChoreDishes,
		ChoreTidyRoom,
		ChoreHomework,
		ChoreReading,
		ChoreWalkDog,
		ChoreHelpSibling,
	}
}

// ChoreByID looks up a chore in the default catalog.
func ChoreByID(id string) (Chore, bool) {
	for _, c := range Catalog() {
		if c.ID == id {
			return c, true
		}
	}
	return Chore{}, false
}
