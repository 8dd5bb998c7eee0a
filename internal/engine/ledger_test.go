package engine

import "testing"

func TestCompleteIsMonotonic(t *testing.T) {
	l := initialLedger()
	l, notices := l.Complete([]string{ObjectiveVow})
	if !l.IsCompleted(ObjectiveVow) {
		t.Fatalf("expected vow completed")
	}
	if len(notices) != 1 || notices[0] != "CHECKPOINT REACHED: The Vow" {
		t.Fatalf("unexpected notices: %v", notices)
	}
	// completing again produces no notice and no change
	l2, notices := l.Complete([]string{ObjectiveVow})
	if len(notices) != 0 {
		t.Fatalf("expected no notices on repeat completion, got %v", notices)
	}
	if !l2.IsCompleted(ObjectiveVow) {
		t.Fatalf("completion must not revert")
	}
}

func TestCompleteIgnoresUnknownIDs(t *testing.T) {
	l := initialLedger()
	before := len(l)
	l, notices := l.Complete([]string{"not_a_checkpoint"})
	if len(notices) != 0 {
		t.Fatalf("unknown id should be silent, got %v", notices)
	}
	if len(l) != before {
		t.Fatalf("ledger length changed: %d -> %d", before, len(l))
	}
}

func TestAddNewForcesIncompleteAndSkipsDuplicates(t *testing.T) {
	l := initialLedger()
	incoming := []Objective{
		{ID: "side_quest", Label: "The Letters", Completed: true},
		{ID: ObjectiveVow, Label: "duplicate of an existing entry"},
		{ID: "", Label: "missing id"},
	}
	l, notices := l.AddNew(incoming)
	if len(notices) != 1 || notices[0] != "NEW OBJECTIVE: The Letters" {
		t.Fatalf("unexpected notices: %v", notices)
	}
	if l.IsCompleted("side_quest") {
		t.Fatalf("incoming objectives must start incomplete")
	}
	// idempotent on replay
	l2, notices := l.AddNew(incoming)
	if len(notices) != 0 || len(l2) != len(l) {
		t.Fatalf("AddNew not idempotent: notices=%v len=%d want %d", notices, len(l2), len(l))
	}
}

func TestLedgerOperationsDoNotMutateReceiver(t *testing.T) {
	l := initialLedger()
	_, _ = l.Complete([]string{ObjectiveVow})
	if l.IsCompleted(ObjectiveVow) {
		t.Fatalf("Complete mutated its receiver")
	}
	_, _ = l.AddNew([]Objective{{ID: "x", Label: "X"}})
	if len(l) != 7 {
		t.Fatalf("AddNew mutated its receiver")
	}
}

func TestFirstIncompleteFollowsLedgerOrder(t *testing.T) {
	l := initialLedger()
	o, ok := l.FirstIncomplete()
	if !ok || o.ID != ObjectiveVow {
		t.Fatalf("expected vow first, got %+v", o)
	}
	l, _ = l.Complete([]string{ObjectiveVow, ObjectiveVisit})
	o, ok = l.FirstIncomplete()
	if !ok || o.ID != ObjectiveSalon {
		t.Fatalf("expected salon next, got %+v", o)
	}
	if l.CompletedCount() != 2 {
		t.Fatalf("expected 2 completed, got %d", l.CompletedCount())
	}
}
