package engine

// Objective is one entry in the checklist the generator and the local rules
// push the session through.
type Objective struct {
	ID          string
	Label       string
	Description string
	Completed   bool
}

// Ledger is the ordered, append-only objective collection. Completion is
// monotonic: once an objective is completed it never reverts. Both mutating
// operations are pure; they return a fresh ledger plus notification lines
// for the caller to surface transiently.
type Ledger []Objective

func (l Ledger) clone() Ledger {
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}

// Complete marks the given ids as completed. Ids absent from the ledger and
// ids already completed are skipped silently.
func (l Ledger) Complete(ids []string) (Ledger, []string) {
	if len(ids) == 0 {
		return l, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := l.clone()
	var notices []string
	for i := range out {
		if want[out[i].ID] && !out[i].Completed {
			out[i].Completed = true
			notices = append(notices, "CHECKPOINT REACHED: "+out[i].Label)
		}
	}
	return out, notices
}

// AddNew appends objectives whose ids are not yet present. Incoming entries
// always start incomplete regardless of what the generator claimed.
// Duplicates are skipped, which makes the operation idempotent.
func (l Ledger) AddNew(objs []Objective) (Ledger, []string) {
	if len(objs) == 0 {
		return l, nil
	}
	seen := make(map[string]bool, len(l))
	for _, o := range l {
		seen[o.ID] = true
	}
	out := l.clone()
	var notices []string
	for _, o := range objs {
		if o.ID == "" || seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		o.Completed = false
		out = append(out, o)
		notices = append(notices, "NEW OBJECTIVE: "+o.Label)
	}
	return out, notices
}

// IsCompleted reports whether the id exists and is completed.
func (l Ledger) IsCompleted(id string) bool {
	for _, o := range l {
		if o.ID == id {
			return o.Completed
		}
	}
	return false
}

// FirstIncomplete returns the earliest objective still open. It is a pure
// query over ledger order, used by the presentation layer for highlighting.
func (l Ledger) FirstIncomplete() (Objective, bool) {
	for _, o := range l {
		if !o.Completed {
			return o, true
		}
	}
	return Objective{}, false
}

// CompletedCount returns how many objectives are done.
func (l Ledger) CompletedCount() int {
	n := 0
	for _, o := range l {
		if o.Completed {
			n++
		}
	}
	return n
}
