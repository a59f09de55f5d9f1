package post

import (
	"errors"
	"fmt"
	"time"

	"posttracker/internal/pkg/errs"
)

// HistoryEntry records that the post entered Status at time At.
type HistoryEntry struct {
	At     time.Time
	Status Status
}

// History is the append-only, strictly time-ordered list of status changes of
// a post. The first entry is always the creation entry.
type History struct {
	entries []HistoryEntry
}

// NewHistory starts a history with the creation entry.
func NewHistory(createdAt time.Time) History {
	return History{entries: []HistoryEntry{{At: createdAt, Status: Created}}}
}

// RestoreHistory rebuilds a history loaded from persistence and checks its
// invariants: non-empty, starts with Created, strictly increasing timestamps
// and valid statuses.
func RestoreHistory(entries []HistoryEntry) (History, error) {
	if len(entries) == 0 {
		return History{}, errs.NewValueIsRequiredError("history")
	}
	if entries[0].Status != Created {
		return History{}, errs.NewValueIsInvalidErrorWithCause(
			"history",
			fmt.Errorf("first entry is %s, expected %s", entries[0].Status, Created),
		)
	}

	for i, entry := range entries {
		if err := entry.Status.Validate(); err != nil {
			return History{}, err
		}
		if i > 0 && !entry.At.After(entries[i-1].At) {
			return History{}, errs.NewValueIsInvalidErrorWithCause(
				"history",
				errors.New("entries are not in strictly increasing time order"),
			)
		}
	}

	copied := make([]HistoryEntry, len(entries))
	copy(copied, entries)
	return History{entries: copied}, nil
}

// Entries returns a copy of the entries in chronological order.
func (h History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h History) Len() int {
	return len(h.entries)
}

// Last returns the most recent entry.
func (h History) Last() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// append adds an entry and returns the timestamp actually recorded. A
// timestamp that is not after the previous entry is moved one microsecond past
// it so that ordering stays strict even under coarse clocks.
func (h *History) append(at time.Time, status Status) time.Time {
	if last, ok := h.Last(); ok && !at.After(last.At) {
		at = last.At.Add(time.Microsecond)
	}
	h.entries = append(h.entries, HistoryEntry{At: at, Status: status})
	return at
}
