package domain

// StateDiff represents the changes between two states.
// It is serialized to JSON for partial updates on streaming clients.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Brand       *Brand        `json:"brand,omitempty"`
	CurrentPage *int          `json:"current_page,omitempty"`
	History     *HistoryDelta `json:"history,omitempty"`
}

// HistoryDelta describes how the history stack moved.
// A rewrite (e.g. a reset) is reported as Popped == old length plus the new items.
type HistoryDelta struct {
	Appended []int `json:"appended,omitempty"`
	Popped   int   `json:"popped,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{SessionID: newState.SessionID}

	if oldState == nil || oldState.Brand != newState.Brand {
		b := newState.Brand
		diff.Brand = &b
	}
	if oldState == nil || oldState.CurrentPage != newState.CurrentPage {
		p := newState.CurrentPage
		diff.CurrentPage = &p
	}
	diff.History = diffHistory(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffHistory(old, new *State) *HistoryDelta {
	if old == nil {
		if len(new.History) == 0 {
			return nil
		}
		return &HistoryDelta{Appended: append([]int(nil), new.History...)}
	}

	// Length of the common prefix.
	common := 0
	for common < len(old.History) && common < len(new.History) && old.History[common] == new.History[common] {
		common++
	}

	popped := len(old.History) - common
	var appended []int
	if len(new.History) > common {
		appended = append([]int(nil), new.History[common:]...)
	}
	if popped == 0 && len(appended) == 0 {
		return nil
	}
	return &HistoryDelta{Appended: appended, Popped: popped}
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Brand == nil && d.CurrentPage == nil && d.History == nil
}
