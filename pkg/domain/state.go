package domain

import "time"

// FirstPage is where every questionnaire starts.
const FirstPage = 1

// State is the mutable part of a quiz session.
// The zero Brand means no brand has been selected yet.
type State struct {
	SessionID string `json:"session_id,omitempty"`

	// Brand is the selected brand, empty when unset.
	Brand Brand `json:"brand,omitempty"`

	// CurrentPage is the page number the session is on.
	CurrentPage int `json:"current_page"`

	// History is the stack of previously visited page numbers.
	History []int `json:"history"`

	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewState creates a clean session without a brand.
func NewState(sessionID string) *State {
	return &State{
		SessionID:   sessionID,
		CurrentPage: FirstPage,
		History:     []int{},
	}
}

// HasBrand reports whether a brand has been selected.
func (s *State) HasBrand() bool {
	return s != nil && s.Brand != ""
}

// CanGoBack reports whether there is history to pop.
func (s *State) CanGoBack() bool {
	return s != nil && len(s.History) > 0
}

// Snapshot returns a deep copy of the state.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.History = make([]int, len(s.History))
	copy(next.History, s.History)
	return &next
}
