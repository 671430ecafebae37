package runtime

import "github.com/aretw0/advisor/pkg/domain"

// Store owns one session's navigation state and is its only writer.
// It is not safe for concurrent use; hosts serialise access per session.
type Store struct {
	state *domain.State
}

// NewStore wraps state. A nil state starts a fresh session without a brand.
func NewStore(state *domain.State) *Store {
	if state == nil {
		state = domain.NewState("")
	}
	if state.History == nil {
		state.History = []int{}
	}
	return &Store{state: state}
}

// SelectBrand starts the questionnaire of brand from the first page.
func (s *Store) SelectBrand(brand domain.Brand) {
	s.state.Brand = brand
	s.state.CurrentPage = domain.FirstPage
	s.state.History = []int{}
}

// Advance pushes the current page onto the history and moves to target.
// The target is not checked against the graph.
func (s *Store) Advance(target int) {
	s.state.History = append(s.state.History, s.state.CurrentPage)
	s.state.CurrentPage = target
}

// AdvanceButton follows a button's target. Buttons without a target page
// (result-page product codes) do not move the session.
func (s *Store) AdvanceButton(b domain.Button) bool {
	if b.TargetPage == 0 {
		return false
	}
	s.Advance(b.TargetPage)
	return true
}

// GoBack pops the last visited page. It is a no-op on empty history.
func (s *Store) GoBack() bool {
	n := len(s.state.History)
	if n == 0 {
		return false
	}
	s.state.CurrentPage = s.state.History[n-1]
	s.state.History = s.state.History[:n-1]
	return true
}

// CanGoBack reports whether GoBack would move.
func (s *Store) CanGoBack() bool {
	return len(s.state.History) > 0
}

// Reset returns to the brand selector.
func (s *Store) Reset() {
	s.state.Brand = ""
	s.state.CurrentPage = domain.FirstPage
	s.state.History = []int{}
}

// ResetNavigation restarts the questionnaire of the selected brand.
func (s *Store) ResetNavigation() {
	s.state.CurrentPage = domain.FirstPage
	s.state.History = []int{}
}

// State returns a snapshot of the session state.
func (s *Store) State() *domain.State {
	return s.state.Snapshot()
}
