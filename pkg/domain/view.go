package domain

// Phase is the state machine position of a session.
type Phase string

const (
	PhaseNoBrand  Phase = "no_brand"
	PhaseAtPage   Phase = "at_page"
	PhaseAtResult Phase = "at_result"
	// PhaseNotFound means the current page number has no page in the graph.
	PhaseNotFound Phase = "not_found"
)

// View is what a host needs to render the current step.
type View struct {
	SessionID   string    `json:"session_id,omitempty"`
	Brand       Brand     `json:"brand,omitempty"`
	Phase       Phase     `json:"phase"`
	CurrentPage int       `json:"current_page"`
	Page        *Page     `json:"page,omitempty"`
	IsResult    bool      `json:"is_result"`
	Progress    int       `json:"progress"`
	TotalPages  int       `json:"total_pages"`
	CanGoBack   bool      `json:"can_go_back"`
	History     []int     `json:"history"`
	Products    []Product `json:"products,omitempty"`
}
