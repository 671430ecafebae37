package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPageEnter EventType = "page_enter"
	EventPageLeave EventType = "page_leave"
	EventBack      EventType = "back"
	EventResult    EventType = "result"
	EventReset     EventType = "reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Brand     Brand     `json:"brand"`
}

// PageEvent represents entering, leaving or returning to a page.
type PageEvent struct {
	EventBase
	Page int `json:"page"`
	// From is the page the session came from (0 when there is none).
	From int `json:"from,omitempty"`
	// To is set on page_leave events.
	To int `json:"to,omitempty"`
}

// ResultEvent is emitted when a session reaches a result page.
type ResultEvent struct {
	EventBase
	Page     int      `json:"page"`
	Products []string `json:"products"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnPageEnter func(context.Context, *PageEvent)
	OnPageLeave func(context.Context, *PageEvent)
	OnBack      func(context.Context, *PageEvent)
	OnResult    func(context.Context, *ResultEvent)
	OnReset     func(context.Context, *EventBase)
}
