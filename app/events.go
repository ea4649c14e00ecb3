package app

import "time"

// Refresh event types.
const (
	EventRefreshStarted   = "refresh.started"
	EventRefreshCompleted = "refresh.completed"
	EventRefreshFailed    = "refresh.failed"
)

// RefreshEvent reports a step of one refresh run to live listeners.
type RefreshEvent struct {
	Type        string    `json:"type"`
	RunID       string    `json:"runId"`
	Count       int       `json:"count,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// EventPublisher receives refresh events. Publish must not block.
type EventPublisher interface {
	Publish(event RefreshEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(RefreshEvent) {}

// WithEvents sets the publisher notified at the start and end of each run.
func WithEvents(p EventPublisher) RefreshOption {
	return func(s *RefreshService) { s.events = p }
}
