package jobdispatch

import "time"

const (
	StatusSent      = "sent"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Event is an audit row for one enqueued (or failed-to-enqueue) job trigger.
type Event struct {
	DispatchID   string
	JobName      string
	JobPath      string
	TournamentID string
	Status       string
	Payload      map[string]any
	ErrorMessage string
	TraceID      string
	SpanID       string
	OccurredAt   time.Time
}
