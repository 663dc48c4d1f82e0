package postgres

import "time"

type jobDispatchInsertModel struct {
	DispatchID   string     `db:"dispatch_id"`
	JobName      string     `db:"job_name"`
	JobPath      string     `db:"job_path"`
	TournamentID string     `db:"tournament_id"`
	Payload      string     `db:"payload"`
	Status       string     `db:"status"`
	LastError    *string    `db:"last_error"`
	SentAt       *time.Time `db:"sent_at"`
	CompletedAt  *time.Time `db:"completed_at"`
	FailedAt     *time.Time `db:"failed_at"`
	TraceID      *string    `db:"trace_id"`
	SpanID       *string    `db:"span_id"`
}
