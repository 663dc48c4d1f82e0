package postgres

import (
	"time"

	"github.com/lib/pq"
)

type entrantTableModel struct {
	TournamentID string         `db:"tournament_id"`
	GolferID     string         `db:"golfer_id"`
	GroupNumber  int            `db:"group_number"`
	TeeTimes     pq.StringArray `db:"tee_times"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
