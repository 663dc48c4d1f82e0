package postgres

import (
	"database/sql"
	"time"
)

type tournamentTableModel struct {
	ID           string       `db:"id"`
	SeasonID     string       `db:"season_id"`
	TierName     string       `db:"tier_name"`
	Name         string       `db:"name"`
	ProviderID   string       `db:"provider_id"`
	StartDate    time.Time    `db:"start_date"`
	EndDate      time.Time    `db:"end_date"`
	Status       string       `db:"status"`
	CurrentRound int          `db:"current_round"`
	CoursePar    int          `db:"course_par"`
	LiveSyncedAt sql.NullTime `db:"live_synced_at"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}
