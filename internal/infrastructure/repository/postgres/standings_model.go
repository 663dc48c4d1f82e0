package postgres

import "time"

type standingsTableModel struct {
	SeasonID       string    `db:"season_id"`
	TourCardID     string    `db:"tour_card_id"`
	DisplayName    string    `db:"display_name"`
	SeasonPoints   int       `db:"season_points"`
	SeasonEarnings int64     `db:"season_earnings"`
	SeasonRank     int       `db:"season_rank"`
	CalculatedAt   time.Time `db:"calculated_at"`
}
