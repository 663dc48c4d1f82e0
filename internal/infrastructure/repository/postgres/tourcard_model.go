package postgres

import "time"

type tourCardTableModel struct {
	ID          string    `db:"id"`
	SeasonID    string    `db:"season_id"`
	MemberID    string    `db:"member_id"`
	TourID      string    `db:"tour_id"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
