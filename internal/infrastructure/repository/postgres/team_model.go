package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type teamTableModel struct {
	ID              string         `db:"id"`
	TournamentID    string         `db:"tournament_id"`
	TourCardID      string         `db:"tour_card_id"`
	DisplayName     string         `db:"display_name"`
	GolferIDs       pq.StringArray `db:"golfer_ids"`
	Round1Score     sql.NullInt64  `db:"round1_score"`
	Round2Score     sql.NullInt64  `db:"round2_score"`
	Round3Score     sql.NullInt64  `db:"round3_score"`
	Round4Score     sql.NullInt64  `db:"round4_score"`
	Today           sql.NullInt64  `db:"today"`
	Thru            sql.NullInt64  `db:"thru"`
	TotalScoreToPar sql.NullInt64  `db:"total_score_to_par"`
	Position        string         `db:"position"`
	PastPosition    string         `db:"past_position"`
	Points          int            `db:"points"`
	Earnings        int64          `db:"earnings"`
	MakeCut         bool           `db:"make_cut"`
	TopTen          bool           `db:"top_ten"`
	Win             bool           `db:"win"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}
