package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pgctour/fantasy-golf/internal/domain/standings"
)

type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) ListBySeason(ctx context.Context, seasonID string) ([]standings.Entry, error) {
	var rows []standingsTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM season_standings WHERE season_id = $1
ORDER BY season_rank, season_points DESC, season_earnings DESC, display_name`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("select season standings: %w", err)
	}

	out := make([]standings.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, standings.Entry{
			SeasonID:       row.SeasonID,
			TourCardID:     row.TourCardID,
			DisplayName:    row.DisplayName,
			SeasonPoints:   row.SeasonPoints,
			SeasonEarnings: row.SeasonEarnings,
			SeasonRank:     row.SeasonRank,
			CalculatedAt:   row.CalculatedAt,
		})
	}
	return out, nil
}

// ReplaceBySeason overwrites the season table in one transaction; a reader
// never observes a half-written recompute.
func (r *StandingsRepository) ReplaceBySeason(ctx context.Context, seasonID string, entries []standings.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace season standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM season_standings WHERE season_id = $1`, seasonID); err != nil {
		return fmt.Errorf("clear season standings: %w", err)
	}

	const query = `INSERT INTO season_standings
    (season_id, tour_card_id, display_name, season_points, season_earnings, season_rank, calculated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, item := range entries {
		_, err := tx.ExecContext(ctx, query,
			seasonID, item.TourCardID, item.DisplayName,
			item.SeasonPoints, item.SeasonEarnings, item.SeasonRank, item.CalculatedAt.UTC())
		if err != nil {
			return fmt.Errorf("insert season standing tour_card=%s: %w", item.TourCardID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace season standings tx: %w", err)
	}
	return nil
}
