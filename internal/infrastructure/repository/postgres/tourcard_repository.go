package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pgctour/fantasy-golf/internal/domain/tourcard"
)

type TourCardRepository struct {
	db *sqlx.DB
}

func NewTourCardRepository(db *sqlx.DB) *TourCardRepository {
	return &TourCardRepository{db: db}
}

func (r *TourCardRepository) ListBySeason(ctx context.Context, seasonID string) ([]tourcard.TourCard, error) {
	var rows []tourCardTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM tour_cards WHERE season_id = $1 ORDER BY display_name`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("select tour cards by season: %w", err)
	}

	out := make([]tourcard.TourCard, 0, len(rows))
	for _, row := range rows {
		out = append(out, tourCardFromRow(row))
	}
	return out, nil
}

func (r *TourCardRepository) GetByID(ctx context.Context, tourCardID string) (tourcard.TourCard, bool, error) {
	var row tourCardTableModel
	err := r.db.GetContext(ctx, &row, `SELECT * FROM tour_cards WHERE id = $1`, tourCardID)
	if isNotFound(err) {
		return tourcard.TourCard{}, false, nil
	}
	if err != nil {
		return tourcard.TourCard{}, false, fmt.Errorf("get tour card by id: %w", err)
	}
	return tourCardFromRow(row), true, nil
}

func tourCardFromRow(row tourCardTableModel) tourcard.TourCard {
	return tourcard.TourCard{
		ID:          row.ID,
		SeasonID:    row.SeasonID,
		MemberID:    row.MemberID,
		TourID:      row.TourID,
		DisplayName: row.DisplayName,
	}
}
