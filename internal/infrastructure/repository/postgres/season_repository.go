package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pgctour/fantasy-golf/internal/domain/season"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM seasons ORDER BY year`); err != nil {
		return nil, fmt.Errorf("select seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, season.Season{ID: row.ID, Year: row.Year})
	}
	return out, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	var row seasonTableModel
	err := r.db.GetContext(ctx, &row, `SELECT * FROM seasons WHERE id = $1`, seasonID)
	if isNotFound(err) {
		return season.Season{}, false, nil
	}
	if err != nil {
		return season.Season{}, false, fmt.Errorf("get season by id: %w", err)
	}
	return season.Season{ID: row.ID, Year: row.Year}, true, nil
}

func (r *SeasonRepository) GetByYear(ctx context.Context, year int) (season.Season, bool, error) {
	var row seasonTableModel
	err := r.db.GetContext(ctx, &row, `SELECT * FROM seasons WHERE year = $1`, year)
	if isNotFound(err) {
		return season.Season{}, false, nil
	}
	if err != nil {
		return season.Season{}, false, fmt.Errorf("get season by year: %w", err)
	}
	return season.Season{ID: row.ID, Year: row.Year}, true, nil
}
