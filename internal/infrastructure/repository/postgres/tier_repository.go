package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pgctour/fantasy-golf/internal/domain/tier"
)

type TierRepository struct {
	db *sqlx.DB
}

func NewTierRepository(db *sqlx.DB) *TierRepository {
	return &TierRepository{db: db}
}

func (r *TierRepository) List(ctx context.Context) ([]tier.Tier, error) {
	var rows []tierTableModel
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM tiers ORDER BY name`); err != nil {
		return nil, fmt.Errorf("select tiers: %w", err)
	}

	out := make([]tier.Tier, 0, len(rows))
	for _, row := range rows {
		out = append(out, tierFromRow(row))
	}
	return out, nil
}

func (r *TierRepository) GetByName(ctx context.Context, name string) (tier.Tier, bool, error) {
	var row tierTableModel
	err := r.db.GetContext(ctx, &row, `SELECT * FROM tiers WHERE name = $1`, strings.ToLower(strings.TrimSpace(name)))
	if isNotFound(err) {
		return tier.Tier{}, false, nil
	}
	if err != nil {
		return tier.Tier{}, false, fmt.Errorf("get tier by name: %w", err)
	}
	return tierFromRow(row), true, nil
}

func tierFromRow(row tierTableModel) tier.Tier {
	points := make([]int, 0, len(row.Points))
	for _, value := range row.Points {
		points = append(points, int(value))
	}
	payouts := make([]int64, 0, len(row.Payouts))
	payouts = append(payouts, row.Payouts...)

	return tier.Tier{Name: row.Name, Points: points, Payouts: payouts}
}
