package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pgctour/fantasy-golf/internal/domain/golfer"
)

type GolferRepository struct {
	db *sqlx.DB
}

func NewGolferRepository(db *sqlx.DB) *GolferRepository {
	return &GolferRepository{db: db}
}

func (r *GolferRepository) List(ctx context.Context) ([]golfer.Golfer, error) {
	var rows []golferTableModel
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM golfers ORDER BY name`); err != nil {
		return nil, fmt.Errorf("select golfers: %w", err)
	}

	out := make([]golfer.Golfer, 0, len(rows))
	for _, row := range rows {
		out = append(out, golferFromRow(row))
	}
	return out, nil
}

func (r *GolferRepository) GetByID(ctx context.Context, golferID string) (golfer.Golfer, bool, error) {
	var row golferTableModel
	err := r.db.GetContext(ctx, &row, `SELECT * FROM golfers WHERE id = $1`, golferID)
	if isNotFound(err) {
		return golfer.Golfer{}, false, nil
	}
	if err != nil {
		return golfer.Golfer{}, false, fmt.Errorf("get golfer by id: %w", err)
	}
	return golferFromRow(row), true, nil
}

func (r *GolferRepository) GetByProviderID(ctx context.Context, providerID string) (golfer.Golfer, bool, error) {
	var row golferTableModel
	err := r.db.GetContext(ctx, &row, `SELECT * FROM golfers WHERE provider_id = $1`, providerID)
	if isNotFound(err) {
		return golfer.Golfer{}, false, nil
	}
	if err != nil {
		return golfer.Golfer{}, false, fmt.Errorf("get golfer by provider id: %w", err)
	}
	return golferFromRow(row), true, nil
}

func (r *GolferRepository) Upsert(ctx context.Context, golfers []golfer.Golfer) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert golfers: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `INSERT INTO golfers (id, provider_id, name, country, world_rank, skill_estimate)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (provider_id)
DO UPDATE SET
    name = EXCLUDED.name,
    country = EXCLUDED.country,
    updated_at = NOW()`

	for _, item := range golfers {
		if strings.TrimSpace(item.ProviderID) == "" {
			continue
		}
		_, err := tx.ExecContext(ctx, query,
			item.ID, item.ProviderID, item.Name, item.Country,
			intPtrToNullInt64(item.WorldRank), floatPtrToNullFloat64(item.SkillEstimate))
		if err != nil {
			return fmt.Errorf("upsert golfer provider_id=%s: %w", item.ProviderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert golfers tx: %w", err)
	}
	return nil
}

func (r *GolferRepository) UpsertRankings(ctx context.Context, golfers []golfer.Golfer) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert golfer rankings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `UPDATE golfers SET world_rank = $2, skill_estimate = $3, updated_at = NOW() WHERE id = $1`

	for _, item := range golfers {
		if strings.TrimSpace(item.ID) == "" {
			continue
		}
		_, err := tx.ExecContext(ctx, query,
			item.ID, intPtrToNullInt64(item.WorldRank), floatPtrToNullFloat64(item.SkillEstimate))
		if err != nil {
			return fmt.Errorf("upsert golfer ranking id=%s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert golfer rankings tx: %w", err)
	}
	return nil
}

func golferFromRow(row golferTableModel) golfer.Golfer {
	return golfer.Golfer{
		ID:            row.ID,
		ProviderID:    row.ProviderID,
		Name:          row.Name,
		Country:       row.Country,
		WorldRank:     nullInt64ToIntPtr(row.WorldRank),
		SkillEstimate: nullFloat64ToFloatPtr(row.SkillEstimate),
	}
}
