package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgctour/fantasy-golf/internal/domain/entrant"
)

type EntrantRepository struct {
	db *sqlx.DB
}

func NewEntrantRepository(db *sqlx.DB) *EntrantRepository {
	return &EntrantRepository{db: db}
}

func (r *EntrantRepository) ListByTournament(ctx context.Context, tournamentID string) ([]entrant.Entrant, error) {
	var rows []entrantTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM entrants WHERE tournament_id = $1 ORDER BY golfer_id`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("select entrants by tournament: %w", err)
	}

	out := make([]entrant.Entrant, 0, len(rows))
	for _, row := range rows {
		item := entrant.Entrant{
			TournamentID: row.TournamentID,
			GolferID:     row.GolferID,
			Group:        row.GroupNumber,
		}
		for idx := 0; idx < len(item.TeeTimes) && idx < len(row.TeeTimes); idx++ {
			item.TeeTimes[idx] = row.TeeTimes[idx]
		}
		out = append(out, item)
	}
	return out, nil
}

// ReplaceField swaps the tournament's field in one transaction. Group numbers
// already assigned survive the refresh via the upsert's COALESCE so a late
// provider update cannot wipe a published draw.
func (r *EntrantRepository) ReplaceField(ctx context.Context, tournamentID string, entrants []entrant.Entrant) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace field: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	keepIDs := make([]string, 0, len(entrants))
	for _, item := range entrants {
		keepIDs = append(keepIDs, item.GolferID)
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM entrants WHERE tournament_id = $1 AND golfer_id <> ALL($2)`,
		tournamentID, pq.Array(keepIDs))
	if err != nil {
		return fmt.Errorf("clear stale entrants: %w", err)
	}

	const query = `INSERT INTO entrants (tournament_id, golfer_id, group_number, tee_times)
VALUES ($1, $2, $3, $4)
ON CONFLICT (tournament_id, golfer_id)
DO UPDATE SET
    group_number = CASE WHEN entrants.group_number > 0 THEN entrants.group_number ELSE EXCLUDED.group_number END,
    tee_times = EXCLUDED.tee_times,
    updated_at = NOW()`

	for _, item := range entrants {
		teeTimes := make([]string, 0, len(item.TeeTimes))
		teeTimes = append(teeTimes, item.TeeTimes[:]...)
		_, err := tx.ExecContext(ctx, query, tournamentID, item.GolferID, item.Group, pq.Array(teeTimes))
		if err != nil {
			return fmt.Errorf("upsert entrant golfer=%s: %w", item.GolferID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace field tx: %w", err)
	}
	return nil
}

func (r *EntrantRepository) AssignGroups(ctx context.Context, tournamentID string, groupByGolferID map[string]int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx assign groups: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `UPDATE entrants SET group_number = $3, updated_at = NOW()
WHERE tournament_id = $1 AND golfer_id = $2`

	for golferID, group := range groupByGolferID {
		if _, err := tx.ExecContext(ctx, query, tournamentID, golferID, group); err != nil {
			return fmt.Errorf("assign group golfer=%s: %w", golferID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assign groups tx: %w", err)
	}
	return nil
}

func (r *EntrantRepository) HasGroups(ctx context.Context, tournamentID string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM entrants WHERE tournament_id = $1 AND group_number > 0`, tournamentID)
	if err != nil {
		return false, fmt.Errorf("count grouped entrants: %w", err)
	}
	return count > 0, nil
}
