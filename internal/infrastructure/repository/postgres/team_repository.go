package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pgctour/fantasy-golf/internal/domain/team"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]team.Team, error) {
	var rows []teamTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM teams WHERE tournament_id = $1 ORDER BY id`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("select teams by tournament: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) ListBySeason(ctx context.Context, seasonID string) ([]team.Team, error) {
	var rows []teamTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT t.* FROM teams t
JOIN tournaments tr ON tr.id = t.tournament_id
WHERE tr.season_id = $1
ORDER BY t.id`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("select teams by season: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM teams WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("count teams by tournament: %w", err)
	}
	return count, nil
}

// UpdateBatch applies one sync cycle's rows inside a single transaction so a
// partially written cycle never becomes visible to readers.
func (r *TeamRepository) UpdateBatch(ctx context.Context, teams []team.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update teams: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `UPDATE teams SET
    round1_score = $2,
    round2_score = $3,
    round3_score = $4,
    round4_score = $5,
    today = $6,
    thru = $7,
    total_score_to_par = $8,
    position = $9,
    past_position = $10,
    points = $11,
    earnings = $12,
    make_cut = $13,
    top_ten = $14,
    win = $15,
    updated_at = NOW()
WHERE id = $1`

	for _, item := range teams {
		_, err := tx.ExecContext(ctx, query,
			item.ID,
			intPtrToNullInt64(item.RoundScores[0]),
			intPtrToNullInt64(item.RoundScores[1]),
			intPtrToNullInt64(item.RoundScores[2]),
			intPtrToNullInt64(item.RoundScores[3]),
			intPtrToNullInt64(item.Today),
			intPtrToNullInt64(item.Thru),
			intPtrToNullInt64(item.TotalScoreToPar),
			item.Position,
			item.PastPosition,
			item.Points,
			item.Earnings,
			item.MakeCut,
			item.TopTen,
			item.Win,
		)
		if err != nil {
			return fmt.Errorf("update team id=%s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update teams tx: %w", err)
	}
	return nil
}

func teamFromRow(row teamTableModel) team.Team {
	out := team.Team{
		ID:              row.ID,
		TournamentID:    row.TournamentID,
		TourCardID:      row.TourCardID,
		DisplayName:     row.DisplayName,
		GolferIDs:       append([]string(nil), row.GolferIDs...),
		Today:           nullInt64ToIntPtr(row.Today),
		Thru:            nullInt64ToIntPtr(row.Thru),
		TotalScoreToPar: nullInt64ToIntPtr(row.TotalScoreToPar),
		Position:        row.Position,
		PastPosition:    row.PastPosition,
		Points:          row.Points,
		Earnings:        row.Earnings,
		MakeCut:         row.MakeCut,
		TopTen:          row.TopTen,
		Win:             row.Win,
	}
	out.RoundScores[0] = nullInt64ToIntPtr(row.Round1Score)
	out.RoundScores[1] = nullInt64ToIntPtr(row.Round2Score)
	out.RoundScores[2] = nullInt64ToIntPtr(row.Round3Score)
	out.RoundScores[3] = nullInt64ToIntPtr(row.Round4Score)
	return out
}
