package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) ListBySeason(ctx context.Context, seasonID string) ([]tournament.Tournament, error) {
	var rows []tournamentTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM tournaments WHERE season_id = $1 ORDER BY start_date`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("select tournaments by season: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentFromRow(row))
	}
	return out, nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	var row tournamentTableModel
	err := r.db.GetContext(ctx, &row, `SELECT * FROM tournaments WHERE id = $1`, tournamentID)
	if isNotFound(err) {
		return tournament.Tournament{}, false, nil
	}
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("get tournament by id: %w", err)
	}
	return tournamentFromRow(row), true, nil
}

func (r *TournamentRepository) GetActive(ctx context.Context) (tournament.Tournament, bool, error) {
	var row tournamentTableModel
	err := r.db.GetContext(ctx, &row,
		`SELECT * FROM tournaments WHERE status = $1 ORDER BY start_date LIMIT 1`, tournament.StatusActive)
	if isNotFound(err) {
		return tournament.Tournament{}, false, nil
	}
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("get active tournament: %w", err)
	}
	return tournamentFromRow(row), true, nil
}

func (r *TournamentRepository) GetNextUpcoming(ctx context.Context) (tournament.Tournament, bool, error) {
	var row tournamentTableModel
	err := r.db.GetContext(ctx, &row,
		`SELECT * FROM tournaments WHERE status = $1 ORDER BY start_date LIMIT 1`, tournament.StatusUpcoming)
	if isNotFound(err) {
		return tournament.Tournament{}, false, nil
	}
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("get next upcoming tournament: %w", err)
	}
	return tournamentFromRow(row), true, nil
}

func (r *TournamentRepository) UpdateStatus(ctx context.Context, tournamentID, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tournaments SET status = $2, updated_at = NOW() WHERE id = $1`,
		tournamentID, tournament.NormalizeStatus(status))
	if err != nil {
		return fmt.Errorf("update tournament status id=%s: %w", tournamentID, err)
	}
	return nil
}

func (r *TournamentRepository) UpdateLiveState(ctx context.Context, tournamentID string, currentRound int, syncedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tournaments SET current_round = $2, live_synced_at = $3, updated_at = NOW() WHERE id = $1`,
		tournamentID, currentRound, syncedAt.UTC())
	if err != nil {
		return fmt.Errorf("update tournament live state id=%s: %w", tournamentID, err)
	}
	return nil
}

func tournamentFromRow(row tournamentTableModel) tournament.Tournament {
	return tournament.Tournament{
		ID:           row.ID,
		SeasonID:     row.SeasonID,
		TierName:     row.TierName,
		Name:         row.Name,
		ProviderID:   row.ProviderID,
		StartDate:    row.StartDate,
		EndDate:      row.EndDate,
		Status:       tournament.NormalizeStatus(row.Status),
		CurrentRound: row.CurrentRound,
		CoursePar:    row.CoursePar,
		LiveSyncedAt: nullTimeToTimePtr(row.LiveSyncedAt),
	}
}
