package tournament

import (
	"context"
	"time"
)

type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Tournament, error)
	GetByID(ctx context.Context, tournamentID string) (Tournament, bool, error)
	// GetActive returns the tournament currently being synced, if any.
	GetActive(ctx context.Context) (Tournament, bool, error)
	// GetNextUpcoming returns the upcoming tournament with the earliest start date.
	GetNextUpcoming(ctx context.Context) (Tournament, bool, error)
	UpdateStatus(ctx context.Context, tournamentID, status string) error
	// UpdateLiveState records the round counter and freshness marker for a cycle.
	UpdateLiveState(ctx context.Context, tournamentID string, currentRound int, syncedAt time.Time) error
}
