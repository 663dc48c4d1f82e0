package team

import "context"

type Repository interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]Team, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Team, error)
	CountByTournament(ctx context.Context, tournamentID string) (int, error)
	// UpdateBatch applies one sync cycle's team updates as a single logical
	// batch: either every row lands or none do.
	UpdateBatch(ctx context.Context, teams []Team) error
}
