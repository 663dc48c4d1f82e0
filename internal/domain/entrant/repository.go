package entrant

import "context"

type Repository interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]Entrant, error)
	// ReplaceField swaps the whole entrant field for a tournament.
	ReplaceField(ctx context.Context, tournamentID string, entrants []Entrant) error
	// AssignGroups persists group numbers for the given golfer ids.
	AssignGroups(ctx context.Context, tournamentID string, groupByGolferID map[string]int) error
	// HasGroups reports whether any entrant already carries a group number.
	HasGroups(ctx context.Context, tournamentID string) (bool, error)
}
