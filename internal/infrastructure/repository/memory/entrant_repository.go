package memory

import (
	"context"
	"sync"

	"github.com/pgctour/fantasy-golf/internal/domain/entrant"
)

type EntrantRepository struct {
	mu                   sync.RWMutex
	entrantsByTournament map[string][]entrant.Entrant
}

func NewEntrantRepository(entrants []entrant.Entrant) *EntrantRepository {
	entrantsByTournament := make(map[string][]entrant.Entrant)
	for _, item := range entrants {
		entrantsByTournament[item.TournamentID] = append(entrantsByTournament[item.TournamentID], item)
	}

	return &EntrantRepository{entrantsByTournament: entrantsByTournament}
}

func (r *EntrantRepository) ListByTournament(_ context.Context, tournamentID string) ([]entrant.Entrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.entrantsByTournament[tournamentID]
	out := make([]entrant.Entrant, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *EntrantRepository) ReplaceField(_ context.Context, tournamentID string, entrants []entrant.Entrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Carry assigned groups across a field refresh so a late provider update
	// cannot silently wipe a published draw.
	groupByGolferID := make(map[string]int)
	for _, item := range r.entrantsByTournament[tournamentID] {
		if item.Group > 0 {
			groupByGolferID[item.GolferID] = item.Group
		}
	}

	out := make([]entrant.Entrant, 0, len(entrants))
	for _, item := range entrants {
		item.TournamentID = tournamentID
		if item.Group == 0 {
			item.Group = groupByGolferID[item.GolferID]
		}
		out = append(out, item)
	}
	r.entrantsByTournament[tournamentID] = out
	return nil
}

func (r *EntrantRepository) AssignGroups(_ context.Context, tournamentID string, groupByGolferID map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.entrantsByTournament[tournamentID]
	for idx := range items {
		if group, ok := groupByGolferID[items[idx].GolferID]; ok {
			items[idx].Group = group
		}
	}
	r.entrantsByTournament[tournamentID] = items
	return nil
}

func (r *EntrantRepository) HasGroups(_ context.Context, tournamentID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.entrantsByTournament[tournamentID] {
		if item.Group > 0 {
			return true, nil
		}
	}
	return false, nil
}
