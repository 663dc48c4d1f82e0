package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/pgctour/fantasy-golf/internal/domain/team"
)

type TeamRepository struct {
	mu                sync.RWMutex
	teamsByTournament map[string][]team.Team
	// seasonByTournament lets ListBySeason resolve teams without reaching
	// into the tournament repository.
	seasonByTournament map[string]string
}

func NewTeamRepository(teams []team.Team, seasonByTournament map[string]string) *TeamRepository {
	teamsByTournament := make(map[string][]team.Team)
	for _, item := range teams {
		teamsByTournament[item.TournamentID] = append(teamsByTournament[item.TournamentID], item)
	}
	if seasonByTournament == nil {
		seasonByTournament = make(map[string]string)
	}

	return &TeamRepository{
		teamsByTournament:  teamsByTournament,
		seasonByTournament: seasonByTournament,
	}
}

func (r *TeamRepository) ListByTournament(_ context.Context, tournamentID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.teamsByTournament[tournamentID]
	out := make([]team.Team, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *TeamRepository) ListBySeason(_ context.Context, seasonID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for tournamentID, items := range r.teamsByTournament {
		if r.seasonByTournament[tournamentID] != seasonID {
			continue
		}
		out = append(out, items...)
	}
	return out, nil
}

func (r *TeamRepository) CountByTournament(_ context.Context, tournamentID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.teamsByTournament[tournamentID]), nil
}

func (r *TeamRepository) UpdateBatch(_ context.Context, teams []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range teams {
		tournamentID := strings.TrimSpace(item.TournamentID)
		teamID := strings.TrimSpace(item.ID)
		if tournamentID == "" || teamID == "" {
			continue
		}

		rows := r.teamsByTournament[tournamentID]
		updated := false
		for idx := range rows {
			if rows[idx].ID == teamID {
				rows[idx] = item
				updated = true
				break
			}
		}
		if !updated {
			rows = append(rows, item)
		}
		r.teamsByTournament[tournamentID] = rows
	}
	return nil
}
