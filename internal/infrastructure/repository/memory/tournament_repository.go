package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
)

type TournamentRepository struct {
	mu          sync.RWMutex
	tournaments []tournament.Tournament
}

func NewTournamentRepository(tournaments []tournament.Tournament) *TournamentRepository {
	out := make([]tournament.Tournament, 0, len(tournaments))
	out = append(out, tournaments...)

	return &TournamentRepository{tournaments: out}
}

func (r *TournamentRepository) ListBySeason(_ context.Context, seasonID string) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.tournaments))
	for _, item := range r.tournaments {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *TournamentRepository) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.tournaments {
		if item.ID == tournamentID {
			return item, true, nil
		}
	}
	return tournament.Tournament{}, false, nil
}

func (r *TournamentRepository) GetActive(_ context.Context) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.tournaments {
		if item.IsActive() {
			return item, true, nil
		}
	}
	return tournament.Tournament{}, false, nil
}

func (r *TournamentRepository) GetNextUpcoming(_ context.Context) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var next tournament.Tournament
	found := false
	for _, item := range r.tournaments {
		if tournament.NormalizeStatus(item.Status) != tournament.StatusUpcoming {
			continue
		}
		if !found || item.StartDate.Before(next.StartDate) {
			next = item
			found = true
		}
	}
	return next, found, nil
}

func (r *TournamentRepository) UpdateStatus(_ context.Context, tournamentID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.tournaments {
		if r.tournaments[idx].ID == tournamentID {
			r.tournaments[idx].Status = tournament.NormalizeStatus(status)
			return nil
		}
	}
	return nil
}

func (r *TournamentRepository) UpdateLiveState(_ context.Context, tournamentID string, currentRound int, syncedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.tournaments {
		if r.tournaments[idx].ID == tournamentID {
			r.tournaments[idx].CurrentRound = currentRound
			at := syncedAt
			r.tournaments[idx].LiveSyncedAt = &at
			return nil
		}
	}
	return nil
}
