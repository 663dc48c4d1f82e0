package memory

import (
	"context"
	"sync"

	"github.com/pgctour/fantasy-golf/internal/domain/standings"
)

type StandingsRepository struct {
	mu              sync.RWMutex
	entriesBySeason map[string][]standings.Entry
}

func NewStandingsRepository() *StandingsRepository {
	return &StandingsRepository{entriesBySeason: make(map[string][]standings.Entry)}
}

func (r *StandingsRepository) ListBySeason(_ context.Context, seasonID string) ([]standings.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.entriesBySeason[seasonID]
	out := make([]standings.Entry, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *StandingsRepository) ReplaceBySeason(_ context.Context, seasonID string, entries []standings.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]standings.Entry, 0, len(entries))
	for _, item := range entries {
		item.SeasonID = seasonID
		out = append(out, item)
	}
	r.entriesBySeason[seasonID] = out
	return nil
}
