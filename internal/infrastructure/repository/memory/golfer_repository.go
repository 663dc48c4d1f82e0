package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/pgctour/fantasy-golf/internal/domain/golfer"
)

type GolferRepository struct {
	mu      sync.RWMutex
	golfers []golfer.Golfer
}

func NewGolferRepository(golfers []golfer.Golfer) *GolferRepository {
	out := make([]golfer.Golfer, 0, len(golfers))
	out = append(out, golfers...)

	return &GolferRepository{golfers: out}
}

func (r *GolferRepository) List(_ context.Context) ([]golfer.Golfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]golfer.Golfer, 0, len(r.golfers))
	out = append(out, r.golfers...)
	return out, nil
}

func (r *GolferRepository) GetByID(_ context.Context, golferID string) (golfer.Golfer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.golfers {
		if item.ID == golferID {
			return item, true, nil
		}
	}
	return golfer.Golfer{}, false, nil
}

func (r *GolferRepository) GetByProviderID(_ context.Context, providerID string) (golfer.Golfer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.golfers {
		if item.ProviderID == providerID {
			return item, true, nil
		}
	}
	return golfer.Golfer{}, false, nil
}

func (r *GolferRepository) Upsert(_ context.Context, golfers []golfer.Golfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range golfers {
		if strings.TrimSpace(item.ProviderID) == "" {
			continue
		}
		updated := false
		for idx := range r.golfers {
			if r.golfers[idx].ProviderID == item.ProviderID {
				// Keep the stored id stable across field refreshes.
				item.ID = r.golfers[idx].ID
				r.golfers[idx] = item
				updated = true
				break
			}
		}
		if !updated {
			r.golfers = append(r.golfers, item)
		}
	}
	return nil
}

func (r *GolferRepository) UpsertRankings(_ context.Context, golfers []golfer.Golfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range golfers {
		for idx := range r.golfers {
			if r.golfers[idx].ID == item.ID {
				r.golfers[idx].WorldRank = item.WorldRank
				r.golfers[idx].SkillEstimate = item.SkillEstimate
				break
			}
		}
	}
	return nil
}
