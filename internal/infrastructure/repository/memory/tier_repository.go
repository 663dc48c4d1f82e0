package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/pgctour/fantasy-golf/internal/domain/tier"
)

type TierRepository struct {
	mu    sync.RWMutex
	tiers []tier.Tier
}

// NewTierRepository seeds from the versioned default tables when no tiers
// are given.
func NewTierRepository(tiers []tier.Tier) *TierRepository {
	if len(tiers) == 0 {
		tiers = tier.DefaultTables()
	}
	out := make([]tier.Tier, 0, len(tiers))
	out = append(out, tiers...)

	return &TierRepository{tiers: out}
}

func (r *TierRepository) List(_ context.Context) ([]tier.Tier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tier.Tier, 0, len(r.tiers))
	out = append(out, r.tiers...)
	return out, nil
}

func (r *TierRepository) GetByName(_ context.Context, name string) (tier.Tier, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.ToLower(strings.TrimSpace(name))
	for _, item := range r.tiers {
		if item.Name == name {
			return item, true, nil
		}
	}
	return tier.Tier{}, false, nil
}
