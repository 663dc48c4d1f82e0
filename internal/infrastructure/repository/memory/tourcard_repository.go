package memory

import (
	"context"
	"sync"

	"github.com/pgctour/fantasy-golf/internal/domain/tourcard"
)

type TourCardRepository struct {
	mu    sync.RWMutex
	cards []tourcard.TourCard
}

func NewTourCardRepository(cards []tourcard.TourCard) *TourCardRepository {
	out := make([]tourcard.TourCard, 0, len(cards))
	out = append(out, cards...)

	return &TourCardRepository{cards: out}
}

func (r *TourCardRepository) ListBySeason(_ context.Context, seasonID string) ([]tourcard.TourCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tourcard.TourCard, 0, len(r.cards))
	for _, item := range r.cards {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *TourCardRepository) GetByID(_ context.Context, tourCardID string) (tourcard.TourCard, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.cards {
		if item.ID == tourCardID {
			return item, true, nil
		}
	}
	return tourcard.TourCard{}, false, nil
}
