package tourcard

import "context"

type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]TourCard, error)
	GetByID(ctx context.Context, tourCardID string) (TourCard, bool, error)
}
