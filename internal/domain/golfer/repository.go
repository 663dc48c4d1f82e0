package golfer

import "context"

type Repository interface {
	List(ctx context.Context) ([]Golfer, error)
	GetByID(ctx context.Context, golferID string) (Golfer, bool, error)
	GetByProviderID(ctx context.Context, providerID string) (Golfer, bool, error)
	// Upsert inserts or updates golfers keyed by provider id.
	Upsert(ctx context.Context, golfers []Golfer) error
	// UpsertRankings writes refreshed world rank and skill estimates.
	UpsertRankings(ctx context.Context, golfers []Golfer) error
}
