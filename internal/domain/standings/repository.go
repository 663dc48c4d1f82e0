package standings

import "context"

type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Entry, error)
	// ReplaceBySeason overwrites the whole season table in one transaction.
	ReplaceBySeason(ctx context.Context, seasonID string, entries []Entry) error
}
