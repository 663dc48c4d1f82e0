package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Snapshot is one validated pull from the golf-data provider for a single
// tournament. All three collections are keyed by the provider entrant id;
// an entrant present in one collection but missing from another is a soft
// gap, never an error.
type Snapshot struct {
	ProviderEventID string `validate:"required"`
	EventName       string
	CurrentRound    int `validate:"gte=0,lte=4"`
	EventFinished   bool
	Field           []FieldEntrant  `validate:"dive"`
	Rankings        []RankingEntry  `validate:"dive"`
	LiveStats       []LiveStatEntry `validate:"dive"`
}

// FieldEntrant is a tournament entrant with tee times. Salary columns are
// provider pass-through and irrelevant to scoring.
type FieldEntrant struct {
	ProviderID string `validate:"required"`
	Name       string
	Country    string
	TeeTimes   [4]string
	Salary     int64
}

type RankingEntry struct {
	ProviderID    string `validate:"required"`
	WorldRank     int
	SkillEstimate float64
}

// LiveStatEntry carries one golfer's live scoring state. Nil pointers mean
// "no value this cycle", never zero. Status is empty for a normal numeric
// finish or one of CUT/WD/DQ.
type LiveStatEntry struct {
	ProviderID   string `validate:"required"`
	PositionText string
	Status       string `validate:"omitempty,oneof=CUT WD DQ"`
	Today        *int
	Thru         *int
	Total        *int
	RoundScores  [4]*int
	MakeCut      bool
	TopTen       bool
	Win          bool
}

// SnapshotProvider is the pull-based feed contract. Implementations retry
// transient failures on the next scheduled tick, never in a tight loop.
type SnapshotProvider interface {
	// FetchSnapshot pulls field, rankings and live stats for one event.
	FetchSnapshot(ctx context.Context, providerEventID string) (Snapshot, error)
	// FetchField pulls field and rankings only, for pre-tournament jobs.
	FetchField(ctx context.Context, providerEventID string) (Snapshot, error)
	// FetchRankings pulls the current world rankings for every ranked golfer.
	FetchRankings(ctx context.Context) ([]RankingEntry, error)
}

var snapshotValidator = validator.New()

// Validate rejects a malformed snapshot at the boundary so engine code never
// sees half-shaped data.
func (s Snapshot) Validate() error {
	if err := snapshotValidator.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}

	seen := make(map[string]struct{}, len(s.Field))
	for _, item := range s.Field {
		id := strings.TrimSpace(item.ProviderID)
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate entrant id %q in field", ErrSnapshotInvalid, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

func (s Snapshot) LiveStatsByProviderID() map[string]LiveStatEntry {
	out := make(map[string]LiveStatEntry, len(s.LiveStats))
	for _, item := range s.LiveStats {
		out[item.ProviderID] = item
	}
	return out
}

func (s Snapshot) RankingsByProviderID() map[string]RankingEntry {
	out := make(map[string]RankingEntry, len(s.Rankings))
	for _, item := range s.Rankings {
		out[item.ProviderID] = item
	}
	return out
}
