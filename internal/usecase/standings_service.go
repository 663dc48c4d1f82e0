package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pgctour/fantasy-golf/internal/domain/standings"
	"github.com/pgctour/fantasy-golf/internal/domain/team"
	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
	"github.com/pgctour/fantasy-golf/internal/domain/tourcard"
	"github.com/pgctour/fantasy-golf/internal/platform/logging"
	"github.com/pgctour/fantasy-golf/internal/platform/resilience"
)

// StandingsService recomputes the season table from scratch on every run.
// Recompute is a pure function of completed-tournament team results: when a
// run produces the same rows as the stored table it leaves the table alone,
// so running it twice in a row yields byte-identical entries.
type StandingsService struct {
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	tourCardRepo   tourcard.Repository
	standingsRepo  standings.Repository
	logger         *logging.Logger
	now            func() time.Time

	recomputeFlight resilience.SingleFlight
}

func NewStandingsService(
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	tourCardRepo tourcard.Repository,
	standingsRepo standings.Repository,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		tourCardRepo:   tourCardRepo,
		standingsRepo:  standingsRepo,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *StandingsService) ListBySeason(ctx context.Context, seasonID string) ([]standings.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListBySeason")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	items, err := s.standingsRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	return items, nil
}

// Recompute rebuilds the whole season table and overwrites it. Concurrent
// calls for the same season collapse into one run.
func (s *StandingsService) Recompute(ctx context.Context, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Recompute")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	key := "standings:recompute:" + seasonID
	_, err, shared := s.recomputeFlight.Do(key, func() (any, error) {
		return nil, s.recomputeOnce(ctx, seasonID)
	})
	if shared {
		s.logger.DebugContext(ctx, "standings recompute coalesced with in-flight run", "season_id", seasonID)
	}
	return err
}

func (s *StandingsService) recomputeOnce(ctx context.Context, seasonID string) error {
	cards, err := s.tourCardRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("list tour cards for standings: %w", err)
	}
	if len(cards) == 0 {
		return nil
	}

	tournaments, err := s.tournamentRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("list tournaments for standings: %w", err)
	}
	completed := make(map[string]struct{}, len(tournaments))
	for _, item := range tournaments {
		if item.IsCompleted() {
			completed[item.ID] = struct{}{}
		}
	}

	teams, err := s.teamRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("list teams for standings: %w", err)
	}

	pointsByCard := make(map[string]int, len(cards))
	earningsByCard := make(map[string]int64, len(cards))
	for _, item := range teams {
		// Only completed tournaments count; an active tournament's live points
		// never leak into the season table.
		if _, done := completed[item.TournamentID]; !done {
			continue
		}
		pointsByCard[item.TourCardID] += item.Points
		earningsByCard[item.TourCardID] += item.Earnings
	}

	now := s.now().UTC()
	entries := make([]standings.Entry, 0, len(cards))
	for _, card := range cards {
		entries = append(entries, standings.Entry{
			SeasonID:       seasonID,
			TourCardID:     card.ID,
			DisplayName:    card.DisplayName,
			SeasonPoints:   pointsByCard[card.ID],
			SeasonEarnings: earningsByCard[card.ID],
			CalculatedAt:   now,
		})
	}

	RankStandings(entries)

	existing, err := s.standingsRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("list current standings season=%s: %w", seasonID, err)
	}
	if standingsUnchanged(existing, entries) {
		s.logger.DebugContext(ctx, "standings unchanged, keeping stored rows", "season_id", seasonID)
		return nil
	}

	if err := s.standingsRepo.ReplaceBySeason(ctx, seasonID, entries); err != nil {
		return fmt.Errorf("replace standings season=%s: %w", seasonID, err)
	}

	s.logger.InfoContext(ctx, "standings recomputed",
		"season_id", seasonID,
		"entries", len(entries),
		"completed_tournaments", len(completed),
	)
	return nil
}

// standingsUnchanged compares the stored table against a freshly computed one,
// ignoring the calculation timestamps.
func standingsUnchanged(existing, computed []standings.Entry) bool {
	if len(existing) != len(computed) {
		return false
	}
	for idx := range existing {
		left, right := existing[idx], computed[idx]
		left.CalculatedAt, right.CalculatedAt = time.Time{}, time.Time{}
		if left != right {
			return false
		}
	}
	return true
}

// RankStandings sorts entries by points then earnings then name and assigns
// dense ranks: cards with identical points and earnings share a rank and the
// next distinct pair takes the next consecutive rank.
func RankStandings(entries []standings.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].SeasonPoints != entries[j].SeasonPoints {
			return entries[i].SeasonPoints > entries[j].SeasonPoints
		}
		if entries[i].SeasonEarnings != entries[j].SeasonEarnings {
			return entries[i].SeasonEarnings > entries[j].SeasonEarnings
		}
		return entries[i].DisplayName < entries[j].DisplayName
	})

	rank := 0
	lastPoints := 0
	var lastEarnings int64
	for idx := range entries {
		if idx == 0 || entries[idx].SeasonPoints != lastPoints || entries[idx].SeasonEarnings != lastEarnings {
			rank++
			lastPoints = entries[idx].SeasonPoints
			lastEarnings = entries[idx].SeasonEarnings
		}
		entries[idx].SeasonRank = rank
	}
}
