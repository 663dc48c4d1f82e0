package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pgctour/fantasy-golf/internal/domain/entrant"
	"github.com/pgctour/fantasy-golf/internal/domain/golfer"
	"github.com/pgctour/fantasy-golf/internal/domain/team"
	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
	"github.com/pgctour/fantasy-golf/internal/platform/logging"
)

type GroupingConfig struct {
	// GroupSize is the target number of golfers per pick group.
	GroupSize int
}

func (c GroupingConfig) normalize() GroupingConfig {
	if c.GroupSize <= 0 {
		c.GroupSize = 10
	}
	return c
}

type AssignGroupsInput struct {
	TournamentID string
	// Force reassigns groups that already exist. Refused once picks exist.
	Force bool
}

type AssignGroupsResult struct {
	TournamentID string `json:"tournament_id"`
	Groups       int    `json:"groups"`
	Entrants     int    `json:"entrants"`
	Skipped      bool   `json:"skipped"`
}

// GroupingService partitions a tournament field into balanced pick groups.
// Golfers are ordered by strength and dealt out serpentine style so each
// group carries a comparable spread of favorites and long shots.
type GroupingService struct {
	tournamentRepo tournament.Repository
	entrantRepo    entrant.Repository
	golferRepo     golfer.Repository
	teamRepo       team.Repository
	cfg            GroupingConfig
	logger         *logging.Logger
}

func NewGroupingService(
	tournamentRepo tournament.Repository,
	entrantRepo entrant.Repository,
	golferRepo golfer.Repository,
	teamRepo team.Repository,
	cfg GroupingConfig,
	logger *logging.Logger,
) *GroupingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GroupingService{
		tournamentRepo: tournamentRepo,
		entrantRepo:    entrantRepo,
		golferRepo:     golferRepo,
		teamRepo:       teamRepo,
		cfg:            cfg.normalize(),
		logger:         logger,
	}
}

func (s *GroupingService) AssignGroups(ctx context.Context, input AssignGroupsInput) (AssignGroupsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupingService.AssignGroups")
	defer span.End()

	tournamentID := strings.TrimSpace(input.TournamentID)
	if tournamentID == "" {
		return AssignGroupsResult{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	tour, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return AssignGroupsResult{}, fmt.Errorf("get tournament for grouping: %w", err)
	}
	if !exists {
		return AssignGroupsResult{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	hasGroups, err := s.entrantRepo.HasGroups(ctx, tournamentID)
	if err != nil {
		return AssignGroupsResult{}, fmt.Errorf("check existing groups: %w", err)
	}
	if hasGroups && !input.Force {
		s.logger.InfoContext(ctx, "groups already assigned, skipping", "tournament_id", tournamentID)
		return AssignGroupsResult{TournamentID: tournamentID, Skipped: true}, nil
	}

	// Reassignment would orphan existing picks, so it is refused outright.
	picks, err := s.teamRepo.CountByTournament(ctx, tournamentID)
	if err != nil {
		return AssignGroupsResult{}, fmt.Errorf("count picks for grouping: %w", err)
	}
	if picks > 0 {
		return AssignGroupsResult{}, fmt.Errorf("%w: tournament=%s has %d teams", ErrGroupsLocked, tournamentID, picks)
	}

	entrants, err := s.entrantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return AssignGroupsResult{}, fmt.Errorf("list entrants for grouping: %w", err)
	}
	if len(entrants) == 0 {
		// The field has not synced yet; a later cycle retries the assignment.
		s.logger.InfoContext(ctx, "no field to group yet, skipping", "tournament_id", tournamentID)
		return AssignGroupsResult{TournamentID: tournamentID, Skipped: true}, nil
	}

	golfers, err := s.golferRepo.List(ctx)
	if err != nil {
		return AssignGroupsResult{}, fmt.Errorf("list golfers for grouping: %w", err)
	}
	golferByID := make(map[string]golfer.Golfer, len(golfers))
	for _, item := range golfers {
		golferByID[item.ID] = item
	}

	ordered := make([]golfer.Golfer, 0, len(entrants))
	for _, item := range entrants {
		g, ok := golferByID[item.GolferID]
		if !ok {
			// An unknown entrant still needs a group; rank it last by name.
			g = golfer.Golfer{ID: item.GolferID, Name: item.GolferID}
		}
		ordered = append(ordered, g)
	}
	SortGolfersByStrength(ordered)

	groupCount := (len(ordered) + s.cfg.GroupSize - 1) / s.cfg.GroupSize
	if groupCount < 1 {
		groupCount = 1
	}

	groupByGolferID := SnakeDistribute(ordered, groupCount)

	if err := s.entrantRepo.AssignGroups(ctx, tournamentID, groupByGolferID); err != nil {
		return AssignGroupsResult{}, fmt.Errorf("assign groups tournament=%s: %w", tournamentID, err)
	}

	s.logger.InfoContext(ctx, "groups assigned",
		"tournament_id", tournamentID,
		"tournament_name", tour.Name,
		"groups", groupCount,
		"entrants", len(ordered),
		"forced", input.Force,
	)
	return AssignGroupsResult{
		TournamentID: tournamentID,
		Groups:       groupCount,
		Entrants:     len(ordered),
	}, nil
}

// SortGolfersByStrength orders strongest first: world rank ascending with
// unranked golfers last, then skill estimate descending, then name.
func SortGolfersByStrength(golfers []golfer.Golfer) {
	sort.SliceStable(golfers, func(i, j int) bool {
		left, right := golfers[i], golfers[j]
		switch {
		case left.WorldRank != nil && right.WorldRank != nil && *left.WorldRank != *right.WorldRank:
			return *left.WorldRank < *right.WorldRank
		case left.WorldRank != nil && right.WorldRank == nil:
			return true
		case left.WorldRank == nil && right.WorldRank != nil:
			return false
		}
		leftSkill, rightSkill := 0.0, 0.0
		if left.SkillEstimate != nil {
			leftSkill = *left.SkillEstimate
		}
		if right.SkillEstimate != nil {
			rightSkill = *right.SkillEstimate
		}
		if leftSkill != rightSkill {
			return leftSkill > rightSkill
		}
		return left.Name < right.Name
	})
}

// SnakeDistribute deals an ordered field into groups 1..n, n..1, 1..n and so
// on, so every group gets an even mix of strong and weak golfers. Group
// numbers are 1-based.
func SnakeDistribute(ordered []golfer.Golfer, groupCount int) map[string]int {
	out := make(map[string]int, len(ordered))
	if groupCount < 1 {
		groupCount = 1
	}

	for idx, item := range ordered {
		round := idx / groupCount
		pos := idx % groupCount
		if round%2 == 1 {
			out[item.ID] = groupCount - pos
		} else {
			out[item.ID] = pos + 1
		}
	}
	return out
}
