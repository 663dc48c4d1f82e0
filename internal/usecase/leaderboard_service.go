package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pgctour/fantasy-golf/internal/domain/entrant"
	"github.com/pgctour/fantasy-golf/internal/domain/golfer"
	"github.com/pgctour/fantasy-golf/internal/domain/season"
	"github.com/pgctour/fantasy-golf/internal/domain/team"
	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
)

type Leaderboard struct {
	Tournament tournament.Tournament
	Teams      []team.Team
}

type GroupView struct {
	Group   int
	Golfers []golfer.Golfer
}

// LeaderboardService serves the read side: ordered tournament leaderboards
// and the pick groups for an upcoming field. It never mutates anything; all
// ordering is recomputed from persisted team state so reads stay consistent
// with whatever the last sync cycle wrote.
type LeaderboardService struct {
	seasonRepo     season.Repository
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	entrantRepo    entrant.Repository
	golferRepo     golfer.Repository
}

func NewLeaderboardService(
	seasonRepo season.Repository,
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	entrantRepo entrant.Repository,
	golferRepo golfer.Repository,
) *LeaderboardService {
	return &LeaderboardService{
		seasonRepo:     seasonRepo,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		entrantRepo:    entrantRepo,
		golferRepo:     golferRepo,
	}
}

func (s *LeaderboardService) Seasons(ctx context.Context) ([]season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Seasons")
	defer span.End()

	seasons, err := s.seasonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].Year > seasons[j].Year })
	return seasons, nil
}

func (s *LeaderboardService) Leaderboard(ctx context.Context, tournamentID string) (Leaderboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Leaderboard")
	defer span.End()

	tour, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return Leaderboard{}, err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tour.ID)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("list teams for leaderboard: %w", err)
	}
	SortTeams(teams)

	return Leaderboard{Tournament: tour, Teams: teams}, nil
}

func (s *LeaderboardService) Groups(ctx context.Context, tournamentID string) ([]GroupView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Groups")
	defer span.End()

	tour, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	entrants, err := s.entrantRepo.ListByTournament(ctx, tour.ID)
	if err != nil {
		return nil, fmt.Errorf("list entrants for groups: %w", err)
	}

	golfers, err := s.golferRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list golfers for groups: %w", err)
	}
	golferByID := make(map[string]golfer.Golfer, len(golfers))
	for _, item := range golfers {
		golferByID[item.ID] = item
	}

	byGroup := make(map[int][]golfer.Golfer)
	for _, item := range entrants {
		if item.Group <= 0 {
			continue
		}
		g, ok := golferByID[item.GolferID]
		if !ok {
			g = golfer.Golfer{ID: item.GolferID, Name: item.GolferID}
		}
		byGroup[item.Group] = append(byGroup[item.Group], g)
	}

	groups := make([]GroupView, 0, len(byGroup))
	for number, members := range byGroup {
		SortGolfersByStrength(members)
		groups = append(groups, GroupView{Group: number, Golfers: members})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Group < groups[j].Group
	})

	return groups, nil
}

func (s *LeaderboardService) TournamentsBySeason(ctx context.Context, seasonID string) ([]tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.TournamentsBySeason")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, fmt.Errorf("get season: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	tournaments, err := s.tournamentRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list tournaments by season: %w", err)
	}
	return tournaments, nil
}

func (s *LeaderboardService) getTournament(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	tour, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	return tour, nil
}
