package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pgctour/fantasy-golf/internal/domain/entrant"
	"github.com/pgctour/fantasy-golf/internal/domain/golfer"
	"github.com/pgctour/fantasy-golf/internal/domain/team"
	"github.com/pgctour/fantasy-golf/internal/domain/tier"
	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
	"github.com/pgctour/fantasy-golf/internal/platform/id"
	"github.com/pgctour/fantasy-golf/internal/platform/logging"
)

type SyncConfig struct {
	// ActivationLead promotes an upcoming tournament to active this long
	// before its scheduled start, so the first live cycle is never late.
	ActivationLead time.Duration
}

func (c SyncConfig) normalize() SyncConfig {
	if c.ActivationLead < 0 {
		c.ActivationLead = 0
	}
	return c
}

type LiveSyncResult struct {
	TournamentID   string `json:"tournament_id,omitempty"`
	TournamentName string `json:"tournament_name,omitempty"`
	CurrentRound   int    `json:"current_round,omitempty"`
	TeamsUpdated   int    `json:"teams_updated"`
	Promoted       bool   `json:"promoted"`
	Finalized      bool   `json:"finalized"`
	Skipped        bool   `json:"skipped"`
	SkippedReason  string `json:"skipped_reason,omitempty"`
}

type FieldSyncResult struct {
	TournamentID string `json:"tournament_id"`
	Golfers      int    `json:"golfers"`
	Entrants     int    `json:"entrants"`
}

// SyncService owns the tournament lifecycle: it promotes the next upcoming
// tournament when its start arrives, drives live scoring cycles against the
// provider feed, and finalizes the event once the provider reports it done.
// One live cycle per tournament runs at a time; an overlapping trigger is
// reported as skipped rather than queued.
type SyncService struct {
	tournamentRepo tournament.Repository
	entrantRepo    entrant.Repository
	golferRepo     golfer.Repository
	tierRepo       tier.Repository
	teamRepo       team.Repository
	provider       SnapshotProvider
	scoringSvc     *ScoringService
	standingsSvc   *StandingsService
	ids            id.Generator
	cfg            SyncConfig
	logger         *logging.Logger
	now            func() time.Time

	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

func NewSyncService(
	tournamentRepo tournament.Repository,
	entrantRepo entrant.Repository,
	golferRepo golfer.Repository,
	tierRepo tier.Repository,
	teamRepo team.Repository,
	provider SnapshotProvider,
	scoringSvc *ScoringService,
	standingsSvc *StandingsService,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		tournamentRepo: tournamentRepo,
		entrantRepo:    entrantRepo,
		golferRepo:     golferRepo,
		tierRepo:       tierRepo,
		teamRepo:       teamRepo,
		provider:       provider,
		scoringSvc:     scoringSvc,
		standingsSvc:   standingsSvc,
		ids:            id.NewRandomGenerator(),
		cfg:            cfg.normalize(),
		logger:         logger,
		now:            time.Now,
		inflight:       make(map[string]struct{}),
	}
}

// RunLiveSync executes one scheduled live cycle. With no active tournament it
// first tries to promote the next upcoming one; with nothing due it reports a
// skipped cycle instead of an error so the scheduler keeps its cadence.
func (s *SyncService) RunLiveSync(ctx context.Context) (LiveSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.RunLiveSync")
	defer span.End()

	if s.provider == nil {
		return LiveSyncResult{}, fmt.Errorf("%w: snapshot provider is not configured", ErrDependencyUnavailable)
	}

	tour, active, err := s.tournamentRepo.GetActive(ctx)
	if err != nil {
		return LiveSyncResult{}, fmt.Errorf("get active tournament: %w", err)
	}

	promoted := false
	if !active {
		tour, promoted, err = s.promoteNextDue(ctx)
		if err != nil {
			return LiveSyncResult{}, err
		}
		if !promoted {
			return LiveSyncResult{Skipped: true, SkippedReason: "no active or due tournament"}, nil
		}
	}

	result, err := s.syncTournamentOnce(ctx, tour)
	result.Promoted = promoted
	return result, err
}

// SyncTournament runs one live cycle for an explicit tournament. Repair and
// backfill share this path so a repaired tournament goes through exactly the
// same scoring and finalization code as a scheduled cycle.
func (s *SyncService) SyncTournament(ctx context.Context, tournamentID string) (LiveSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTournament")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return LiveSyncResult{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	tour, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return LiveSyncResult{}, fmt.Errorf("get tournament for sync: %w", err)
	}
	if !exists {
		return LiveSyncResult{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	if tour.Status == tournament.StatusUpcoming {
		if err := s.tournamentRepo.UpdateStatus(ctx, tour.ID, tournament.StatusActive); err != nil {
			return LiveSyncResult{}, fmt.Errorf("promote tournament for sync: %w", err)
		}
		tour.Status = tournament.StatusActive
	}

	return s.syncTournamentOnce(ctx, tour)
}

func (s *SyncService) promoteNextDue(ctx context.Context) (tournament.Tournament, bool, error) {
	next, exists, err := s.tournamentRepo.GetNextUpcoming(ctx)
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("get next upcoming tournament: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, false, nil
	}

	now := s.now().UTC()
	if !next.PastDue(now.Add(s.cfg.ActivationLead)) {
		return tournament.Tournament{}, false, nil
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, next.ID, tournament.StatusActive); err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("promote tournament=%s: %w", next.ID, err)
	}
	next.Status = tournament.StatusActive

	s.logger.InfoContext(ctx, "tournament promoted to active",
		"tournament_id", next.ID,
		"tournament_name", next.Name,
		"start_date", next.StartDate,
	)
	return next, true, nil
}

func (s *SyncService) syncTournamentOnce(ctx context.Context, tour tournament.Tournament) (LiveSyncResult, error) {
	if !s.tryAcquire(tour.ID) {
		return LiveSyncResult{}, fmt.Errorf("%w: tournament=%s", ErrSyncInProgress, tour.ID)
	}
	defer s.release(tour.ID)

	result := LiveSyncResult{
		TournamentID:   tour.ID,
		TournamentName: tour.Name,
	}

	snap, err := s.provider.FetchSnapshot(ctx, tour.ProviderID)
	if err != nil {
		return result, fmt.Errorf("fetch snapshot tournament=%s: %w", tour.ID, err)
	}
	if err := snap.Validate(); err != nil {
		return result, fmt.Errorf("validate snapshot tournament=%s: %w", tour.ID, err)
	}

	updated, err := s.scoringSvc.UpdateTeams(ctx, tour, snap)
	if err != nil {
		return result, err
	}
	result.TeamsUpdated = updated
	result.CurrentRound = snap.CurrentRound

	now := s.now().UTC()
	if err := s.tournamentRepo.UpdateLiveState(ctx, tour.ID, snap.CurrentRound, now); err != nil {
		return result, fmt.Errorf("update live state tournament=%s: %w", tour.ID, err)
	}

	if snap.EventFinished {
		if err := s.finalize(ctx, tour); err != nil {
			return result, err
		}
		result.Finalized = true
	}

	s.logger.InfoContext(ctx, "live sync cycle completed",
		"tournament_id", tour.ID,
		"current_round", snap.CurrentRound,
		"teams_updated", updated,
		"finalized", result.Finalized,
	)
	return result, nil
}

// finalize awards points and earnings off the final ordering, completes the
// tournament and folds the result into the season standings. Tied teams each
// receive the award for the first rank of their band.
func (s *SyncService) finalize(ctx context.Context, tour tournament.Tournament) error {
	awardTier, err := s.resolveTier(ctx, tour.TierName)
	if err != nil {
		return err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tour.ID)
	if err != nil {
		return fmt.Errorf("list teams for finalize tournament=%s: %w", tour.ID, err)
	}

	for idx := range teams {
		rank, ok := NumericRank(teams[idx])
		if !ok {
			teams[idx].Points = 0
			teams[idx].Earnings = 0
			continue
		}
		points, earnings := awardTier.Award(rank)
		teams[idx].Points = points
		teams[idx].Earnings = earnings
	}

	if err := s.teamRepo.UpdateBatch(ctx, teams); err != nil {
		return fmt.Errorf("apply awards tournament=%s: %w", tour.ID, err)
	}

	if tour.CanTransitionTo(tournament.StatusCompleted) {
		if err := s.tournamentRepo.UpdateStatus(ctx, tour.ID, tournament.StatusCompleted); err != nil {
			return fmt.Errorf("complete tournament=%s: %w", tour.ID, err)
		}
	}

	if s.standingsSvc != nil {
		if err := s.standingsSvc.Recompute(ctx, tour.SeasonID); err != nil {
			return fmt.Errorf("recompute standings after finalize tournament=%s: %w", tour.ID, err)
		}
	}

	s.logger.InfoContext(ctx, "tournament finalized",
		"tournament_id", tour.ID,
		"tournament_name", tour.Name,
		"tier", tour.TierName,
		"teams", len(teams),
	)
	return nil
}

func (s *SyncService) resolveTier(ctx context.Context, name string) (tier.Tier, error) {
	item, exists, err := s.tierRepo.GetByName(ctx, name)
	if err != nil {
		return tier.Tier{}, fmt.Errorf("get tier %q: %w", name, err)
	}
	if !exists {
		return tier.Tier{}, fmt.Errorf("%w: tier=%s", ErrNotFound, name)
	}
	return item, nil
}

// SyncField pulls the provider field for one tournament, upserts any golfers
// it has not seen before and replaces the entrant field wholesale.
func (s *SyncService) SyncField(ctx context.Context, tournamentID string) (FieldSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncField")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return FieldSyncResult{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if s.provider == nil {
		return FieldSyncResult{}, fmt.Errorf("%w: snapshot provider is not configured", ErrDependencyUnavailable)
	}

	tour, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return FieldSyncResult{}, fmt.Errorf("get tournament for field sync: %w", err)
	}
	if !exists {
		return FieldSyncResult{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	snap, err := s.provider.FetchField(ctx, tour.ProviderID)
	if err != nil {
		return FieldSyncResult{}, fmt.Errorf("fetch field tournament=%s: %w", tour.ID, err)
	}
	if err := snap.Validate(); err != nil {
		return FieldSyncResult{}, fmt.Errorf("validate field tournament=%s: %w", tour.ID, err)
	}

	rankings := snap.RankingsByProviderID()
	golfers := make([]golfer.Golfer, 0, len(snap.Field))
	for _, item := range snap.Field {
		next := golfer.Golfer{
			ProviderID: item.ProviderID,
			Name:       item.Name,
			Country:    item.Country,
		}
		if ranking, ok := rankings[item.ProviderID]; ok {
			rank := ranking.WorldRank
			skill := ranking.SkillEstimate
			next.WorldRank = &rank
			next.SkillEstimate = &skill
		}
		if existing, found, err := s.golferRepo.GetByProviderID(ctx, item.ProviderID); err != nil {
			return FieldSyncResult{}, fmt.Errorf("get golfer provider_id=%s: %w", item.ProviderID, err)
		} else if found {
			next.ID = existing.ID
		} else {
			newID, err := s.ids.NewID()
			if err != nil {
				return FieldSyncResult{}, fmt.Errorf("generate golfer id: %w", err)
			}
			next.ID = newID
		}
		golfers = append(golfers, next)
	}
	if err := s.golferRepo.Upsert(ctx, golfers); err != nil {
		return FieldSyncResult{}, fmt.Errorf("upsert golfers tournament=%s: %w", tour.ID, err)
	}

	entrants := make([]entrant.Entrant, 0, len(snap.Field))
	golferIDByProvider := make(map[string]string, len(golfers))
	for _, item := range golfers {
		golferIDByProvider[item.ProviderID] = item.ID
	}
	for _, item := range snap.Field {
		entrants = append(entrants, entrant.Entrant{
			TournamentID: tour.ID,
			GolferID:     golferIDByProvider[item.ProviderID],
			TeeTimes:     item.TeeTimes,
		})
	}
	if err := s.entrantRepo.ReplaceField(ctx, tour.ID, entrants); err != nil {
		return FieldSyncResult{}, fmt.Errorf("replace field tournament=%s: %w", tour.ID, err)
	}

	s.logger.InfoContext(ctx, "field synced",
		"tournament_id", tour.ID,
		"golfers", len(golfers),
		"entrants", len(entrants),
	)
	return FieldSyncResult{
		TournamentID: tour.ID,
		Golfers:      len(golfers),
		Entrants:     len(entrants),
	}, nil
}

// RefreshRankings pulls current world rankings and updates every golfer the
// repository already knows. Unknown provider ids are ignored; they join the
// roster through a later field sync.
func (s *SyncService) RefreshRankings(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.RefreshRankings")
	defer span.End()

	if s.provider == nil {
		return 0, fmt.Errorf("%w: snapshot provider is not configured", ErrDependencyUnavailable)
	}

	rankings, err := s.provider.FetchRankings(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch rankings: %w", err)
	}
	if len(rankings) == 0 {
		return 0, nil
	}

	existing, err := s.golferRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list golfers for rankings: %w", err)
	}
	byProviderID := make(map[string]golfer.Golfer, len(existing))
	for _, item := range existing {
		byProviderID[item.ProviderID] = item
	}

	updates := make([]golfer.Golfer, 0, len(rankings))
	for _, ranking := range rankings {
		item, ok := byProviderID[ranking.ProviderID]
		if !ok {
			continue
		}
		rank := ranking.WorldRank
		skill := ranking.SkillEstimate
		item.WorldRank = &rank
		item.SkillEstimate = &skill
		updates = append(updates, item)
	}
	if len(updates) == 0 {
		return 0, nil
	}

	if err := s.golferRepo.UpsertRankings(ctx, updates); err != nil {
		return 0, fmt.Errorf("upsert rankings: %w", err)
	}

	s.logger.InfoContext(ctx, "world rankings refreshed", "golfers", len(updates))
	return len(updates), nil
}

func (s *SyncService) tryAcquire(tournamentID string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if _, busy := s.inflight[tournamentID]; busy {
		return false
	}
	s.inflight[tournamentID] = struct{}{}
	return true
}

func (s *SyncService) release(tournamentID string) {
	s.inflightMu.Lock()
	delete(s.inflight, tournamentID)
	s.inflightMu.Unlock()
}
