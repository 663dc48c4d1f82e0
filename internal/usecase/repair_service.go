package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
	"github.com/pgctour/fantasy-golf/internal/platform/logging"
)

type RepairConfig struct {
	// MaxWorkers caps the sync fan-out for requests that do not set their own.
	MaxWorkers int
}

type RepairInput struct {
	SeasonID string
	// TournamentIDs narrows the repair to explicit tournaments. Empty means
	// every non-upcoming tournament in the season.
	TournamentIDs []string
	MaxWorkers    int
}

type RepairResult struct {
	SeasonID        string             `json:"season_id"`
	TournamentCount int                `json:"tournament_count"`
	SuccessCount    int                `json:"success_count"`
	FailedCount     int                `json:"failed_count"`
	SkippedCount    int                `json:"skipped_count"`
	WorkerCount     int                `json:"worker_count"`
	Tasks           []RepairTaskResult `json:"tasks"`
}

type RepairTaskResult struct {
	TournamentID string `json:"tournament_id"`
	Status       string `json:"status"`
	TeamsUpdated int    `json:"teams_updated"`
	Finalized    bool   `json:"finalized"`
	DurationMs   int64  `json:"duration_ms"`
	Message      string `json:"message,omitempty"`
}

const (
	repairStatusSuccess = "success"
	repairStatusFailed  = "failed"
	repairStatusSkipped = "skipped"
)

// RepairService replays full sync cycles over tournaments whose stored data
// drifted from the provider. Each tournament goes through the exact sync and
// finalization path a scheduled cycle uses, fanned out over a bounded worker
// pool, followed by one standings recompute for the season.
type RepairService struct {
	tournamentRepo tournament.Repository
	syncSvc        *SyncService
	standingsSvc   *StandingsService
	cfg            RepairConfig
	logger         *logging.Logger
}

func NewRepairService(
	tournamentRepo tournament.Repository,
	syncSvc *SyncService,
	standingsSvc *StandingsService,
	cfg RepairConfig,
	logger *logging.Logger,
) *RepairService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RepairService{
		tournamentRepo: tournamentRepo,
		syncSvc:        syncSvc,
		standingsSvc:   standingsSvc,
		cfg:            cfg,
		logger:         logger,
	}
}

func (s *RepairService) Repair(ctx context.Context, input RepairInput) (RepairResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RepairService.Repair")
	defer span.End()

	if s.syncSvc == nil {
		return RepairResult{}, fmt.Errorf("%w: sync service is not configured", ErrDependencyUnavailable)
	}

	seasonID := strings.TrimSpace(input.SeasonID)
	if seasonID == "" {
		return RepairResult{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	targets, err := s.resolveTargets(ctx, seasonID, input.TournamentIDs)
	if err != nil {
		return RepairResult{}, err
	}

	maxWorkers := input.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = s.cfg.MaxWorkers
	}
	workerCount := normalizeRepairWorkerCount(maxWorkers, len(targets))
	result := RepairResult{
		SeasonID:        seasonID,
		TournamentCount: len(targets),
		WorkerCount:     workerCount,
		Tasks:           make([]RepairTaskResult, 0, len(targets)),
	}
	if len(targets) == 0 {
		return result, nil
	}

	rows := make(chan RepairTaskResult, len(targets))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RepairResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, target := range targets {
		target := target
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RepairTaskResult{TournamentID: target.ID}

			syncResult, syncErr := s.syncSvc.SyncTournament(ctx, target.ID)
			row.DurationMs = time.Since(start).Milliseconds()
			switch {
			case errors.Is(syncErr, ErrSyncInProgress):
				row.Status = repairStatusSkipped
				row.Message = "sync already in progress"
				skippedCount.Add(1)
			case syncErr != nil:
				row.Status = repairStatusFailed
				row.Message = syncErr.Error()
				failedCount.Add(1)
			default:
				row.Status = repairStatusSuccess
				row.TeamsUpdated = syncResult.TeamsUpdated
				row.Finalized = syncResult.Finalized
				successCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return RepairResult{}, fmt.Errorf("submit repair task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].TournamentID < result.Tasks[j].TournamentID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	// Per-tournament finalization already recomputed standings where it
	// applied, but a repair of old data can change completed results without
	// re-finalizing, so run one season recompute at the end.
	if s.standingsSvc != nil && result.SuccessCount > 0 {
		if err := s.standingsSvc.Recompute(ctx, seasonID); err != nil {
			s.logger.WarnContext(ctx, "standings recompute after repair failed", "season_id", seasonID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "repair run completed",
		"season_id", seasonID,
		"tournaments", result.TournamentCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}

func (s *RepairService) resolveTargets(ctx context.Context, seasonID string, tournamentIDs []string) ([]tournament.Tournament, error) {
	all, err := s.tournamentRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list tournaments for repair: %w", err)
	}

	byID := make(map[string]tournament.Tournament, len(all))
	for _, item := range all {
		byID[item.ID] = item
	}

	if len(tournamentIDs) == 0 {
		out := make([]tournament.Tournament, 0, len(all))
		for _, item := range all {
			// Upcoming tournaments have nothing to repair yet.
			if tournament.NormalizeStatus(item.Status) == tournament.StatusUpcoming {
				continue
			}
			out = append(out, item)
		}
		return out, nil
	}

	seen := make(map[string]struct{}, len(tournamentIDs))
	out := make([]tournament.Tournament, 0, len(tournamentIDs))
	for _, raw := range tournamentIDs {
		tournamentID := strings.TrimSpace(raw)
		if tournamentID == "" {
			continue
		}
		if _, dup := seen[tournamentID]; dup {
			continue
		}
		seen[tournamentID] = struct{}{}

		item, exists := byID[tournamentID]
		if !exists {
			return nil, fmt.Errorf("%w: tournament=%s in season=%s", ErrNotFound, tournamentID, seasonID)
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: tournament ids are required when provided", ErrInvalidInput)
	}
	return out, nil
}

func normalizeRepairWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > 4 {
		value = 4
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
