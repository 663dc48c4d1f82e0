package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pgctour/fantasy-golf/internal/domain/entrant"
	"github.com/pgctour/fantasy-golf/internal/domain/jobdispatch"
	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
	"github.com/pgctour/fantasy-golf/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

type JobOrchestratorConfig struct {
	// LiveInterval spaces live cycles while a tournament is in play.
	LiveInterval time.Duration
	// IdleInterval spaces cycles while nothing is active or imminent.
	IdleInterval time.Duration
	// PreStartLead begins live polling this long before the scheduled start.
	PreStartLead time.Duration
}

type JobRunResult struct {
	Sync             LiveSyncResult `json:"sync"`
	QueuedCount      int            `json:"queued_count"`
	QueuedOperations []string       `json:"queued_operations"`
}

// JobOrchestratorService runs one live cycle and then re-arms the queue for
// the next one, choosing the delay from the tournament calendar. Every
// enqueue carries a time-bucketed deduplication id so a retried trigger
// cannot double-schedule, and every dispatch leaves an audit row.
type JobOrchestratorService struct {
	tournamentRepo tournament.Repository
	entrantRepo    entrant.Repository
	syncSvc        *SyncService
	queue          JobQueue
	dispatchRepo   jobdispatch.Repository
	cfg            JobOrchestratorConfig
	logger         *logging.Logger
	now            func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobOrchestratorService(
	tournamentRepo tournament.Repository,
	entrantRepo entrant.Repository,
	syncSvc *SyncService,
	queue JobQueue,
	dispatchRepo jobdispatch.Repository,
	cfg JobOrchestratorConfig,
	logger *logging.Logger,
) *JobOrchestratorService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.LiveInterval <= 0 {
		cfg.LiveInterval = 5 * time.Minute
	}
	if cfg.IdleInterval <= 0 {
		cfg.IdleInterval = 6 * time.Hour
	}
	if cfg.PreStartLead <= 0 {
		cfg.PreStartLead = 30 * time.Minute
	}

	return &JobOrchestratorService{
		tournamentRepo: tournamentRepo,
		entrantRepo:    entrantRepo,
		syncSvc:        syncSvc,
		queue:          queue,
		dispatchRepo:   dispatchRepo,
		cfg:            cfg,
		logger:         logger,
		now:            time.Now,
	}
}

// RunLiveCycle is the sync-live job body: one cycle, then schedule the next.
func (s *JobOrchestratorService) RunLiveCycle(ctx context.Context) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.RunLiveCycle")
	defer span.End()

	result := JobRunResult{QueuedOperations: make([]string, 0, 2)}

	syncResult, err := s.syncSvc.RunLiveSync(ctx)
	if err != nil && !errors.Is(err, ErrSyncInProgress) {
		return result, err
	}
	if errors.Is(err, ErrSyncInProgress) {
		syncResult.Skipped = true
		syncResult.SkippedReason = "sync already in progress"
	}
	result.Sync = syncResult

	if err := s.prepareUpcoming(ctx, &result); err != nil {
		s.logger.WarnContext(ctx, "prepare upcoming tournament failed", "error", err)
	}

	if err := s.enqueueNextCycle(ctx, &result); err != nil {
		return result, err
	}
	return result, nil
}

// prepareUpcoming enqueues field sync and group assignment for the next
// tournament so the field is grouped before picks open.
func (s *JobOrchestratorService) prepareUpcoming(ctx context.Context, result *JobRunResult) error {
	next, exists, err := s.tournamentRepo.GetNextUpcoming(ctx)
	if err != nil {
		return fmt.Errorf("get next upcoming for preparation: %w", err)
	}
	if !exists {
		return nil
	}

	entrants, err := s.entrantRepo.ListByTournament(ctx, next.ID)
	if err != nil {
		return fmt.Errorf("list entrants for preparation: %w", err)
	}
	if len(entrants) == 0 {
		if err := s.enqueueJob(ctx, "sync-field", next.ID, map[string]any{"tournament_id": next.ID}, 0); err != nil {
			return err
		}
		result.QueuedCount++
		result.QueuedOperations = append(result.QueuedOperations, "sync-field:"+next.ID)
		return nil
	}

	hasGroups, err := s.entrantRepo.HasGroups(ctx, next.ID)
	if err != nil {
		return fmt.Errorf("check groups for preparation: %w", err)
	}
	if !hasGroups {
		if err := s.enqueueJob(ctx, "assign-groups", next.ID, map[string]any{"tournament_id": next.ID}, 0); err != nil {
			return err
		}
		result.QueuedCount++
		result.QueuedOperations = append(result.QueuedOperations, "assign-groups:"+next.ID)
	}
	return nil
}

func (s *JobOrchestratorService) enqueueNextCycle(ctx context.Context, result *JobRunResult) error {
	delay, err := s.nextCycleDelay(ctx)
	if err != nil {
		return err
	}

	if err := s.enqueueJob(ctx, "sync-live", "", map[string]any{}, delay); err != nil {
		return err
	}
	result.QueuedCount++
	result.QueuedOperations = append(result.QueuedOperations, "sync-live")
	return nil
}

func (s *JobOrchestratorService) nextCycleDelay(ctx context.Context) (time.Duration, error) {
	active, exists, err := s.tournamentRepo.GetActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("get active tournament for scheduling: %w", err)
	}
	if exists && active.IsActive() {
		return s.cfg.LiveInterval, nil
	}

	next, exists, err := s.tournamentRepo.GetNextUpcoming(ctx)
	if err != nil {
		return 0, fmt.Errorf("get next upcoming tournament for scheduling: %w", err)
	}
	if !exists || next.StartDate.IsZero() {
		return s.cfg.IdleInterval, nil
	}

	now := s.now().UTC()
	liveAt := next.StartDate.Add(-s.cfg.PreStartLead)
	delay := liveAt.Sub(now)
	if delay <= 0 {
		return s.cfg.LiveInterval, nil
	}
	if delay > s.cfg.IdleInterval {
		return s.cfg.IdleInterval, nil
	}
	if delay < time.Minute {
		delay = time.Minute
	}
	return delay, nil
}

func (s *JobOrchestratorService) enqueueJob(ctx context.Context, jobName, tournamentID string, payload map[string]any, delay time.Duration) error {
	now := s.now().UTC()
	bucket := s.cfg.LiveInterval
	if jobName != "sync-live" {
		bucket = time.Minute
	}
	dedupID := dedupKey(jobName, tournamentID, now.Add(delay), bucket)
	jobPath := "/v1/internal/jobs/" + jobName

	if payload == nil {
		payload = map[string]any{}
	}
	payload["dispatch_id"] = dedupID

	if err := s.queue.Enqueue(ctx, jobPath, payload, delay, dedupID); err != nil {
		s.recordDispatchEvent(ctx, jobdispatch.Event{
			DispatchID:   dedupID,
			JobName:      jobName,
			JobPath:      jobPath,
			TournamentID: tournamentID,
			Status:       jobdispatch.StatusFailed,
			Payload:      payload,
			ErrorMessage: err.Error(),
			OccurredAt:   now,
		})
		return fmt.Errorf("enqueue %s: %w", jobName, err)
	}

	s.recordDispatchEvent(ctx, jobdispatch.Event{
		DispatchID:   dedupID,
		JobName:      jobName,
		JobPath:      jobPath,
		TournamentID: tournamentID,
		Status:       jobdispatch.StatusSent,
		Payload:      payload,
		OccurredAt:   now,
	})
	return nil
}

func dedupKey(prefix, tournamentID string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	prefix = sanitizeDedupSegment(prefix)
	tournamentID = sanitizeDedupSegment(tournamentID)
	return prefix + "-" + tournamentID + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "all"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func (s *JobOrchestratorService) recordDispatchEvent(ctx context.Context, event jobdispatch.Event) {
	if s.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
