package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/pgctour/fantasy-golf/internal/domain/jobdispatch"
	"github.com/pgctour/fantasy-golf/internal/usecase"
	"go.opentelemetry.io/otel/trace"
)

var internalJobDispatchUnsafeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type internalJobRequest struct {
	TournamentID string `json:"tournament_id"`
	SeasonID     string `json:"season_id"`
	// TournamentIDs narrows a repair run; ignored by the other jobs.
	TournamentIDs []string `json:"tournament_ids"`
	MaxWorkers    int      `json:"max_workers"`
	Force         bool     `json:"force"`
	DispatchID    string   `json:"dispatch_id"`
}

// RunSyncLiveJob is the queue callback for one live cycle. The orchestrator
// re-arms the queue itself, so a single external trigger keeps the loop alive.
func (h *Handler) RunSyncLiveJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncLiveJob")
	defer span.End()

	req, err := h.decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.orchestratorService.RunLiveCycle(ctx)
	if err != nil {
		h.recordInternalJobDispatch(ctx, req, failedJobEvent("sync-live", req, err))
		h.logger.WarnContext(ctx, "run sync live job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req, completedJobEvent("sync-live", req))

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSyncFieldJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncFieldJob")
	defer span.End()

	req, err := h.decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, syncFieldJobPayload{TournamentID: req.TournamentID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.SyncField(ctx, req.TournamentID)
	if err != nil {
		h.recordInternalJobDispatch(ctx, req, failedJobEvent("sync-field", req, err))
		h.logger.WarnContext(ctx, "run sync field job failed", "tournament_id", req.TournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req, completedJobEvent("sync-field", req))

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunAssignGroupsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAssignGroupsJob")
	defer span.End()

	req, err := h.decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, assignGroupsJobPayload{TournamentID: req.TournamentID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.groupingService.AssignGroups(ctx, usecase.AssignGroupsInput{
		TournamentID: req.TournamentID,
		Force:        req.Force,
	})
	if err != nil {
		h.recordInternalJobDispatch(ctx, req, failedJobEvent("assign-groups", req, err))
		h.logger.WarnContext(ctx, "run assign groups job failed", "tournament_id", req.TournamentID, "force", req.Force, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req, completedJobEvent("assign-groups", req))

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunRefreshRankingsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshRankingsJob")
	defer span.End()

	req, err := h.decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.syncService.RefreshRankings(ctx)
	if err != nil {
		h.recordInternalJobDispatch(ctx, req, failedJobEvent("refresh-rankings", req, err))
		h.logger.WarnContext(ctx, "run refresh rankings job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req, completedJobEvent("refresh-rankings", req))

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"golfers_updated": updated})
}

func (h *Handler) RunRecomputeStandingsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecomputeStandingsJob")
	defer span.End()

	req, err := h.decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, recomputeStandingsJobPayload{SeasonID: req.SeasonID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.standingsService.Recompute(ctx, req.SeasonID); err != nil {
		h.recordInternalJobDispatch(ctx, req, failedJobEvent("recompute-standings", req, err))
		h.logger.WarnContext(ctx, "run recompute standings job failed", "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req, completedJobEvent("recompute-standings", req))

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"season_id": req.SeasonID, "status": "recomputed"})
}

func (h *Handler) RunRepairJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRepairJob")
	defer span.End()

	req, err := h.decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, repairJobPayload{SeasonID: req.SeasonID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.repairService.Repair(ctx, usecase.RepairInput{
		SeasonID:      req.SeasonID,
		TournamentIDs: req.TournamentIDs,
		MaxWorkers:    req.MaxWorkers,
	})
	if err != nil {
		h.recordInternalJobDispatch(ctx, req, failedJobEvent("repair", req, err))
		h.logger.WarnContext(ctx, "run repair job failed", "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req, completedJobEvent("repair", req))

	writeSuccess(ctx, w, http.StatusOK, result)
}

type syncFieldJobPayload struct {
	TournamentID string `validate:"required"`
}

type assignGroupsJobPayload struct {
	TournamentID string `validate:"required"`
}

type recomputeStandingsJobPayload struct {
	SeasonID string `validate:"required"`
}

type repairJobPayload struct {
	SeasonID string `validate:"required"`
}

func (h *Handler) decodeInternalJobRequest(r *http.Request) (internalJobRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req internalJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return internalJobRequest{}, nil
		}
		return internalJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return req, nil
}

func completedJobEvent(jobName string, req internalJobRequest) jobdispatch.Event {
	return jobdispatch.Event{
		JobName:      jobName,
		JobPath:      "/v1/internal/jobs/" + jobName,
		TournamentID: req.TournamentID,
		Status:       jobdispatch.StatusCompleted,
		Payload:      buildInternalJobPayload(req),
		OccurredAt:   time.Now().UTC(),
	}
}

func failedJobEvent(jobName string, req internalJobRequest, err error) jobdispatch.Event {
	event := completedJobEvent(jobName, req)
	event.Status = jobdispatch.StatusFailed
	event.ErrorMessage = err.Error()
	return event
}

func (h *Handler) recordInternalJobDispatch(ctx context.Context, req internalJobRequest, event jobdispatch.Event) {
	if h.jobDispatchRepo == nil {
		return
	}

	dispatchID := strings.TrimSpace(req.DispatchID)
	if dispatchID == "" {
		dispatchID = buildManualDispatchID(event.JobName, req.TournamentID, event.OccurredAt)
	}
	event.DispatchID = dispatchID

	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID

	if err := h.jobDispatchRepo.UpsertEvent(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "record internal job dispatch failed",
			"dispatch_id", event.DispatchID,
			"job_name", event.JobName,
			"status", event.Status,
			"error", err,
		)
	}
}

func buildInternalJobPayload(req internalJobRequest) map[string]any {
	payload := map[string]any{}
	if strings.TrimSpace(req.TournamentID) != "" {
		payload["tournament_id"] = req.TournamentID
	}
	if strings.TrimSpace(req.SeasonID) != "" {
		payload["season_id"] = req.SeasonID
	}
	if req.Force {
		payload["force"] = true
	}
	if strings.TrimSpace(req.DispatchID) != "" {
		payload["dispatch_id"] = req.DispatchID
	}
	return payload
}

func buildManualDispatchID(jobName, tournamentID string, now time.Time) string {
	jobName = sanitizeDispatchPart(jobName)
	tournamentID = sanitizeDispatchPart(tournamentID)
	ts := now.UTC().Format("20060102T150405.000000000Z")
	return "manual-" + jobName + "-" + tournamentID + "-" + ts
}

func sanitizeDispatchPart(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return internalJobDispatchUnsafeRegex.ReplaceAllString(value, "-")
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
