package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pgctour/fantasy-golf/internal/domain/golfer"
	"github.com/pgctour/fantasy-golf/internal/domain/jobdispatch"
	"github.com/pgctour/fantasy-golf/internal/domain/standings"
	"github.com/pgctour/fantasy-golf/internal/domain/team"
	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
	"github.com/pgctour/fantasy-golf/internal/usecase"
)

type Handler struct {
	leaderboardService  *usecase.LeaderboardService
	standingsService    *usecase.StandingsService
	groupingService     *usecase.GroupingService
	syncService         *usecase.SyncService
	repairService       *usecase.RepairService
	orchestratorService *usecase.JobOrchestratorService
	jobDispatchRepo     jobdispatch.Repository
	logger              *slog.Logger
	validator           *validator.Validate
}

func NewHandler(
	leaderboardService *usecase.LeaderboardService,
	standingsService *usecase.StandingsService,
	groupingService *usecase.GroupingService,
	syncService *usecase.SyncService,
	repairService *usecase.RepairService,
	orchestratorService *usecase.JobOrchestratorService,
	jobDispatchRepo jobdispatch.Repository,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		leaderboardService:  leaderboardService,
		standingsService:    standingsService,
		groupingService:     groupingService,
		syncService:         syncService,
		repairService:       repairService,
		orchestratorService: orchestratorService,
		jobDispatchRepo:     jobDispatchRepo,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	seasons, err := h.leaderboardService.Seasons(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list seasons failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]seasonDTO, 0, len(seasons))
	for _, s := range seasons {
		items = append(items, seasonDTO{ID: s.ID, Year: s.Year})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTournamentsBySeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournamentsBySeason")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	tournaments, err := h.leaderboardService.TournamentsBySeason(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list tournaments failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tournamentDTO, 0, len(tournaments))
	for _, t := range tournaments {
		items = append(items, tournamentToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	board, err := h.leaderboardService.Leaderboard(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	rows := make([]leaderboardRowDTO, 0, len(board.Teams))
	for _, t := range board.Teams {
		rows = append(rows, teamToRowDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardDTO{
		Tournament: tournamentToDTO(board.Tournament),
		Teams:      rows,
	})
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGroups")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	groups, err := h.leaderboardService.Groups(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list groups failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]groupDTO, 0, len(groups))
	for _, g := range groups {
		golfers := make([]golferDTO, 0, len(g.Golfers))
		for _, member := range g.Golfers {
			golfers = append(golfers, golferToDTO(member))
		}
		items = append(items, groupDTO{Group: g.Group, Golfers: golfers})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListSeasonStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonStandings")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	entries, err := h.standingsService.ListBySeason(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list season standings failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingsEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, standingsEntryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type seasonDTO struct {
	ID   string `json:"id"`
	Year int    `json:"year"`
}

type tournamentDTO struct {
	ID           string  `json:"id"`
	SeasonID     string  `json:"seasonId"`
	Tier         string  `json:"tier"`
	Name         string  `json:"name"`
	StartAt      string  `json:"startAt"`
	EndAt        string  `json:"endAt"`
	Status       string  `json:"status"`
	CurrentRound int     `json:"currentRound"`
	CoursePar    int     `json:"coursePar"`
	LiveSyncedAt *string `json:"liveSyncedAt,omitempty"`
}

type leaderboardDTO struct {
	Tournament tournamentDTO       `json:"tournament"`
	Teams      []leaderboardRowDTO `json:"teams"`
}

type leaderboardRowDTO struct {
	TeamID       string   `json:"teamId"`
	DisplayName  string   `json:"displayName"`
	Position     string   `json:"position"`
	PastPosition string   `json:"pastPosition"`
	RoundScores  [4]*int  `json:"roundScores"`
	Today        *int     `json:"today"`
	Thru         *int     `json:"thru"`
	Total        *int     `json:"total"`
	Points       int      `json:"points"`
	Earnings     int64    `json:"earnings"`
	MakeCut      bool     `json:"makeCut"`
	TopTen       bool     `json:"topTen"`
	Win          bool     `json:"win"`
	GolferIDs    []string `json:"golferIds"`
}

type groupDTO struct {
	Group   int         `json:"group"`
	Golfers []golferDTO `json:"golfers"`
}

type golferDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Country       string   `json:"country"`
	WorldRank     *int     `json:"worldRank,omitempty"`
	SkillEstimate *float64 `json:"skillEstimate,omitempty"`
}

type standingsEntryDTO struct {
	TourCardID   string `json:"tourCardId"`
	DisplayName  string `json:"displayName"`
	Rank         int    `json:"rank"`
	Points       int    `json:"points"`
	Earnings     int64  `json:"earnings"`
	CalculatedAt string `json:"calculatedAt"`
}

func tournamentToDTO(v tournament.Tournament) tournamentDTO {
	out := tournamentDTO{
		ID:           v.ID,
		SeasonID:     v.SeasonID,
		Tier:         v.TierName,
		Name:         v.Name,
		StartAt:      v.StartDate.UTC().Format(time.RFC3339),
		EndAt:        v.EndDate.UTC().Format(time.RFC3339),
		Status:       tournament.NormalizeStatus(v.Status),
		CurrentRound: v.CurrentRound,
		CoursePar:    v.CoursePar,
	}
	if v.LiveSyncedAt != nil {
		at := v.LiveSyncedAt.UTC().Format(time.RFC3339)
		out.LiveSyncedAt = &at
	}
	return out
}

func teamToRowDTO(v team.Team) leaderboardRowDTO {
	return leaderboardRowDTO{
		TeamID:       v.ID,
		DisplayName:  v.DisplayName,
		Position:     v.Position,
		PastPosition: v.PastPosition,
		RoundScores:  v.RoundScores,
		Today:        v.Today,
		Thru:         v.Thru,
		Total:        v.TotalScoreToPar,
		Points:       v.Points,
		Earnings:     v.Earnings,
		MakeCut:      v.MakeCut,
		TopTen:       v.TopTen,
		Win:          v.Win,
		GolferIDs:    append([]string(nil), v.GolferIDs...),
	}
}

func golferToDTO(v golfer.Golfer) golferDTO {
	return golferDTO{
		ID:            v.ID,
		Name:          v.Name,
		Country:       v.Country,
		WorldRank:     v.WorldRank,
		SkillEstimate: v.SkillEstimate,
	}
}

func standingsEntryToDTO(v standings.Entry) standingsEntryDTO {
	return standingsEntryDTO{
		TourCardID:   v.TourCardID,
		DisplayName:  v.DisplayName,
		Rank:         v.SeasonRank,
		Points:       v.SeasonPoints,
		Earnings:     v.SeasonEarnings,
		CalculatedAt: v.CalculatedAt.UTC().Format(time.RFC3339),
	}
}
