package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/pgctour/fantasy-golf/internal/domain/season"
	"github.com/pgctour/fantasy-golf/internal/domain/team"
	"github.com/pgctour/fantasy-golf/internal/infrastructure/repository/memory"
	"github.com/pgctour/fantasy-golf/internal/platform/logging"
	"github.com/pgctour/fantasy-golf/internal/usecase"
)

const testJobToken = "job-secret"

type apiFixture struct {
	router       http.Handler
	dispatchRepo *memory.JobDispatchRepository
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	seasonRepo := memory.NewSeasonRepository([]season.Season{{ID: memory.SeasonID2026, Year: 2026}})
	tournamentRepo := memory.NewTournamentRepository(memory.SeedTournaments())
	entrantRepo := memory.NewEntrantRepository(memory.SeedEntrants())
	golferRepo := memory.NewGolferRepository(memory.SeedGolfers())
	tierRepo := memory.NewTierRepository(nil)
	teamRepo := memory.NewTeamRepository([]team.Team{
		{
			ID: "team-wm-ace", TournamentID: memory.TournamentIDWasteManagement,
			TourCardID: "tc-2026-ace", DisplayName: "Ace", Position: "1",
		},
	}, memory.SeasonByTournament())
	tourCardRepo := memory.NewTourCardRepository(memory.SeedTourCards())
	standingsRepo := memory.NewStandingsRepository()
	dispatchRepo := memory.NewJobDispatchRepository()

	nop := logging.NewNop()
	leaderboardSvc := usecase.NewLeaderboardService(seasonRepo, tournamentRepo, teamRepo, entrantRepo, golferRepo)
	scoringSvc := usecase.NewScoringService(teamRepo, golferRepo, usecase.ScoringConfig{}, nop)
	standingsSvc := usecase.NewStandingsService(tournamentRepo, teamRepo, tourCardRepo, standingsRepo, nop)
	groupingSvc := usecase.NewGroupingService(tournamentRepo, entrantRepo, golferRepo, teamRepo, usecase.GroupingConfig{GroupSize: 5}, nop)
	syncSvc := usecase.NewSyncService(
		tournamentRepo, entrantRepo, golferRepo, tierRepo, teamRepo,
		nil, scoringSvc, standingsSvc, usecase.SyncConfig{}, nop,
	)
	repairSvc := usecase.NewRepairService(tournamentRepo, syncSvc, standingsSvc, usecase.RepairConfig{MaxWorkers: 2}, nop)
	orchestratorSvc := usecase.NewJobOrchestratorService(
		tournamentRepo, entrantRepo, syncSvc, usecase.NewNoopJobQueue(), dispatchRepo,
		usecase.JobOrchestratorConfig{}, nop,
	)

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(leaderboardSvc, standingsSvc, groupingSvc, syncSvc, repairSvc, orchestratorSvc, dispatchRepo, slogger)
	router := NewRouter(handler, slogger, []string{"*"}, testJobToken)

	return &apiFixture{router: router, dispatchRepo: dispatchRepo}
}

func (fx *apiFixture) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("X-Internal-Job-Token", token)
	}
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()
	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return envelope
}

func TestRouter_Healthz(t *testing.T) {
	fx := newAPIFixture(t)

	rec := fx.do(t, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRouter_ListSeasons(t *testing.T) {
	fx := newAPIFixture(t)

	rec := fx.do(t, http.MethodGet, "/v1/seasons", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	items, ok := envelope.Data.([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("data = %+v", envelope.Data)
	}
	row := items[0].(map[string]any)
	if row["id"] != memory.SeasonID2026 || row["year"] != float64(2026) {
		t.Fatalf("season row = %+v", row)
	}
}

func TestRouter_GetLeaderboard(t *testing.T) {
	fx := newAPIFixture(t)

	rec := fx.do(t, http.MethodGet, "/v1/tournaments/"+memory.TournamentIDWasteManagement+"/leaderboard", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	data := envelope.Data.(map[string]any)
	tour := data["tournament"].(map[string]any)
	if tour["id"] != memory.TournamentIDWasteManagement || tour["tier"] != "elevated" {
		t.Fatalf("tournament = %+v", tour)
	}
	teams := data["teams"].([]any)
	if len(teams) != 1 {
		t.Fatalf("teams = %+v", teams)
	}
	if teams[0].(map[string]any)["displayName"] != "Ace" {
		t.Fatalf("team row = %+v", teams[0])
	}
}

func TestRouter_LeaderboardNotFound(t *testing.T) {
	fx := newAPIFixture(t)

	rec := fx.do(t, http.MethodGet, "/v1/tournaments/no-such-open/leaderboard", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Errors[0].Reason != "notFound" {
		t.Fatalf("error = %+v", envelope.Error)
	}
}

func TestRouter_InternalJobsRequireToken(t *testing.T) {
	fx := newAPIFixture(t)

	rec := fx.do(t, http.MethodPost, "/v1/internal/jobs/assign-groups", `{"tournament_id":"x"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without token", rec.Code)
	}
}

func TestRouter_AssignGroupsJob(t *testing.T) {
	fx := newAPIFixture(t)

	body := `{"tournament_id":"` + memory.TournamentIDWasteManagement + `","force":true,"dispatch_id":"assign-groups-wm-20260120T120000Z"}`
	rec := fx.do(t, http.MethodPost, "/v1/internal/jobs/assign-groups", body, testJobToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, body %s, want 409 with picks already made", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error.Errors[0].Reason != "groupsLocked" {
		t.Fatalf("error = %+v", envelope.Error)
	}

	// Failed run still leaves its audit row under the supplied dispatch id.
	events := fx.dispatchRepo.Events()
	if len(events) != 1 || events[0].DispatchID != "assign-groups-wm-20260120T120000Z" {
		t.Fatalf("events = %+v", events)
	}
}

func TestRouter_SyncFieldJobValidatesPayload(t *testing.T) {
	fx := newAPIFixture(t)

	rec := fx.do(t, http.MethodPost, "/v1/internal/jobs/sync-field", `{}`, testJobToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error.Errors[0].Reason != "invalidInput" {
		t.Fatalf("error = %+v", envelope.Error)
	}
}

func TestRouter_RecomputeStandingsJob(t *testing.T) {
	fx := newAPIFixture(t)

	body := `{"season_id":"` + memory.SeasonID2026 + `"}`
	rec := fx.do(t, http.MethodPost, "/v1/internal/jobs/recompute-standings", body, testJobToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Manual trigger without a dispatch id mints one.
	events := fx.dispatchRepo.Events()
	if len(events) != 1 || !strings.HasPrefix(events[0].DispatchID, "manual-recompute-standings-") {
		t.Fatalf("events = %+v", events)
	}

	rec = fx.do(t, http.MethodGet, "/v1/seasons/"+memory.SeasonID2026+"/standings", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("standings status = %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	rows, ok := envelope.Data.([]any)
	if !ok || len(rows) != 3 {
		t.Fatalf("standings rows = %+v", envelope.Data)
	}
}

func TestRouter_RejectsUnknownJobFields(t *testing.T) {
	fx := newAPIFixture(t)

	rec := fx.do(t, http.MethodPost, "/v1/internal/jobs/recompute-standings", `{"season":"typo"}`, testJobToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want strict decoding to reject unknown fields", rec.Code)
	}
}

func TestTournamentToDTO_FormatsTimes(t *testing.T) {
	at := time.Date(2026, 2, 8, 22, 30, 0, 0, time.UTC)
	tours := memory.SeedTournaments()
	tours[0].LiveSyncedAt = &at

	dto := tournamentToDTO(tours[0])
	if dto.StartAt != "2026-02-05T14:00:00Z" {
		t.Fatalf("start at = %q", dto.StartAt)
	}
	if dto.LiveSyncedAt == nil || *dto.LiveSyncedAt != "2026-02-08T22:30:00Z" {
		t.Fatalf("live synced at = %v", dto.LiveSyncedAt)
	}
}
