package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/tournaments", handler.ListTournamentsBySeason)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/standings", handler.ListSeasonStandings)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/groups", handler.ListGroups)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-live", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncLiveJob)))
	mux.Handle("POST /v1/internal/jobs/sync-field", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncFieldJob)))
	mux.Handle("POST /v1/internal/jobs/assign-groups", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAssignGroupsJob)))
	mux.Handle("POST /v1/internal/jobs/refresh-rankings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshRankingsJob)))
	mux.Handle("POST /v1/internal/jobs/recompute-standings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecomputeStandingsJob)))
	mux.Handle("POST /v1/internal/jobs/repair", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRepairJob)))
}
