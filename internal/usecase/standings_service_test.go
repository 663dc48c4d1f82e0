package usecase

import (
	"context"
	"testing"

	"github.com/pgctour/fantasy-golf/internal/domain/standings"
	"github.com/pgctour/fantasy-golf/internal/domain/team"
	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
	"github.com/pgctour/fantasy-golf/internal/infrastructure/repository/memory"
	"github.com/pgctour/fantasy-golf/internal/platform/logging"
)

func standingsFixture() (*StandingsService, *memory.StandingsRepository) {
	completed := memory.SeedTournaments()
	completed[0].Status = tournament.StatusCompleted

	tournamentRepo := memory.NewTournamentRepository(completed)
	teamRepo := memory.NewTeamRepository([]team.Team{
		{
			ID:           "team-wm-ace",
			TournamentID: memory.TournamentIDWasteManagement,
			TourCardID:   "tc-2026-ace",
			DisplayName:  "Ace",
			Points:       550,
			Earnings:     270000,
		},
		{
			ID:           "team-wm-birdie",
			TournamentID: memory.TournamentIDWasteManagement,
			TourCardID:   "tc-2026-birdie",
			DisplayName:  "Birdie Machine",
			Points:       300,
			Earnings:     162000,
		},
		{
			// Still-active tournament: its points must not leak into the table.
			ID:           "team-players-birdie",
			TournamentID: memory.TournamentIDPlayers,
			TourCardID:   "tc-2026-birdie",
			DisplayName:  "Birdie Machine",
			Points:       750,
			Earnings:     360000,
		},
	}, memory.SeasonByTournament())
	tourCardRepo := memory.NewTourCardRepository(memory.SeedTourCards())
	standingsRepo := memory.NewStandingsRepository()

	svc := NewStandingsService(tournamentRepo, teamRepo, tourCardRepo, standingsRepo, logging.NewNop())
	return svc, standingsRepo
}

func TestRecompute_CountsOnlyCompletedTournaments(t *testing.T) {
	svc, standingsRepo := standingsFixture()

	if err := svc.Recompute(context.Background(), memory.SeasonID2026); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	entries, err := standingsRepo.ListBySeason(context.Background(), memory.SeasonID2026)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want one per tour card", len(entries))
	}

	if entries[0].TourCardID != "tc-2026-ace" || entries[0].SeasonPoints != 550 || entries[0].SeasonRank != 1 {
		t.Fatalf("unexpected leader row: %+v", entries[0])
	}
	if entries[1].TourCardID != "tc-2026-birdie" || entries[1].SeasonPoints != 300 {
		t.Fatalf("active tournament points leaked into row: %+v", entries[1])
	}
	// A card with no completed results still gets a zero row.
	if entries[2].TourCardID != "tc-2026-shank" || entries[2].SeasonPoints != 0 || entries[2].SeasonRank != 3 {
		t.Fatalf("unexpected zero row: %+v", entries[2])
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	svc, standingsRepo := standingsFixture()

	ctx := context.Background()
	if err := svc.Recompute(ctx, memory.SeasonID2026); err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	first, _ := standingsRepo.ListBySeason(ctx, memory.SeasonID2026)

	if err := svc.Recompute(ctx, memory.SeasonID2026); err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	second, _ := standingsRepo.ListBySeason(ctx, memory.SeasonID2026)

	if len(first) != len(second) {
		t.Fatalf("entry count changed across recomputes: %d vs %d", len(first), len(second))
	}
	// A no-change recompute keeps the stored rows, timestamps included.
	for idx := range first {
		if first[idx] != second[idx] {
			t.Fatalf("row %d changed across recomputes: %+v vs %+v", idx, first[idx], second[idx])
		}
	}
}

func TestRankStandings_DenseRanks(t *testing.T) {
	entries := []standings.Entry{
		{TourCardID: "c", DisplayName: "C", SeasonPoints: 100, SeasonEarnings: 50},
		{TourCardID: "a", DisplayName: "A", SeasonPoints: 300, SeasonEarnings: 90},
		{TourCardID: "b", DisplayName: "B", SeasonPoints: 300, SeasonEarnings: 90},
		{TourCardID: "d", DisplayName: "D", SeasonPoints: 100, SeasonEarnings: 70},
	}

	RankStandings(entries)

	wantOrder := []string{"a", "b", "d", "c"}
	wantRanks := []int{1, 1, 2, 3}
	for idx := range entries {
		if entries[idx].TourCardID != wantOrder[idx] {
			t.Fatalf("slot %d = %s, want %s", idx, entries[idx].TourCardID, wantOrder[idx])
		}
		if entries[idx].SeasonRank != wantRanks[idx] {
			t.Fatalf("rank for %s = %d, want %d", entries[idx].TourCardID, entries[idx].SeasonRank, wantRanks[idx])
		}
	}
}

func TestRecompute_RequiresSeasonID(t *testing.T) {
	svc, _ := standingsFixture()
	if err := svc.Recompute(context.Background(), "  "); err == nil {
		t.Fatalf("expected invalid input error for blank season id")
	}
}
