package usecase

import (
	"context"
	"testing"

	"github.com/pgctour/fantasy-golf/internal/domain/team"
	"github.com/pgctour/fantasy-golf/internal/infrastructure/repository/memory"
	"github.com/pgctour/fantasy-golf/internal/platform/logging"
)

func intp(v int) *int { return &v }

func TestUpdateTeams_AggregatesMemberStats(t *testing.T) {
	golferRepo := memory.NewGolferRepository(memory.SeedGolfers())
	teamRepo := memory.NewTeamRepository([]team.Team{
		{
			ID:           "team-a",
			TournamentID: memory.TournamentIDWasteManagement,
			TourCardID:   "tc-2026-ace",
			DisplayName:  "Ace",
			GolferIDs:    []string{"g-scheffler", "g-mcilroy"},
		},
		{
			ID:           "team-b",
			TournamentID: memory.TournamentIDWasteManagement,
			TourCardID:   "tc-2026-birdie",
			DisplayName:  "Birdie Machine",
			GolferIDs:    []string{"g-hovland"},
		},
	}, memory.SeasonByTournament())

	svc := NewScoringService(teamRepo, golferRepo, ScoringConfig{}, logging.NewNop())

	snap := Snapshot{
		ProviderEventID: "521",
		CurrentRound:    2,
		LiveStats: []LiveStatEntry{
			{
				ProviderID:  "18417", // Scheffler
				Today:       intp(-3),
				Thru:        intp(12),
				Total:       intp(-8),
				RoundScores: [4]*int{intp(-5), intp(-3), nil, nil},
			},
			{
				ProviderID:  "10091", // McIlroy
				Today:       intp(1),
				Thru:        intp(14),
				Total:       intp(-4),
				RoundScores: [4]*int{intp(-5), intp(1), nil, nil},
			},
			{
				ProviderID:  "18841", // Hovland
				Today:       intp(0),
				Thru:        intp(18),
				Total:       intp(-2),
				RoundScores: [4]*int{intp(-2), intp(0), nil, nil},
			},
		},
	}

	tours := memory.SeedTournaments()
	updated, err := svc.UpdateTeams(context.Background(), tours[0], snap)
	if err != nil {
		t.Fatalf("update teams: %v", err)
	}
	if updated != 2 {
		t.Fatalf("updated = %d, want 2", updated)
	}

	teams, err := teamRepo.ListByTournament(context.Background(), memory.TournamentIDWasteManagement)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	byID := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		byID[item.ID] = item
	}

	teamA := byID["team-a"]
	if teamA.TotalScoreToPar == nil || *teamA.TotalScoreToPar != -12 {
		t.Fatalf("team-a total = %v, want -12", teamA.TotalScoreToPar)
	}
	if teamA.Today == nil || *teamA.Today != -2 {
		t.Fatalf("team-a today = %v, want -2", teamA.Today)
	}
	// Thru is the least-progressed counted member.
	if teamA.Thru == nil || *teamA.Thru != 12 {
		t.Fatalf("team-a thru = %v, want 12", teamA.Thru)
	}
	if teamA.RoundScores[0] == nil || *teamA.RoundScores[0] != -10 {
		t.Fatalf("team-a round1 = %v, want -10", teamA.RoundScores[0])
	}
	if teamA.RoundScores[2] != nil {
		t.Fatalf("team-a round3 should be nil before the round starts")
	}

	// Lower total leads the board.
	if teamA.Position != "1" {
		t.Fatalf("team-a position = %q, want 1", teamA.Position)
	}
	if byID["team-b"].Position != "2" {
		t.Fatalf("team-b position = %q, want 2", byID["team-b"].Position)
	}
}

func TestUpdateTeams_CarryOverWhenNoStats(t *testing.T) {
	golferRepo := memory.NewGolferRepository(memory.SeedGolfers())
	prior := team.Team{
		ID:              "team-a",
		TournamentID:    memory.TournamentIDWasteManagement,
		TourCardID:      "tc-2026-ace",
		DisplayName:     "Ace",
		GolferIDs:       []string{"g-scheffler"},
		Today:           intp(-1),
		Thru:            intp(18),
		TotalScoreToPar: intp(-6),
		Position:        "1",
	}
	teamRepo := memory.NewTeamRepository([]team.Team{prior}, memory.SeasonByTournament())

	svc := NewScoringService(teamRepo, golferRepo, ScoringConfig{}, logging.NewNop())

	snap := Snapshot{ProviderEventID: "521", CurrentRound: 3}
	updated, err := svc.UpdateTeams(context.Background(), memory.SeedTournaments()[0], snap)
	if err != nil {
		t.Fatalf("update teams: %v", err)
	}
	if updated != 0 {
		t.Fatalf("updated = %d, want 0 carried-over", updated)
	}

	teams, _ := teamRepo.ListByTournament(context.Background(), memory.TournamentIDWasteManagement)
	if teams[0].TotalScoreToPar == nil || *teams[0].TotalScoreToPar != -6 {
		t.Fatalf("carried total = %v, want -6", teams[0].TotalScoreToPar)
	}
}

func TestUpdateTeams_UnanimousCutMarksTeam(t *testing.T) {
	golferRepo := memory.NewGolferRepository(memory.SeedGolfers())
	teamRepo := memory.NewTeamRepository([]team.Team{
		{
			ID:           "team-cut",
			TournamentID: memory.TournamentIDWasteManagement,
			TourCardID:   "tc-2026-shank",
			DisplayName:  "Shanks A Lot",
			GolferIDs:    []string{"g-clark", "g-im"},
		},
		{
			ID:           "team-live",
			TournamentID: memory.TournamentIDWasteManagement,
			TourCardID:   "tc-2026-ace",
			DisplayName:  "Ace",
			GolferIDs:    []string{"g-scheffler"},
		},
	}, memory.SeasonByTournament())

	svc := NewScoringService(teamRepo, golferRepo, ScoringConfig{}, logging.NewNop())

	snap := Snapshot{
		ProviderEventID: "521",
		CurrentRound:    3,
		LiveStats: []LiveStatEntry{
			{ProviderID: "16836", Status: "CUT", Total: intp(5)},
			{ProviderID: "19195", Status: "CUT", Total: intp(7)},
			{ProviderID: "18417", Total: intp(-9), Thru: intp(9), Today: intp(-2)},
		},
	}

	if _, err := svc.UpdateTeams(context.Background(), memory.SeedTournaments()[0], snap); err != nil {
		t.Fatalf("update teams: %v", err)
	}

	teams, _ := teamRepo.ListByTournament(context.Background(), memory.TournamentIDWasteManagement)
	byID := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		byID[item.ID] = item
	}

	cutTeam := byID["team-cut"]
	if cutTeam.Position != team.PositionCut {
		t.Fatalf("cut team position = %q, want CUT", cutTeam.Position)
	}
	if cutTeam.MakeCut || cutTeam.TopTen || cutTeam.Win {
		t.Fatalf("cut team must not carry make-cut/top-ten/win flags: %+v", cutTeam)
	}

	liveTeam := byID["team-live"]
	if liveTeam.Position != "1" {
		t.Fatalf("live team position = %q, want 1", liveTeam.Position)
	}
	if !liveTeam.Win {
		t.Fatalf("leading team should carry the win flag")
	}
}

func TestCountedStats_BestN(t *testing.T) {
	svc := NewScoringService(nil, nil, ScoringConfig{Aggregation: AggregationBestN, CountingScores: 2}, logging.NewNop())

	member := []LiveStatEntry{
		{ProviderID: "a", Total: intp(3)},
		{ProviderID: "b", Total: intp(-5)},
		{ProviderID: "c", Total: intp(-1)},
		{ProviderID: "d", Total: nil},
	}

	counted := svc.countedStats(member)
	if len(counted) != 2 {
		t.Fatalf("counted = %d entries, want 2", len(counted))
	}
	if counted[0].ProviderID != "b" || counted[1].ProviderID != "c" {
		t.Fatalf("counted order = %s,%s want b,c", counted[0].ProviderID, counted[1].ProviderID)
	}
}

func TestSortTeams_SpecialStatusesSortBelowNumeric(t *testing.T) {
	// The specials carry better raw totals than the worst numeric finisher,
	// yet must still sort below every numeric team, in CUT < WD < DQ order.
	teams := []team.Team{
		{ID: "dq", DisplayName: "DQ", TotalScoreToPar: intp(-12), Position: team.PositionDisqualified},
		{ID: "wd", DisplayName: "WD", TotalScoreToPar: intp(-10), Position: team.PositionWithdrawn},
		{ID: "last-numeric", DisplayName: "Last", TotalScoreToPar: intp(9), Thru: intp(18)},
		{ID: "cut", DisplayName: "Cut", TotalScoreToPar: intp(-8), Position: team.PositionCut},
		{ID: "leader", DisplayName: "Leader", TotalScoreToPar: intp(-6), Thru: intp(18)},
	}

	SortTeams(teams)

	wantOrder := []string{"leader", "last-numeric", "cut", "wd", "dq"}
	for idx, want := range wantOrder {
		if teams[idx].ID != want {
			t.Fatalf("slot %d = %s, want %s", idx, teams[idx].ID, want)
		}
	}
}

func TestAssignPositions_TieBands(t *testing.T) {
	teams := []team.Team{
		{ID: "d", DisplayName: "D", TotalScoreToPar: intp(-2), Thru: intp(18)},
		{ID: "a", DisplayName: "A", TotalScoreToPar: intp(-9), Thru: intp(18)},
		{ID: "b", DisplayName: "B", TotalScoreToPar: intp(-5), Thru: intp(16)},
		{ID: "c", DisplayName: "C", TotalScoreToPar: intp(-5), Thru: intp(16)},
		{ID: "e", DisplayName: "E", TotalScoreToPar: intp(4), Position: team.PositionCut},
	}

	AssignPositions(teams)

	want := []struct {
		id       string
		position string
	}{
		{"a", "1"},
		{"b", "T2"},
		{"c", "T2"},
		{"d", "4"},
		{"e", team.PositionCut},
	}
	for idx, expect := range want {
		if teams[idx].ID != expect.id || teams[idx].Position != expect.position {
			t.Fatalf("slot %d = %s/%q, want %s/%q", idx, teams[idx].ID, teams[idx].Position, expect.id, expect.position)
		}
	}

	if !teams[0].Win || !teams[0].TopTen {
		t.Fatalf("leader must carry win and top-ten flags")
	}
	if teams[4].MakeCut {
		t.Fatalf("cut team must not carry make-cut")
	}
}

func TestNumericRank(t *testing.T) {
	if rank, ok := NumericRank(team.Team{Position: "T3"}); !ok || rank != 3 {
		t.Fatalf("NumericRank(T3) = %d,%v want 3,true", rank, ok)
	}
	if _, ok := NumericRank(team.Team{Position: team.PositionWithdrawn}); ok {
		t.Fatalf("NumericRank(WD) must report false")
	}
	if _, ok := NumericRank(team.Team{Position: ""}); ok {
		t.Fatalf("NumericRank(empty) must report false")
	}
}
