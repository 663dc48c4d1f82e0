package memory

import (
	"time"

	"github.com/pgctour/fantasy-golf/internal/domain/entrant"
	"github.com/pgctour/fantasy-golf/internal/domain/golfer"
	"github.com/pgctour/fantasy-golf/internal/domain/season"
	"github.com/pgctour/fantasy-golf/internal/domain/team"
	"github.com/pgctour/fantasy-golf/internal/domain/tier"
	"github.com/pgctour/fantasy-golf/internal/domain/tourcard"
	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
)

const (
	SeasonID2026 = "season-2026"

	TournamentIDWasteManagement = "wm-phoenix-open-2026"
	TournamentIDPlayers         = "the-players-2026"
)

func SeedSeasons() []season.Season {
	return []season.Season{
		{ID: SeasonID2026, Year: 2026},
	}
}

func SeedTournaments() []tournament.Tournament {
	return []tournament.Tournament{
		{
			ID:         TournamentIDWasteManagement,
			SeasonID:   SeasonID2026,
			TierName:   tier.NameElevated,
			Name:       "WM Phoenix Open",
			ProviderID: "521",
			StartDate:  time.Date(2026, 2, 5, 14, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, 2, 8, 23, 0, 0, 0, time.UTC),
			Status:     tournament.StatusUpcoming,
			CoursePar:  71,
		},
		{
			ID:         TournamentIDPlayers,
			SeasonID:   SeasonID2026,
			TierName:   tier.NameMajor,
			Name:       "The Players Championship",
			ProviderID: "11",
			StartDate:  time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC),
			Status:     tournament.StatusUpcoming,
			CoursePar:  72,
		},
	}
}

func SeedGolfers() []golfer.Golfer {
	return []golfer.Golfer{
		{ID: "g-scheffler", ProviderID: "18417", Name: "Scottie Scheffler", Country: "USA", WorldRank: intPtr(1), SkillEstimate: floatPtr(9.1)},
		{ID: "g-mcilroy", ProviderID: "10091", Name: "Rory McIlroy", Country: "NIR", WorldRank: intPtr(2), SkillEstimate: floatPtr(8.2)},
		{ID: "g-schauffele", ProviderID: "15466", Name: "Xander Schauffele", Country: "USA", WorldRank: intPtr(3), SkillEstimate: floatPtr(7.9)},
		{ID: "g-morikawa", ProviderID: "17511", Name: "Collin Morikawa", Country: "USA", WorldRank: intPtr(4), SkillEstimate: floatPtr(7.1)},
		{ID: "g-aberg", ProviderID: "23950", Name: "Ludvig Aberg", Country: "SWE", WorldRank: intPtr(5), SkillEstimate: floatPtr(6.8)},
		{ID: "g-hovland", ProviderID: "18841", Name: "Viktor Hovland", Country: "NOR", WorldRank: intPtr(6), SkillEstimate: floatPtr(6.4)},
		{ID: "g-clark", ProviderID: "16836", Name: "Wyndham Clark", Country: "USA", WorldRank: intPtr(7), SkillEstimate: floatPtr(5.9)},
		{ID: "g-fitzpatrick", ProviderID: "14636", Name: "Matt Fitzpatrick", Country: "ENG", WorldRank: intPtr(8), SkillEstimate: floatPtr(5.5)},
		{ID: "g-im", ProviderID: "19195", Name: "Sungjae Im", Country: "KOR", WorldRank: intPtr(9), SkillEstimate: floatPtr(5.3)},
		{ID: "g-theegala", ProviderID: "21821", Name: "Sahith Theegala", Country: "USA", WorldRank: intPtr(10), SkillEstimate: floatPtr(5.0)},
	}
}

func SeedEntrants() []entrant.Entrant {
	golfers := SeedGolfers()
	out := make([]entrant.Entrant, 0, len(golfers))
	for _, item := range golfers {
		out = append(out, entrant.Entrant{
			TournamentID: TournamentIDWasteManagement,
			GolferID:     item.ID,
		})
	}
	return out
}

func SeedTourCards() []tourcard.TourCard {
	return []tourcard.TourCard{
		{ID: "tc-2026-ace", SeasonID: SeasonID2026, MemberID: "m-ace", TourID: "pgc", DisplayName: "Ace"},
		{ID: "tc-2026-birdie", SeasonID: SeasonID2026, MemberID: "m-birdie", TourID: "pgc", DisplayName: "Birdie Machine"},
		{ID: "tc-2026-shank", SeasonID: SeasonID2026, MemberID: "m-shank", TourID: "pgc", DisplayName: "Shanks A Lot"},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{
			ID:           "team-wm-ace",
			TournamentID: TournamentIDWasteManagement,
			TourCardID:   "tc-2026-ace",
			DisplayName:  "Ace",
			GolferIDs:    []string{"g-scheffler", "g-morikawa", "g-hovland", "g-fitzpatrick", "g-theegala"},
		},
		{
			ID:           "team-wm-birdie",
			TournamentID: TournamentIDWasteManagement,
			TourCardID:   "tc-2026-birdie",
			DisplayName:  "Birdie Machine",
			GolferIDs:    []string{"g-mcilroy", "g-schauffele", "g-aberg", "g-clark", "g-im"},
		},
	}
}

// SeasonByTournament maps seeded tournaments to their season for the team
// repository's season listing.
func SeasonByTournament() map[string]string {
	out := make(map[string]string)
	for _, item := range SeedTournaments() {
		out[item.ID] = item.SeasonID
	}
	return out
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}
