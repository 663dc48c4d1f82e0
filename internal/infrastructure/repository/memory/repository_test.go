package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgctour/fantasy-golf/internal/domain/entrant"
	"github.com/pgctour/fantasy-golf/internal/domain/team"
	"github.com/pgctour/fantasy-golf/internal/domain/tier"
	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
)

func TestEntrantRepository_ReplaceFieldKeepsGroups(t *testing.T) {
	ctx := context.Background()
	repo := NewEntrantRepository(SeedEntrants())

	require.NoError(t, repo.AssignGroups(ctx, TournamentIDWasteManagement, map[string]int{
		"g-scheffler": 1,
		"g-mcilroy":   2,
	}))

	// Provider refresh drops McIlroy and adds a qualifier.
	require.NoError(t, repo.ReplaceField(ctx, TournamentIDWasteManagement, []entrant.Entrant{
		{GolferID: "g-scheffler"},
		{GolferID: "g-qualifier"},
	}))

	items, err := repo.ListByTournament(ctx, TournamentIDWasteManagement)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byGolfer := make(map[string]entrant.Entrant, len(items))
	for _, item := range items {
		byGolfer[item.GolferID] = item
	}
	assert.Equal(t, 1, byGolfer["g-scheffler"].Group, "published group must survive a field refresh")
	assert.Equal(t, 0, byGolfer["g-qualifier"].Group)
	assert.Equal(t, TournamentIDWasteManagement, byGolfer["g-qualifier"].TournamentID)

	hasGroups, err := repo.HasGroups(ctx, TournamentIDWasteManagement)
	require.NoError(t, err)
	assert.True(t, hasGroups)
}

func TestTournamentRepository_NextUpcomingAndLiveState(t *testing.T) {
	ctx := context.Background()
	repo := NewTournamentRepository(SeedTournaments())

	next, found, err := repo.GetNextUpcoming(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, TournamentIDWasteManagement, next.ID, "earliest start date wins")

	require.NoError(t, repo.UpdateStatus(ctx, TournamentIDWasteManagement, tournament.StatusActive))

	active, found, err := repo.GetActive(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, TournamentIDWasteManagement, active.ID)

	// With the first event active, the second becomes next in line.
	next, found, err = repo.GetNextUpcoming(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, TournamentIDPlayers, next.ID)

	at := time.Date(2026, 2, 6, 18, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLiveState(ctx, TournamentIDWasteManagement, 2, at))

	item, found, err := repo.GetByID(ctx, TournamentIDWasteManagement)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, item.CurrentRound)
	require.NotNil(t, item.LiveSyncedAt)
	assert.True(t, item.LiveSyncedAt.Equal(at))
}

func TestTeamRepository_UpdateBatchAndSeasonListing(t *testing.T) {
	ctx := context.Background()
	repo := NewTeamRepository(SeedTeams(), SeasonByTournament())

	teams, err := repo.ListByTournament(ctx, TournamentIDWasteManagement)
	require.NoError(t, err)
	require.Len(t, teams, 2)

	teams[0].Points = 550
	teams[0].Position = "1"
	require.NoError(t, repo.UpdateBatch(ctx, teams[:1]))

	updated, err := repo.ListByTournament(ctx, TournamentIDWasteManagement)
	require.NoError(t, err)
	byID := make(map[string]team.Team, len(updated))
	for _, item := range updated {
		byID[item.ID] = item
	}
	assert.Equal(t, 550, byID[teams[0].ID].Points)

	bySeason, err := repo.ListBySeason(ctx, SeasonID2026)
	require.NoError(t, err)
	assert.Len(t, bySeason, 2)

	none, err := repo.ListBySeason(ctx, "season-1999")
	require.NoError(t, err)
	assert.Empty(t, none)

	count, err := repo.CountByTournament(ctx, TournamentIDWasteManagement)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTierRepository_SelfSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewTierRepository(nil)

	item, found, err := repo.GetByName(ctx, tier.NameElevated)
	require.NoError(t, err)
	require.True(t, found)

	points, earnings := item.Award(1)
	assert.Equal(t, 550, points)
	assert.Equal(t, int64(270000), earnings)

	_, found, err = repo.GetByName(ctx, "no-such-tier")
	require.NoError(t, err)
	assert.False(t, found)
}
