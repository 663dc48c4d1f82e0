package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pgctour/fantasy-golf/internal/domain/golfer"
	"github.com/pgctour/fantasy-golf/internal/domain/team"
	"github.com/pgctour/fantasy-golf/internal/domain/tournament"
	"github.com/pgctour/fantasy-golf/internal/platform/logging"
)

// AggregationRule decides how a multi-golfer team folds member scores into
// one team score.
type AggregationRule string

const (
	AggregationSum   AggregationRule = "sum"
	AggregationBestN AggregationRule = "best-n"
)

type ScoringConfig struct {
	Aggregation    AggregationRule
	CountingScores int
}

func (c ScoringConfig) normalize() ScoringConfig {
	if c.Aggregation != AggregationBestN {
		c.Aggregation = AggregationSum
	}
	if c.CountingScores <= 0 {
		c.CountingScores = 1
	}
	return c
}

// ScoringService converts one provider snapshot plus each team's golfer
// picks into per-team round state, total score and position. It never
// triggers a standings recompute; that sequencing belongs to the sync
// coordinator.
type ScoringService struct {
	teamRepo   team.Repository
	golferRepo golfer.Repository
	cfg        ScoringConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewScoringService(teamRepo team.Repository, golferRepo golfer.Repository, cfg ScoringConfig, logger *logging.Logger) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		teamRepo:   teamRepo,
		golferRepo: golferRepo,
		cfg:        cfg.normalize(),
		logger:     logger,
		now:        time.Now,
	}
}

// UpdateTeams applies one sync cycle to every team in the tournament. Teams
// whose golfers have no live stats this cycle keep their carried-over state;
// the whole result lands through a single UpdateBatch call so a leaderboard
// read never observes a half-updated cycle.
func (s *ScoringService) UpdateTeams(ctx context.Context, tour tournament.Tournament, snap Snapshot) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.UpdateTeams")
	defer span.End()

	teams, err := s.teamRepo.ListByTournament(ctx, tour.ID)
	if err != nil {
		return 0, fmt.Errorf("list teams for scoring tournament=%s: %w", tour.ID, err)
	}
	if len(teams) == 0 {
		return 0, nil
	}

	providerIDByGolfer, err := s.providerIDIndex(ctx)
	if err != nil {
		return 0, err
	}

	stats := snap.LiveStatsByProviderID()
	updated := 0
	for idx := range teams {
		fresh := s.scoreTeam(ctx, &teams[idx], stats, providerIDByGolfer)
		if fresh {
			updated++
		}
	}

	AssignPositions(teams)

	if err := s.teamRepo.UpdateBatch(ctx, teams); err != nil {
		return 0, fmt.Errorf("apply scoring batch tournament=%s: %w", tour.ID, err)
	}

	return updated, nil
}

func (s *ScoringService) providerIDIndex(ctx context.Context) (map[string]string, error) {
	golfers, err := s.golferRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list golfers for scoring: %w", err)
	}
	out := make(map[string]string, len(golfers))
	for _, item := range golfers {
		out[item.ID] = item.ProviderID
	}
	return out, nil
}

// scoreTeam folds the member golfers' live stats into the team record.
// Returns false when no member had a stats row this cycle, in which case the
// team keeps its previous state as a carry-over.
func (s *ScoringService) scoreTeam(ctx context.Context, t *team.Team, stats map[string]LiveStatEntry, providerIDByGolfer map[string]string) bool {
	member := make([]LiveStatEntry, 0, len(t.GolferIDs))
	for _, golferID := range t.GolferIDs {
		providerID, ok := providerIDByGolfer[golferID]
		if !ok {
			s.logger.DebugContext(ctx, "golfer unknown, skipping for cycle", "team_id", t.ID, "golfer_id", golferID)
			continue
		}
		stat, ok := stats[providerID]
		if !ok {
			s.logger.DebugContext(ctx, "no live stats for golfer, skipping for cycle", "team_id", t.ID, "golfer_id", golferID)
			continue
		}
		member = append(member, stat)
	}
	if len(member) == 0 {
		return false
	}

	counted := s.countedStats(member)

	t.RoundScores = aggregateRounds(counted)
	t.Today = sumOptional(counted, func(e LiveStatEntry) *int { return e.Today })
	t.Thru = minOptional(counted, func(e LiveStatEntry) *int { return e.Thru })
	t.TotalScoreToPar = sumOptional(counted, func(e LiveStatEntry) *int { return e.Total })

	if status, ok := unanimousStatus(counted); ok {
		setPosition(t, status)
	} else if team.IsSpecialPosition(t.Position) {
		// Previous special status no longer applies once a counted member is
		// back to a numeric finish.
		setPosition(t, "")
	}

	return true
}

// countedStats applies the configured aggregation rule: all members for sum,
// the N lowest totals for best-n. Members without a total yet sort last, so
// they only count when there are not enough real scores to fill N.
func (s *ScoringService) countedStats(member []LiveStatEntry) []LiveStatEntry {
	if s.cfg.Aggregation != AggregationBestN || len(member) <= s.cfg.CountingScores {
		return member
	}

	ordered := make([]LiveStatEntry, len(member))
	copy(ordered, member)
	sort.SliceStable(ordered, func(i, j int) bool {
		left, right := ordered[i].Total, ordered[j].Total
		if left == nil {
			return false
		}
		if right == nil {
			return true
		}
		return *left < *right
	})
	return ordered[:s.cfg.CountingScores]
}

func aggregateRounds(counted []LiveStatEntry) [4]*int {
	var out [4]*int
	for round := 0; round < 4; round++ {
		sum := 0
		present := false
		for _, stat := range counted {
			if stat.RoundScores[round] == nil {
				continue
			}
			sum += *stat.RoundScores[round]
			present = true
		}
		if present {
			value := sum
			out[round] = &value
		}
	}
	return out
}

func sumOptional(counted []LiveStatEntry, pick func(LiveStatEntry) *int) *int {
	sum := 0
	present := false
	for _, stat := range counted {
		if value := pick(stat); value != nil {
			sum += *value
			present = true
		}
	}
	if !present {
		return nil
	}
	return &sum
}

func minOptional(counted []LiveStatEntry, pick func(LiveStatEntry) *int) *int {
	var min *int
	for _, stat := range counted {
		value := pick(stat)
		if value == nil {
			continue
		}
		if min == nil || *value < *min {
			v := *value
			min = &v
		}
	}
	return min
}

// unanimousStatus reports the special status shared by every counted member,
// if any. A team is only CUT/WD/DQ when all of its counted golfers are.
func unanimousStatus(counted []LiveStatEntry) (string, bool) {
	status := ""
	for idx, stat := range counted {
		normalized := strings.ToUpper(strings.TrimSpace(stat.Status))
		if normalized == "" {
			return "", false
		}
		if idx == 0 {
			status = normalized
			continue
		}
		if normalized != status {
			return "", false
		}
	}
	return status, status != ""
}

func setPosition(t *team.Team, position string) {
	if t.Position != position {
		t.PastPosition = t.Position
	}
	t.Position = position
}

// SortTeams orders teams for any leaderboard view: sort key ascending, then
// the team further through its round, then display name as the final
// deterministic tie-break.
func SortTeams(teams []team.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		leftKey, rightKey := teams[i].SortKey(), teams[j].SortKey()
		if leftKey != rightKey {
			return leftKey < rightKey
		}
		if teams[i].ThruHoles() != teams[j].ThruHoles() {
			return teams[i].ThruHoles() > teams[j].ThruHoles()
		}
		return teams[i].DisplayName < teams[j].DisplayName
	})
}

// AssignPositions sorts the slice in place and stamps position strings.
// Teams with an identical sort key and identical thru share a rank band and
// an identical position string, prefixed with "T" when the band holds two or
// more teams. Non-numeric finishes keep their CUT/WD/DQ label and make-cut,
// top-ten and win flags are refreshed from the final ordering.
func AssignPositions(teams []team.Team) {
	SortTeams(teams)

	bandStart := 0
	for idx := range teams {
		if idx > 0 && !sameBand(teams[idx], teams[idx-1]) {
			stampBand(teams, bandStart, idx)
			bandStart = idx
		}
	}
	stampBand(teams, bandStart, len(teams))
}

func sameBand(left, right team.Team) bool {
	return left.SortKey() == right.SortKey() && left.ThruHoles() == right.ThruHoles()
}

func stampBand(teams []team.Team, start, end int) {
	if start >= end {
		return
	}
	rank := start + 1
	tied := end-start > 1
	for idx := start; idx < end; idx++ {
		if team.IsSpecialPosition(teams[idx].Position) {
			teams[idx].MakeCut = false
			teams[idx].TopTen = false
			teams[idx].Win = false
			continue
		}
		label := strconv.Itoa(rank)
		if tied {
			label = "T" + label
		}
		setPosition(&teams[idx], label)
		teams[idx].MakeCut = true
		teams[idx].TopTen = rank <= 10
		teams[idx].Win = rank == 1
	}
}

// NumericRank resolves a team's finish rank within an already assigned
// ordering, or false for a non-numeric finish.
func NumericRank(t team.Team) (int, bool) {
	raw := strings.TrimPrefix(strings.TrimSpace(t.Position), "T")
	rank, err := strconv.Atoi(raw)
	if err != nil || rank <= 0 {
		return 0, false
	}
	return rank, true
}
