package team

import "strings"

const (
	PositionCut          = "CUT"
	PositionWithdrawn    = "WD"
	PositionDisqualified = "DQ"
)

// Sort key offsets push non-numeric finishes below every numeric finisher
// while keeping their internal order by partial score.
const (
	cutKeyOffset = 444
	wdKeyOffset  = 888
	dqKeyOffset  = 999
)

// Team is one tour card's golfer picks for one tournament. All derived
// fields (scores, position, points, earnings) are owned by the sync
// pipeline; the record freezes once the tournament completes and standings
// have been folded in.
type Team struct {
	ID             string
	TournamentID   string
	TourCardID     string
	DisplayName    string
	GolferIDs      []string
	RoundScores    [4]*int
	Today          *int
	Thru           *int
	TotalScoreToPar *int
	Position       string
	PastPosition   string
	Points         int
	Earnings       int64
	MakeCut        bool
	TopTen         bool
	Win            bool
}

func IsSpecialPosition(position string) bool {
	switch strings.ToUpper(strings.TrimSpace(position)) {
	case PositionCut, PositionWithdrawn, PositionDisqualified:
		return true
	default:
		return false
	}
}

// SortKey derives the leaderboard ordering key. Lower is better. Teams with
// no score yet sort on zero until a live cycle fills them in.
func (t Team) SortKey() int {
	base := 0
	if t.TotalScoreToPar != nil {
		base = *t.TotalScoreToPar
	}
	switch strings.ToUpper(strings.TrimSpace(t.Position)) {
	case PositionDisqualified:
		return dqKeyOffset + base
	case PositionWithdrawn:
		return wdKeyOffset + base
	case PositionCut:
		return cutKeyOffset + base
	default:
		return base
	}
}

// ThruHoles returns holes completed in the current round, zero when unknown.
func (t Team) ThruHoles() int {
	if t.Thru == nil {
		return 0
	}
	return *t.Thru
}
