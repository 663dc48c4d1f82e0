package entrant

// Entrant is one golfer in one tournament's field. Group is assigned exactly
// once before the tournament starts and is immutable afterwards; zero means
// unassigned. TeeTimes are informational metadata, never a grouping
// constraint.
type Entrant struct {
	TournamentID string
	GolferID     string
	Group        int
	TeeTimes     [4]string
}
