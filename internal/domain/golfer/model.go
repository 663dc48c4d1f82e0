package golfer

// Golfer is the provider-backed identity of a professional player.
// WorldRank and SkillEstimate are refreshed by the weekly rankings job and
// may be absent for fringe entrants.
type Golfer struct {
	ID            string
	ProviderID    string
	Name          string
	Country       string
	WorldRank     *int
	SkillEstimate *float64
}
