package tier

// Tier is a tournament's prize class. Points and Payouts are indexed by
// finish rank, 1-based, and bounded by the table length.
type Tier struct {
	Name    string
	Points  []int
	Payouts []int64
}

// Award returns the points and payout for a finish rank. Ranks outside the
// table return (0, 0); the tier is agnostic to ties, any split policy belongs
// to the caller.
func (t Tier) Award(rank int) (int, int64) {
	points := 0
	if rank >= 1 && rank <= len(t.Points) {
		points = t.Points[rank-1]
	}
	var payout int64
	if rank >= 1 && rank <= len(t.Payouts) {
		payout = t.Payouts[rank-1]
	}
	return points, payout
}
