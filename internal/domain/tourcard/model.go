package tourcard

// TourCard is a member's seasonal identity: one per member per season.
// Picks and standings hang off the card, not the member, so a member's
// history stays intact across seasons.
type TourCard struct {
	ID          string
	SeasonID    string
	MemberID    string
	TourID      string
	DisplayName string
}
