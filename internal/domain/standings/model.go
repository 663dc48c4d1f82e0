package standings

import "time"

// Entry is one tour card's season-to-date row. Entries are always written as
// a full per-season overwrite, never patched in place.
type Entry struct {
	SeasonID       string
	TourCardID     string
	DisplayName    string
	SeasonPoints   int
	SeasonEarnings int64
	SeasonRank     int
	CalculatedAt   time.Time
}
