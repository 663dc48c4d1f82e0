package season

// Season is created once per year and immutable afterwards.
type Season struct {
	ID   string
	Year int
}
