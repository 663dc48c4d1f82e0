package postgres

import "time"

type seasonTableModel struct {
	ID        string    `db:"id"`
	Year      int       `db:"year"`
	CreatedAt time.Time `db:"created_at"`
}
