package postgres

import (
	"time"

	"github.com/lib/pq"
)

type tierTableModel struct {
	Name      string        `db:"name"`
	Points    pq.Int64Array `db:"points"`
	Payouts   pq.Int64Array `db:"payouts"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}
