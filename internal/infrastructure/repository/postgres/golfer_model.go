package postgres

import (
	"database/sql"
	"time"
)

type golferTableModel struct {
	ID            string          `db:"id"`
	ProviderID    string          `db:"provider_id"`
	Name          string          `db:"name"`
	Country       string          `db:"country"`
	WorldRank     sql.NullInt64   `db:"world_rank"`
	SkillEstimate sql.NullFloat64 `db:"skill_estimate"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}
