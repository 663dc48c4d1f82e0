package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgctour/fantasy-golf/internal/domain/tier"
	"github.com/pgctour/fantasy-golf/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads reference and demo data into an empty database. It is
// a no-op once any season exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM seasons`); err != nil {
		return fmt.Errorf("count seasons for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, s := range memory.SeedSeasons() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO seasons (id, year) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			s.ID, s.Year)
		if err != nil {
			return fmt.Errorf("seed season %s: %w", s.ID, err)
		}
	}

	for _, item := range tier.DefaultTables() {
		points := make(pq.Int64Array, 0, len(item.Points))
		for _, value := range item.Points {
			points = append(points, int64(value))
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tiers (name, points, payouts) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`,
			item.Name, points, pq.Int64Array(item.Payouts))
		if err != nil {
			return fmt.Errorf("seed tier %s: %w", item.Name, err)
		}
	}

	for _, t := range memory.SeedTournaments() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO tournaments (id, season_id, tier_name, name, provider_id, start_date, end_date, status, course_par)
VALUES (:id, :season_id, :tier_name, :name, :provider_id, :start_date, :end_date, :status, :course_par)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":          t.ID,
			"season_id":   t.SeasonID,
			"tier_name":   t.TierName,
			"name":        t.Name,
			"provider_id": t.ProviderID,
			"start_date":  t.StartDate,
			"end_date":    t.EndDate,
			"status":      t.Status,
			"course_par":  t.CoursePar,
		})
		if err != nil {
			return fmt.Errorf("bind seed tournament %s query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed tournament %s: %w", t.ID, err)
		}
	}

	for _, g := range memory.SeedGolfers() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO golfers (id, provider_id, name, country, world_rank, skill_estimate)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (provider_id) DO NOTHING`,
			g.ID, g.ProviderID, g.Name, g.Country,
			intPtrToNullInt64(g.WorldRank), floatPtrToNullFloat64(g.SkillEstimate))
		if err != nil {
			return fmt.Errorf("seed golfer %s: %w", g.ID, err)
		}
	}

	for _, e := range memory.SeedEntrants() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entrants (tournament_id, golfer_id, group_number)
VALUES ($1, $2, $3)
ON CONFLICT (tournament_id, golfer_id) DO NOTHING`,
			e.TournamentID, e.GolferID, e.Group)
		if err != nil {
			return fmt.Errorf("seed entrant %s/%s: %w", e.TournamentID, e.GolferID, err)
		}
	}

	for _, c := range memory.SeedTourCards() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tour_cards (id, season_id, member_id, tour_id, display_name)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING`,
			c.ID, c.SeasonID, c.MemberID, c.TourID, c.DisplayName)
		if err != nil {
			return fmt.Errorf("seed tour card %s: %w", c.ID, err)
		}
	}

	for _, t := range memory.SeedTeams() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO teams (id, tournament_id, tour_card_id, display_name, golfer_ids)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING`,
			t.ID, t.TournamentID, t.TourCardID, t.DisplayName, pq.StringArray(t.GolferIDs))
		if err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
