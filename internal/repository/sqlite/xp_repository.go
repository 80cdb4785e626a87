package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/repository"
)

type xpRepository struct {
	db *sql.DB
}

// NewXpRepository creates a new XpRepository implementation
func NewXpRepository(db *sql.DB) repository.XpRepository {
	return &xpRepository{db: db}
}

// InsertAward appends to the award ledger. Cycle-sourced awards carry a
// (user_id, cycle_id) uniqueness constraint, so a retried completion
// returns the already-stored award id instead of inserting twice.
func (r *xpRepository) InsertAward(ctx context.Context, a models.XpAward) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("xp_repo")
	log.Debug("inserting award: user_id=%s, source=%s, total=%d", a.UserID, a.Source, a.Total)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO xp_awards (user_id, source, cycle_id, base_xp, rating_bonus, streak_bonus, accuracy_bonus, total, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, cycle_id) WHERE cycle_id IS NOT NULL DO NOTHING
`, a.UserID, a.Source, a.CycleID, a.Breakdown.Base, a.Breakdown.RatingBonus, a.Breakdown.StreakBonus, a.Breakdown.AccuracyBonus, a.Total, a.CreatedAt)
	if err != nil {
		log.Error("failed to insert award: %v", err)
		return 0, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 && a.CycleID != nil {
		existing, err := r.AwardForCycle(ctx, a.UserID, *a.CycleID)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			log.Debug("award already exists for cycle %d: id=%d", *a.CycleID, existing.ID)
			return existing.ID, nil
		}
	}
	return res.LastInsertId()
}

func (r *xpRepository) AwardForCycle(ctx context.Context, userID string, cycleID int64) (*models.XpAward, error) {
	log := logger.FromContext(ctx).WithPrefix("xp_repo")

	var a models.XpAward
	var cid sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, source, cycle_id, base_xp, rating_bonus, streak_bonus, accuracy_bonus, total, created_at
FROM xp_awards
WHERE user_id = ? AND cycle_id = ?
`, userID, cycleID).Scan(&a.ID, &a.UserID, &a.Source, &cid, &a.Breakdown.Base, &a.Breakdown.RatingBonus, &a.Breakdown.StreakBonus, &a.Breakdown.AccuracyBonus, &a.Total, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error("failed to get award for cycle: %v", err)
		return nil, err
	}
	if cid.Valid {
		a.CycleID = &cid.Int64
	}
	return &a, nil
}

func (r *xpRepository) TotalForUser(ctx context.Context, userID string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("xp_repo")

	var total int
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(total), 0) FROM xp_awards WHERE user_id = ?
`, userID).Scan(&total)
	if err != nil {
		log.Error("failed to sum xp: %v", err)
		return 0, err
	}
	return total, nil
}

// LeaderboardTotals ranks users by summed XP. A nil since means all-time.
// Ties rank the earlier-created account higher; user id is the final
// tie-break so ordering stays deterministic.
func (r *xpRepository) LeaderboardTotals(ctx context.Context, since *time.Time, limit, offset int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("xp_repo")

	query := sqlBuilder.
		Select("u.id", "u.username", "SUM(x.total) AS xp").
		From("xp_awards x").
		Join("users u ON u.id = x.user_id").
		GroupBy("u.id").
		OrderBy("xp DESC", "u.created_at ASC", "u.id ASC")

	if since != nil {
		query = query.Where(squirrel.GtOrEq{"x.created_at": *since})
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build leaderboard query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query leaderboard: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.XpTotal); err != nil {
			log.Error("failed to scan leaderboard row: %v", err)
			return nil, err
		}
		e.Rank = offset + len(entries) + 1
		entries = append(entries, e)
	}
	log.Debug("leaderboard computed: %d entries", len(entries))
	return entries, rows.Err()
}
