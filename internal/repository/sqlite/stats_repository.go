package sqlite

import (
	"context"
	"database/sql"

	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

// UserStats aggregates the cumulative snapshot achievement predicates and
// the progress summary read from. A "perfect" cycle is a completed cycle
// with no incorrect or skipped attempt; a set is "mastered" once it has
// at least one perfect cycle.
func (r *statsRepository) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("computing user stats: user_id=%s", userID)

	stats := &models.UserStats{UserID: userID}

	err := r.db.QueryRowContext(ctx, `
SELECT
    COUNT(*),
    COALESCE(SUM(correct), 0)
FROM (
    SELECT a.correct
    FROM attempts a
    JOIN cycles c ON c.id = a.cycle_id
    WHERE c.user_id = ?
    UNION ALL
    SELECT ra.correct FROM review_attempts ra WHERE ra.user_id = ?
)
`, userID, userID).Scan(&stats.TotalAttempts, &stats.CorrectAttempts)
	if err != nil {
		log.Error("failed to count attempts: %v", err)
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM cycles WHERE user_id = ? AND state = 'completed'
`, userID).Scan(&stats.CyclesCompleted)
	if err != nil {
		log.Error("failed to count cycles: %v", err)
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
SELECT COUNT(*), COUNT(DISTINCT set_id)
FROM cycles c
WHERE c.user_id = ? AND c.state = 'completed'
AND NOT EXISTS (
    SELECT 1 FROM attempts a
    WHERE a.cycle_id = c.id AND (a.correct = 0 OR a.skipped = 1)
)
`, userID).Scan(&stats.PerfectCycles, &stats.SetsMastered)
	if err != nil {
		log.Error("failed to count perfect cycles: %v", err)
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM puzzle_sets WHERE user_id = ?
`, userID).Scan(&stats.SetsCreated)
	if err != nil {
		log.Error("failed to count sets: %v", err)
		return nil, err
	}

	var current, longest sql.NullInt64
	err = r.db.QueryRowContext(ctx, `
SELECT current, longest FROM streaks WHERE user_id = ?
`, userID).Scan(&current, &longest)
	if err != nil && err != sql.ErrNoRows {
		log.Error("failed to read streak: %v", err)
		return nil, err
	}
	stats.CurrentStreak = int(current.Int64)
	stats.LongestStreak = int(longest.Int64)

	err = r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(total), 0) FROM xp_awards WHERE user_id = ?
`, userID).Scan(&stats.TotalXp)
	if err != nil {
		log.Error("failed to sum xp: %v", err)
		return nil, err
	}

	return stats, nil
}
