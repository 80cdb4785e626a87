package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/repository"
)

type streakRepository struct {
	db *sql.DB
}

// NewStreakRepository creates a new StreakRepository implementation
func NewStreakRepository(db *sql.DB) repository.StreakRepository {
	return &streakRepository{db: db}
}

func (r *streakRepository) Get(ctx context.Context, userID string) (*models.StreakState, error) {
	log := logger.FromContext(ctx).WithPrefix("streak_repo")

	var s models.StreakState
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, current, longest, last_active_day, grace_used
FROM streaks
WHERE user_id = ?
`, userID).Scan(&s.UserID, &s.Current, &s.Longest, &s.LastActiveDay, &s.GraceUsed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A user with no row simply has no streak yet.
			return &models.StreakState{UserID: userID}, nil
		}
		log.Error("failed to get streak: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *streakRepository) Upsert(ctx context.Context, s models.StreakState) error {
	log := logger.FromContext(ctx).WithPrefix("streak_repo")
	log.Debug("upserting streak: user_id=%s, current=%d, longest=%d", s.UserID, s.Current, s.Longest)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO streaks (user_id, current, longest, last_active_day, grace_used)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    current = excluded.current,
    longest = excluded.longest,
    last_active_day = excluded.last_active_day,
    grace_used = excluded.grace_used
`, s.UserID, s.Current, s.Longest, s.LastActiveDay, s.GraceUsed)
	if err != nil {
		log.Error("failed to upsert streak: %v", err)
	}
	return err
}
