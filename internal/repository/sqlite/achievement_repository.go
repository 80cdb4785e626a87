package sqlite

import (
	"context"
	"database/sql"

	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/repository"
)

type achievementRepository struct {
	db *sql.DB
}

// NewAchievementRepository creates a new AchievementRepository implementation
func NewAchievementRepository(db *sql.DB) repository.AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) UnlockedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT achievement_id FROM user_achievements WHERE user_id = ?
`, userID)
	if err != nil {
		log.Error("failed to list unlocked ids: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan achievement id: %v", err)
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// InsertUnlock is idempotent: re-unlocking an already-unlocked
// achievement is a no-op, never a duplicate.
func (r *achievementRepository) InsertUnlock(ctx context.Context, ua models.UserAchievement) error {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")
	log.Debug("unlocking achievement: user_id=%s, achievement=%s", ua.UserID, ua.AchievementID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_achievements (user_id, achievement_id, unlocked_at)
VALUES (?, ?, ?)
ON CONFLICT(user_id, achievement_id) DO NOTHING
`, ua.UserID, ua.AchievementID, ua.UnlockedAt)
	if err != nil {
		log.Error("failed to insert unlock: %v", err)
	}
	return err
}

func (r *achievementRepository) ListUnlocked(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, achievement_id, unlocked_at
FROM user_achievements
WHERE user_id = ?
ORDER BY unlocked_at DESC
`, userID)
	if err != nil {
		log.Error("failed to list unlocked achievements: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.UserAchievement
	for rows.Next() {
		var ua models.UserAchievement
		if err := rows.Scan(&ua.UserID, &ua.AchievementID, &ua.UnlockedAt); err != nil {
			log.Error("failed to scan unlock row: %v", err)
			return nil, err
		}
		out = append(out, ua)
	}
	return out, rows.Err()
}
