package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Insert(ctx context.Context, u models.User) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("inserting user: id=%s, username=%s", u.ID, u.Username)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, username, created_at)
VALUES (?, ?, ?)
`, u.ID, u.Username, u.CreatedAt)
	if err != nil {
		log.Error("failed to insert user: %v", err)
	}
	return err
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, username, created_at FROM users WHERE id = ?
`, id).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found: id=%s", id)
			return nil, nil
		}
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, username, created_at FROM users WHERE username = ?
`, username).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error("failed to get user by username: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Settings(ctx context.Context, userID string) (*models.UserSettings, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var s models.UserSettings
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, timezone, weak_threshold FROM user_settings WHERE user_id = ?
`, userID).Scan(&s.UserID, &s.Timezone, &s.WeakThreshold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Absent settings fall back to defaults, not an error.
			return nil, nil
		}
		log.Error("failed to get user settings: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *userRepository) UpsertSettings(ctx context.Context, s models.UserSettings) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("upserting settings: user_id=%s, timezone=%s", s.UserID, s.Timezone)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_settings (user_id, timezone, weak_threshold)
VALUES (?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    timezone = excluded.timezone,
    weak_threshold = excluded.weak_threshold
`, s.UserID, s.Timezone, s.WeakThreshold)
	if err != nil {
		log.Error("failed to upsert settings: %v", err)
	}
	return err
}
