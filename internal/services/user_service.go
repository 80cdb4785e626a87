package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"woodpecker/internal/errors"
	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/repository"
)

// UserService handles accounts and per-user settings
type UserService interface {
	CreateUser(ctx context.Context, username string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateSettings(ctx context.Context, settings models.UserSettings) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(ctx context.Context, username string) (*models.User, error) {
	log := logger.FromContext(ctx)

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, errors.NewValidationError("username", "must not be empty")
	}
	if len(username) > 64 {
		return nil, errors.NewValidationError("username", "must be at most 64 characters")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		log.Error("failed to check username: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return nil, errors.NewValidationError("username", "already taken")
	}

	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.userRepo.Insert(ctx, user); err != nil {
		log.Error("failed to insert user: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("user created: id=%s, username=%s", user.ID, username)
	return &user, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", id)
	}
	return user, nil
}

func (s *userService) UpdateSettings(ctx context.Context, settings models.UserSettings) error {
	log := logger.FromContext(ctx)

	if settings.Timezone != "" {
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			return errors.NewValidationError("timezone", "unknown IANA timezone")
		}
	}
	if settings.WeakThreshold < 0 {
		return errors.NewValidationError("weak_threshold", "must not be negative")
	}

	if err := s.userRepo.UpsertSettings(ctx, settings); err != nil {
		log.Error("failed to update settings: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
