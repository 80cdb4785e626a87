package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"woodpecker/internal/models"
)

// MockAchievementRepository is a mock implementation of repository.AchievementRepository
type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) UnlockedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockAchievementRepository) InsertUnlock(ctx context.Context, ua models.UserAchievement) error {
	args := m.Called(ctx, ua)
	return args.Error(0)
}

func (m *MockAchievementRepository) ListUnlocked(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserAchievement), args.Error(1)
}
