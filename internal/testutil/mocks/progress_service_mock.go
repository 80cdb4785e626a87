package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"woodpecker/internal/models"
)

// MockProgressService is a mock implementation of services.ProgressService
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) TouchStreak(ctx context.Context, userID string, now time.Time) (models.StreakState, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(models.StreakState), args.Error(1)
}

func (m *MockProgressService) AwardCycle(ctx context.Context, cycle models.Cycle, stats models.CycleStats, bandMin int) (*models.XpAward, error) {
	args := m.Called(ctx, cycle, stats, bandMin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.XpAward), args.Error(1)
}

func (m *MockProgressService) AwardReview(ctx context.Context, userID string, correct bool) (*models.XpAward, error) {
	args := m.Called(ctx, userID, correct)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.XpAward), args.Error(1)
}

func (m *MockProgressService) EvaluateAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Achievement), args.Error(1)
}

func (m *MockProgressService) ListAchievements(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserAchievement), args.Error(1)
}

func (m *MockProgressService) Summary(ctx context.Context, userID string) (*models.ProgressSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressSummary), args.Error(1)
}
