package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"woodpecker/internal/models"
)

// MockXpRepository is a mock implementation of repository.XpRepository
type MockXpRepository struct {
	mock.Mock
}

func (m *MockXpRepository) InsertAward(ctx context.Context, a models.XpAward) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockXpRepository) AwardForCycle(ctx context.Context, userID string, cycleID int64) (*models.XpAward, error) {
	args := m.Called(ctx, userID, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.XpAward), args.Error(1)
}

func (m *MockXpRepository) TotalForUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockXpRepository) LeaderboardTotals(ctx context.Context, since *time.Time, limit, offset int) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, since, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}
