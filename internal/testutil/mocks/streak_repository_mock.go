package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"woodpecker/internal/models"
)

// MockStreakRepository is a mock implementation of repository.StreakRepository
type MockStreakRepository struct {
	mock.Mock
}

func (m *MockStreakRepository) Get(ctx context.Context, userID string) (*models.StreakState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StreakState), args.Error(1)
}

func (m *MockStreakRepository) Upsert(ctx context.Context, s models.StreakState) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
