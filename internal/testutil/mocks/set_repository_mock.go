package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"woodpecker/internal/models"
)

// MockSetRepository is a mock implementation of repository.SetRepository
type MockSetRepository struct {
	mock.Mock
}

func (m *MockSetRepository) Insert(ctx context.Context, set models.PuzzleSet) (int64, error) {
	args := m.Called(ctx, set)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSetRepository) Get(ctx context.Context, id int64) (*models.PuzzleSet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PuzzleSet), args.Error(1)
}

func (m *MockSetRepository) ListByUser(ctx context.Context, userID string) ([]models.PuzzleSet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PuzzleSet), args.Error(1)
}
