package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"woodpecker/internal/models"
)

// MockPuzzleRepository is a mock implementation of repository.PuzzleRepository
type MockPuzzleRepository struct {
	mock.Mock
}

func (m *MockPuzzleRepository) Get(ctx context.Context, id string) (*models.Puzzle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Puzzle), args.Error(1)
}

func (m *MockPuzzleRepository) List(ctx context.Context, filter models.PuzzleFilter) ([]models.Puzzle, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Puzzle), args.Error(1)
}

func (m *MockPuzzleRepository) Count(ctx context.Context, filter models.PuzzleFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockPuzzleRepository) Insert(ctx context.Context, p models.Puzzle) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPuzzleRepository) InsertBatch(ctx context.Context, puzzles []models.Puzzle) (int, error) {
	args := m.Called(ctx, puzzles)
	return args.Int(0), args.Error(1)
}

func (m *MockPuzzleRepository) RatingsByID(ctx context.Context, ids []string) (map[string]int, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}
