package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"woodpecker/internal/models"
)

// MockCycleRepository is a mock implementation of repository.CycleRepository
type MockCycleRepository struct {
	mock.Mock
}

func (m *MockCycleRepository) Insert(ctx context.Context, c models.Cycle) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCycleRepository) Get(ctx context.Context, id int64) (*models.Cycle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cycle), args.Error(1)
}

func (m *MockCycleRepository) ActiveForSet(ctx context.Context, setID int64) (*models.Cycle, error) {
	args := m.Called(ctx, setID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cycle), args.Error(1)
}

func (m *MockCycleRepository) MaxIndexForSet(ctx context.Context, setID int64) (int, error) {
	args := m.Called(ctx, setID)
	return args.Int(0), args.Error(1)
}

func (m *MockCycleRepository) UpdateState(ctx context.Context, id int64, state models.CycleState, completedAt *time.Time) error {
	args := m.Called(ctx, id, state, completedAt)
	return args.Error(0)
}

func (m *MockCycleRepository) InsertAttempt(ctx context.Context, a models.Attempt) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCycleRepository) AttemptsForCycle(ctx context.Context, cycleID int64) ([]models.Attempt, error) {
	args := m.Called(ctx, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attempt), args.Error(1)
}

func (m *MockCycleRepository) InsertReviewAttempt(ctx context.Context, userID, puzzleID string, correct bool, timeMs int64) error {
	args := m.Called(ctx, userID, puzzleID, correct, timeMs)
	return args.Error(0)
}

func (m *MockCycleRepository) OutcomesForUser(ctx context.Context, userID string) ([]models.PuzzleOutcome, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PuzzleOutcome), args.Error(1)
}
