package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"woodpecker/internal/models"
	"woodpecker/internal/testutil/mocks"
)

func newLockTestService(cycleRepo *mocks.MockCycleRepository, setRepo *mocks.MockSetRepository) *cycleService {
	return NewCycleService(
		cycleRepo,
		setRepo,
		new(mocks.MockPuzzleRepository),
		new(mocks.MockUserRepository),
		new(mocks.MockProgressService),
		2,
	).(*cycleService)
}

func lockEntryExists(s *cycleService, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.locks[id]
	return ok
}

func TestStartCycle_EvictsAbandonedCycleLock(t *testing.T) {
	cycleRepo := new(mocks.MockCycleRepository)
	setRepo := new(mocks.MockSetRepository)
	svc := newLockTestService(cycleRepo, setRepo)

	// Left behind by an earlier attempt on the cycle being abandoned.
	svc.lockCycle(9)
	require.True(t, lockEntryExists(svc, 9))

	setRepo.On("Get", mock.Anything, int64(1)).Return(&models.PuzzleSet{ID: 1, UserID: "u1", PuzzleIDs: []string{"p1"}}, nil)
	cycleRepo.On("ActiveForSet", mock.Anything, int64(1)).Return(&models.Cycle{ID: 9, SetID: 1, UserID: "u1", Index: 1, State: models.CycleInProgress}, nil)
	cycleRepo.On("UpdateState", mock.Anything, int64(9), models.CycleAbandoned, (*time.Time)(nil)).Return(nil)
	cycleRepo.On("MaxIndexForSet", mock.Anything, int64(1)).Return(1, nil)
	cycleRepo.On("Insert", mock.Anything, mock.Anything).Return(int64(10), nil)

	_, err := svc.StartCycle(context.Background(), 1, "u1")
	require.NoError(t, err)
	assert.False(t, lockEntryExists(svc, 9), "abandoned cycle must not keep a lock entry")
}

func TestSubmitAttempt_EvictsLockOnTerminalCycle(t *testing.T) {
	cycleRepo := new(mocks.MockCycleRepository)
	svc := newLockTestService(cycleRepo, new(mocks.MockSetRepository))

	cycleRepo.On("Get", mock.Anything, int64(5)).Return(&models.Cycle{ID: 5, SetID: 1, UserID: "u1", State: models.CycleAbandoned}, nil)

	_, err := svc.SubmitAttempt(context.Background(), 5, "u1", "p1", true, false, 0)
	require.Error(t, err)
	assert.False(t, lockEntryExists(svc, 5), "terminal cycle must not keep a lock entry")
}

func TestCompleteCycle_EvictsLockOnSuccess(t *testing.T) {
	cycleRepo := new(mocks.MockCycleRepository)
	setRepo := new(mocks.MockSetRepository)
	svc := newLockTestService(cycleRepo, setRepo)
	progressSvc := new(mocks.MockProgressService)
	svc.progressSvc = progressSvc

	cycleRepo.On("Get", mock.Anything, int64(5)).Return(&models.Cycle{ID: 5, SetID: 1, UserID: "u1", Index: 1, State: models.CycleCompleted}, nil)
	setRepo.On("Get", mock.Anything, int64(1)).Return(&models.PuzzleSet{ID: 1, UserID: "u1", MinRating: 1200, PuzzleIDs: []string{"p1"}}, nil)
	cycleRepo.On("AttemptsForCycle", mock.Anything, int64(5)).Return([]models.Attempt{
		{CycleID: 5, PuzzleID: "p1", Position: 0, Correct: true, TimeMs: 900},
	}, nil)
	progressSvc.On("TouchStreak", mock.Anything, "u1", mock.Anything).Return(models.StreakState{UserID: "u1", Current: 1}, nil)
	progressSvc.On("AwardCycle", mock.Anything, mock.Anything, mock.Anything, 1200).Return(&models.XpAward{UserID: "u1", Total: 13}, nil)
	progressSvc.On("EvaluateAchievements", mock.Anything, "u1").Return(nil, nil)

	_, err := svc.CompleteCycle(context.Background(), 5, "u1")
	require.NoError(t, err)
	assert.False(t, lockEntryExists(svc, 5))
}
