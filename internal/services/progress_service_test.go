package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"woodpecker/internal/models"
	"woodpecker/internal/progress"
	"woodpecker/internal/services"
	"woodpecker/internal/testutil/mocks"
)

type progressServiceMocks struct {
	userRepo        *mocks.MockUserRepository
	puzzleRepo      *mocks.MockPuzzleRepository
	streakRepo      *mocks.MockStreakRepository
	xpRepo          *mocks.MockXpRepository
	achievementRepo *mocks.MockAchievementRepository
	statsRepo       *mocks.MockStatsRepository
	cycleRepo       *mocks.MockCycleRepository
}

func newProgressService() (services.ProgressService, *progressServiceMocks) {
	m := &progressServiceMocks{
		userRepo:        new(mocks.MockUserRepository),
		puzzleRepo:      new(mocks.MockPuzzleRepository),
		streakRepo:      new(mocks.MockStreakRepository),
		xpRepo:          new(mocks.MockXpRepository),
		achievementRepo: new(mocks.MockAchievementRepository),
		statsRepo:       new(mocks.MockStatsRepository),
		cycleRepo:       new(mocks.MockCycleRepository),
	}
	svc := services.NewProgressService(m.userRepo, m.puzzleRepo, m.streakRepo, m.xpRepo, m.achievementRepo, m.statsRepo, m.cycleRepo, 1, 2)
	return svc, m
}

func TestTouchStreak_SameDayIsNoOp(t *testing.T) {
	svc, m := newProgressService()
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	state := &models.StreakState{UserID: "u1", Current: 4, Longest: 6, LastActiveDay: "2026-03-02"}
	m.streakRepo.On("Get", mock.Anything, "u1").Return(state, nil)
	m.userRepo.On("Settings", mock.Anything, "u1").Return(nil, nil)

	got, err := svc.TouchStreak(context.Background(), "u1", now)
	require.NoError(t, err)
	assert.Equal(t, *state, got)
	m.streakRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestTouchStreak_NextDayAdvancesAndPersists(t *testing.T) {
	svc, m := newProgressService()
	now := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)

	state := &models.StreakState{UserID: "u1", Current: 4, Longest: 6, LastActiveDay: "2026-03-02"}
	m.streakRepo.On("Get", mock.Anything, "u1").Return(state, nil)
	m.userRepo.On("Settings", mock.Anything, "u1").Return(nil, nil)
	m.streakRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(s models.StreakState) bool {
		return s.Current == 5 && s.LastActiveDay == "2026-03-03"
	})).Return(nil)

	got, err := svc.TouchStreak(context.Background(), "u1", now)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Current)
	assert.Equal(t, 6, got.Longest)
	m.streakRepo.AssertExpectations(t)
}

func TestTouchStreak_UsesUserTimezone(t *testing.T) {
	svc, m := newProgressService()

	// 02:00 UTC on March 3rd is still March 2nd in New York, so this is a
	// same-day touch, not an advance.
	now := time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC)
	state := &models.StreakState{UserID: "u1", Current: 4, Longest: 6, LastActiveDay: "2026-03-02"}
	m.streakRepo.On("Get", mock.Anything, "u1").Return(state, nil)
	m.userRepo.On("Settings", mock.Anything, "u1").Return(&models.UserSettings{UserID: "u1", Timezone: "America/New_York"}, nil)

	got, err := svc.TouchStreak(context.Background(), "u1", now)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Current)
	m.streakRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAwardCycle_BuildsBreakdownFromRatings(t *testing.T) {
	svc, m := newProgressService()

	cycle := models.Cycle{ID: 7, UserID: "u1", Index: 1}
	stats := models.CycleStats{
		CycleID:          7,
		CycleIndex:       1,
		TotalPuzzles:     2,
		CorrectCount:     2,
		Accuracy:         1.0,
		CorrectPuzzleIDs: []string{"p1", "p2"},
	}

	m.puzzleRepo.On("RatingsByID", mock.Anything, []string{"p1", "p2"}).Return(map[string]int{"p1": 1450, "p2": 1400}, nil)
	m.streakRepo.On("Get", mock.Anything, "u1").Return(&models.StreakState{UserID: "u1", Current: 3}, nil)
	m.xpRepo.On("InsertAward", mock.Anything, mock.MatchedBy(func(a models.XpAward) bool {
		return a.Source == models.XpSourceCycle && a.CycleID != nil && *a.CycleID == 7
	})).Return(int64(11), nil)

	award, err := svc.AwardCycle(context.Background(), cycle, stats, 1400)
	require.NoError(t, err)
	require.NotNil(t, award)

	// Base 2*10, rating bonus (1450-1400)/25, streak bonus for 3 days,
	// accuracy bonus 22*1.0*0.25, rounded once on the total.
	assert.InDelta(t, 20, award.Breakdown.Base, 0.001)
	assert.InDelta(t, 2, award.Breakdown.RatingBonus, 0.001)
	assert.InDelta(t, 15, award.Breakdown.StreakBonus, 0.001)
	assert.InDelta(t, 5.5, award.Breakdown.AccuracyBonus, 0.001)
	assert.Equal(t, 43, award.Total)
	assert.EqualValues(t, 11, award.ID)
}

func TestAwardReview_IncorrectAwardsNothing(t *testing.T) {
	svc, m := newProgressService()

	award, err := svc.AwardReview(context.Background(), "u1", false)
	require.NoError(t, err)
	assert.Nil(t, award)
	m.xpRepo.AssertNotCalled(t, "InsertAward", mock.Anything, mock.Anything)
}

func TestAwardReview_CorrectAwardsFlatXp(t *testing.T) {
	svc, m := newProgressService()

	m.xpRepo.On("InsertAward", mock.Anything, mock.MatchedBy(func(a models.XpAward) bool {
		return a.Source == models.XpSourceReview && a.CycleID == nil && a.Total == progress.ReviewXpPerCorrect
	})).Return(int64(3), nil)

	award, err := svc.AwardReview(context.Background(), "u1", true)
	require.NoError(t, err)
	require.NotNil(t, award)
	assert.Equal(t, progress.ReviewXpPerCorrect, award.Total)
	m.xpRepo.AssertExpectations(t)
}

func TestEvaluateAchievements_InsertsOnlyNewUnlocks(t *testing.T) {
	svc, m := newProgressService()

	stats := &models.UserStats{SetsCreated: 1, CyclesCompleted: 1}
	m.statsRepo.On("UserStats", mock.Anything, "u1").Return(stats, nil)
	m.achievementRepo.On("UnlockedIDs", mock.Anything, "u1").Return(map[string]bool{"first_set": true}, nil)
	m.achievementRepo.On("InsertUnlock", mock.Anything, mock.MatchedBy(func(ua models.UserAchievement) bool {
		return ua.AchievementID == "first_cycle" && ua.UserID == "u1"
	})).Return(nil)

	unlocked, err := svc.EvaluateAchievements(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "first_cycle", unlocked[0].ID)
	m.achievementRepo.AssertNumberOfCalls(t, "InsertUnlock", 1)
}

func TestSummary_CombinesStatsStreakAndWeakPuzzles(t *testing.T) {
	svc, m := newProgressService()

	stats := &models.UserStats{TotalXp: 0, CyclesCompleted: 2}
	streak := &models.StreakState{UserID: "u1", Current: 3, Longest: 5}
	outcomes := []models.PuzzleOutcome{
		{PuzzleID: "p1", Correct: false},
		{PuzzleID: "p1", Correct: false},
		{PuzzleID: "p2", Correct: true},
	}
	m.statsRepo.On("UserStats", mock.Anything, "u1").Return(stats, nil)
	m.xpRepo.On("TotalForUser", mock.Anything, "u1").Return(120, nil)
	m.streakRepo.On("Get", mock.Anything, "u1").Return(streak, nil)
	m.cycleRepo.On("OutcomesForUser", mock.Anything, "u1").Return(outcomes, nil)
	m.userRepo.On("Settings", mock.Anything, "u1").Return(nil, nil)

	summary, err := svc.Summary(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", summary.UserID)
	assert.Equal(t, 2, summary.Level)
	assert.Equal(t, 130, summary.XpToNextLevel)
	assert.Equal(t, *streak, summary.Streak)
	assert.Equal(t, 1, summary.WeakPuzzles, "p1 missed twice meets the default threshold")
}
