package services_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"woodpecker/internal/errors"
	"woodpecker/internal/models"
	"woodpecker/internal/services"
	"woodpecker/internal/testutil/mocks"
)

func seededRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func catalogPuzzles(n int) []models.Puzzle {
	out := make([]models.Puzzle, n)
	for i := range out {
		out[i] = models.Puzzle{ID: string(rune('a' + i)), Rating: 1200 + i}
	}
	return out
}

func TestCreateSet_SamplesRequestedSize(t *testing.T) {
	puzzleRepo := new(mocks.MockPuzzleRepository)
	setRepo := new(mocks.MockSetRepository)
	svc := services.NewSetService(puzzleRepo, setRepo, seededRand())

	filter := models.PuzzleFilter{MinRating: 1200, MaxRating: 1400}
	puzzleRepo.On("Count", mock.Anything, filter).Return(10, nil)
	puzzleRepo.On("List", mock.Anything, filter).Return(catalogPuzzles(10), nil)
	setRepo.On("Insert", mock.Anything, mock.MatchedBy(func(set models.PuzzleSet) bool {
		return len(set.PuzzleIDs) == 5 && set.UserID == "u1"
	})).Return(int64(7), nil)

	set, err := svc.CreateSet(context.Background(), "u1", 1200, 1400, 5, "")
	require.NoError(t, err)
	assert.EqualValues(t, 7, set.ID)
	assert.Len(t, set.PuzzleIDs, 5)

	seen := map[string]bool{}
	for _, id := range set.PuzzleIDs {
		assert.False(t, seen[id])
		seen[id] = true
	}
	setRepo.AssertExpectations(t)
}

func TestCreateSet_InsufficientCandidates(t *testing.T) {
	puzzleRepo := new(mocks.MockPuzzleRepository)
	setRepo := new(mocks.MockSetRepository)
	svc := services.NewSetService(puzzleRepo, setRepo, seededRand())

	puzzleRepo.On("Count", mock.Anything, mock.Anything).Return(3, nil)

	_, err := svc.CreateSet(context.Background(), "u1", 1200, 1400, 5, "")
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInsufficientCandidates, appErr.Code)
	assert.Equal(t, 422, appErr.Status)
	puzzleRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	setRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateSet_Validation(t *testing.T) {
	svc := services.NewSetService(new(mocks.MockPuzzleRepository), new(mocks.MockSetRepository), seededRand())

	_, err := svc.CreateSet(context.Background(), "u1", 1200, 1400, 0, "")
	assert.Error(t, err)

	_, err = svc.CreateSet(context.Background(), "u1", 1600, 1400, 5, "")
	assert.Error(t, err)

	_, err = svc.CreateSet(context.Background(), "u1", 1200, 1400, services.MaxSetSize+1, "")
	assert.Error(t, err)
}

func TestGetSet_HidesForeignSets(t *testing.T) {
	puzzleRepo := new(mocks.MockPuzzleRepository)
	setRepo := new(mocks.MockSetRepository)
	svc := services.NewSetService(puzzleRepo, setRepo, seededRand())

	setRepo.On("Get", mock.Anything, int64(3)).Return(&models.PuzzleSet{ID: 3, UserID: "owner"}, nil)

	_, err := svc.GetSet(context.Background(), 3, "intruder")
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeSetNotFound, appErr.Code)
}
