package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"woodpecker/internal/models"
)

func outcome(id string, correct bool, minute int) models.PuzzleOutcome {
	return models.PuzzleOutcome{
		PuzzleID: id,
		Correct:  correct,
		At:       time.Date(2026, 3, 1, 10, minute, 0, 0, time.UTC),
	}
}

func TestDeriveWeakPuzzles_ThresholdReached(t *testing.T) {
	outcomes := []models.PuzzleOutcome{
		outcome("p1", false, 0),
		outcome("p1", false, 1),
		outcome("p2", false, 2),
	}

	weak := DeriveWeakPuzzles(outcomes, 2)

	assert.Equal(t, []models.WeakPuzzle{{PuzzleID: "p1", MissCount: 2}}, weak)
}

func TestDeriveWeakPuzzles_LatestCorrectClears(t *testing.T) {
	outcomes := []models.PuzzleOutcome{
		outcome("p1", false, 0),
		outcome("p1", false, 1),
		outcome("p1", false, 2),
		outcome("p1", true, 3),
	}

	assert.Empty(t, DeriveWeakPuzzles(outcomes, 2))
}

func TestDeriveWeakPuzzles_MissAfterCorrectCountsAgain(t *testing.T) {
	outcomes := []models.PuzzleOutcome{
		outcome("p1", false, 0),
		outcome("p1", true, 1),
		outcome("p1", false, 2),
	}

	weak := DeriveWeakPuzzles(outcomes, 2)

	// Two misses total and the latest attempt was a miss.
	assert.Equal(t, []models.WeakPuzzle{{PuzzleID: "p1", MissCount: 2}}, weak)
}

func TestDeriveWeakPuzzles_SortedWorstFirst(t *testing.T) {
	outcomes := []models.PuzzleOutcome{
		outcome("p1", false, 0),
		outcome("p1", false, 1),
		outcome("p2", false, 2),
		outcome("p2", false, 3),
		outcome("p2", false, 4),
		outcome("p3", false, 5),
		outcome("p3", false, 6),
	}

	weak := DeriveWeakPuzzles(outcomes, 2)

	assert.Equal(t, []models.WeakPuzzle{
		{PuzzleID: "p2", MissCount: 3},
		{PuzzleID: "p1", MissCount: 2},
		{PuzzleID: "p3", MissCount: 2},
	}, weak)
}

func TestDeriveWeakPuzzles_ThresholdFloor(t *testing.T) {
	outcomes := []models.PuzzleOutcome{outcome("p1", false, 0)}

	// A threshold below 1 is treated as 1.
	weak := DeriveWeakPuzzles(outcomes, 0)
	assert.Equal(t, []models.WeakPuzzle{{PuzzleID: "p1", MissCount: 1}}, weak)
}

func TestDeriveWeakPuzzles_Empty(t *testing.T) {
	assert.Empty(t, DeriveWeakPuzzles(nil, 2))
}
