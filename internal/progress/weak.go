package progress

import (
	"sort"

	"woodpecker/internal/models"
)

// DeriveWeakPuzzles computes the review pool from a user's full attempt
// history (all sets, all cycles, plus standalone reviews). A puzzle is
// weak when its miss count reaches threshold AND its most recent attempt
// was a miss; solving a puzzle correctly clears it from the pool no
// matter how often it was missed before.
//
// Outcomes must be in chronological order. The result is sorted by miss
// count descending, then puzzle id, so the worst offenders surface first.
func DeriveWeakPuzzles(outcomes []models.PuzzleOutcome, threshold int) []models.WeakPuzzle {
	if threshold < 1 {
		threshold = 1
	}

	misses := make(map[string]int)
	lastCorrect := make(map[string]bool)
	for _, o := range outcomes {
		if !o.Correct {
			misses[o.PuzzleID]++
		}
		lastCorrect[o.PuzzleID] = o.Correct
	}

	var weak []models.WeakPuzzle
	for id, count := range misses {
		if count >= threshold && !lastCorrect[id] {
			weak = append(weak, models.WeakPuzzle{PuzzleID: id, MissCount: count})
		}
	}

	sort.Slice(weak, func(i, j int) bool {
		if weak[i].MissCount != weak[j].MissCount {
			return weak[i].MissCount > weak[j].MissCount
		}
		return weak[i].PuzzleID < weak[j].PuzzleID
	})
	return weak
}
