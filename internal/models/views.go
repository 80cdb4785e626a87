package models

// CycleCompletion bundles everything that happens when the last attempt
// of a cycle lands: derived statistics, the XP award (nil when the award
// already existed), the updated streak, and any freshly unlocked
// achievements.
type CycleCompletion struct {
	Stats        CycleStats    `json:"stats"`
	Award        *XpAward      `json:"award,omitempty"`
	Streak       StreakState   `json:"streak"`
	Achievements []Achievement `json:"achievements,omitempty"`
}

// AttemptResult is the response to an attempt submission. Completion is
// set only when this attempt was the cycle's final one.
type AttemptResult struct {
	Attempt    Attempt          `json:"attempt"`
	Completed  bool             `json:"completed"`
	Completion *CycleCompletion `json:"completion,omitempty"`
}

// ReviewResult is the response to a standalone review attempt.
type ReviewResult struct {
	PuzzleID     string        `json:"puzzle_id"`
	Correct      bool          `json:"correct"`
	Award        *XpAward      `json:"award,omitempty"`
	Achievements []Achievement `json:"achievements,omitempty"`
}

// ProgressSummary is the single-screen progress view.
type ProgressSummary struct {
	UserID        string      `json:"user_id"`
	Level         int         `json:"level"`
	XpToNextLevel int         `json:"xp_to_next_level"`
	Streak        StreakState `json:"streak"`
	Stats         UserStats   `json:"stats"`
	WeakPuzzles   int         `json:"weak_puzzles"`
}

// ImportReport summarizes one catalog import run.
type ImportReport struct {
	Read     int `json:"read"`
	Imported int `json:"imported"`
	Invalid  int `json:"invalid"`
	Skipped  int `json:"skipped"` // duplicates already in the catalog
}
