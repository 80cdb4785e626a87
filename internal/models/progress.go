package models

import "time"

// StreakState tracks day-granularity training continuity. LastActiveDay is
// a calendar date ("2006-01-02") in the user's timezone, not a timestamp.
type StreakState struct {
	UserID        string `json:"user_id"`
	Current       int    `json:"current"`
	Longest       int    `json:"longest"`
	LastActiveDay string `json:"last_active_day"`
	GraceUsed     bool   `json:"grace_used"` // the current run survived a missed day
}

// XpBreakdown enumerates every bonus kind explicitly so totals stay
// computable without reflection. No item may be negative.
type XpBreakdown struct {
	Base          float64 `json:"base"`
	RatingBonus   float64 `json:"rating_bonus"`
	StreakBonus   float64 `json:"streak_bonus"`
	AccuracyBonus float64 `json:"accuracy_bonus"`
}

func (b XpBreakdown) Sum() float64 {
	return b.Base + b.RatingBonus + b.StreakBonus + b.AccuracyBonus
}

const (
	XpSourceCycle  = "cycle"
	XpSourceReview = "review"
)

// XpAward is an immutable scoring event. Total is always the rounded sum
// of the breakdown. CycleID is set for cycle-completion awards and backs
// the one-award-per-cycle uniqueness constraint.
type XpAward struct {
	ID        int64       `json:"id"`
	UserID    string      `json:"user_id"`
	Source    string      `json:"source"`
	CycleID   *int64      `json:"cycle_id,omitempty"`
	Breakdown XpBreakdown `json:"breakdown"`
	Total     int         `json:"total"`
	CreatedAt time.Time   `json:"created_at"`
}

// WeakPuzzle is a derived view, recomputed on demand from attempt history.
type WeakPuzzle struct {
	PuzzleID  string `json:"puzzle_id"`
	MissCount int    `json:"miss_count"`
}

// PuzzleOutcome is a slim projection of one attempt (cycle or review)
// used when deriving the weak-puzzle pool.
type PuzzleOutcome struct {
	PuzzleID string
	Correct  bool
	At       time.Time
}

// UserStats is a read-only snapshot of cumulative statistics, the input
// to achievement predicates and the progress summary.
type UserStats struct {
	UserID          string `json:"user_id"`
	TotalAttempts   int    `json:"total_attempts"`
	CorrectAttempts int    `json:"correct_attempts"`
	CyclesCompleted int    `json:"cycles_completed"`
	PerfectCycles   int    `json:"perfect_cycles"`
	SetsCreated     int    `json:"sets_created"`
	SetsMastered    int    `json:"sets_mastered"`
	CurrentStreak   int    `json:"current_streak"`
	LongestStreak   int    `json:"longest_streak"`
	TotalXp         int    `json:"total_xp"`
}

type LeaderboardPeriod string

const (
	PeriodWeekly  LeaderboardPeriod = "weekly"
	PeriodAllTime LeaderboardPeriod = "alltime"
)

// LeaderboardEntry is a projection over the award ledger, never stored.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	XpTotal  int    `json:"xp_total"`
}
