package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSettings holds per-user training preferences. Timezone is an IANA
// name ("America/Sao_Paulo"); an empty value means UTC.
type UserSettings struct {
	UserID        string `json:"user_id"`
	Timezone      string `json:"timezone"`
	WeakThreshold int    `json:"weak_threshold"`
}

type Puzzle struct {
	ID        string    `json:"id"`
	FEN       string    `json:"fen"`
	Moves     string    `json:"moves"` // space-separated UCI solution line
	Rating    int       `json:"rating"`
	Themes    []string  `json:"themes"`
	CreatedAt time.Time `json:"created_at"`
}

type PuzzleFilter struct {
	MinRating int
	MaxRating int
	Theme     string
	Limit     int
	Offset    int
}

// PuzzleSet is immutable once created: the ordered puzzle list never
// changes, every cycle replays the same sequence.
type PuzzleSet struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	MinRating  int       `json:"min_rating"`
	MaxRating  int       `json:"max_rating"`
	FocusTheme string    `json:"focus_theme,omitempty"`
	PuzzleIDs  []string  `json:"puzzle_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

type CycleState string

const (
	CycleInProgress CycleState = "in_progress"
	CycleCompleted  CycleState = "completed"
	CycleAbandoned  CycleState = "abandoned"
)

type Cycle struct {
	ID          int64      `json:"id"`
	SetID       int64      `json:"set_id"`
	UserID      string     `json:"user_id"`
	Index       int        `json:"cycle_index"` // 1-based, contiguous per set
	State       CycleState `json:"state"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Attempt is one response to one puzzle inside one cycle. A skip is
// stored as an attempt with Skipped=true, Correct=false.
type Attempt struct {
	ID        int64     `json:"id"`
	CycleID   int64     `json:"cycle_id"`
	PuzzleID  string    `json:"puzzle_id"`
	Position  int       `json:"position"` // index into the set's puzzle order
	Correct   bool      `json:"correct"`
	Skipped   bool      `json:"skipped"`
	TimeMs    int64     `json:"time_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// CycleStats is derived when a cycle completes.
type CycleStats struct {
	CycleID          int64    `json:"cycle_id"`
	SetID            int64    `json:"set_id"`
	CycleIndex       int      `json:"cycle_index"`
	TotalPuzzles     int      `json:"total_puzzles"`
	CorrectCount     int      `json:"correct_count"`
	SkippedCount     int      `json:"skipped_count"`
	Accuracy         float64  `json:"accuracy"`
	AvgTimeMs        float64  `json:"avg_time_ms"` // over non-skipped attempts
	CorrectPuzzleIDs []string `json:"correct_puzzle_ids"`
	MissedPuzzleIDs  []string `json:"missed_puzzle_ids"`
}
