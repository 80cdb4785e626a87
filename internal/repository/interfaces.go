package repository

import (
	"context"
	"time"

	"woodpecker/internal/models"
)

// PuzzleRepository handles catalog data access. The catalog is read-only
// to the training core; writes happen only through the importer.
type PuzzleRepository interface {
	Get(ctx context.Context, id string) (*models.Puzzle, error)
	List(ctx context.Context, filter models.PuzzleFilter) ([]models.Puzzle, error)
	Count(ctx context.Context, filter models.PuzzleFilter) (int, error)
	Insert(ctx context.Context, p models.Puzzle) error
	InsertBatch(ctx context.Context, puzzles []models.Puzzle) (int, error)
	RatingsByID(ctx context.Context, ids []string) (map[string]int, error)
}

// UserRepository handles user and settings data access
type UserRepository interface {
	Insert(ctx context.Context, u models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Settings(ctx context.Context, userID string) (*models.UserSettings, error)
	UpsertSettings(ctx context.Context, s models.UserSettings) error
}

// SetRepository handles puzzle-set data access
type SetRepository interface {
	Insert(ctx context.Context, set models.PuzzleSet) (int64, error)
	Get(ctx context.Context, id int64) (*models.PuzzleSet, error)
	ListByUser(ctx context.Context, userID string) ([]models.PuzzleSet, error)
}

// CycleRepository handles cycle and attempt data access
type CycleRepository interface {
	Insert(ctx context.Context, c models.Cycle) (int64, error)
	Get(ctx context.Context, id int64) (*models.Cycle, error)
	ActiveForSet(ctx context.Context, setID int64) (*models.Cycle, error)
	MaxIndexForSet(ctx context.Context, setID int64) (int, error)
	UpdateState(ctx context.Context, id int64, state models.CycleState, completedAt *time.Time) error
	InsertAttempt(ctx context.Context, a models.Attempt) (int64, error)
	AttemptsForCycle(ctx context.Context, cycleID int64) ([]models.Attempt, error)
	InsertReviewAttempt(ctx context.Context, userID, puzzleID string, correct bool, timeMs int64) error
	OutcomesForUser(ctx context.Context, userID string) ([]models.PuzzleOutcome, error)
}

// StreakRepository handles streak state data access
type StreakRepository interface {
	Get(ctx context.Context, userID string) (*models.StreakState, error)
	Upsert(ctx context.Context, s models.StreakState) error
}

// XpRepository handles the award ledger and its aggregations
type XpRepository interface {
	InsertAward(ctx context.Context, a models.XpAward) (int64, error)
	AwardForCycle(ctx context.Context, userID string, cycleID int64) (*models.XpAward, error)
	TotalForUser(ctx context.Context, userID string) (int, error)
	LeaderboardTotals(ctx context.Context, since *time.Time, limit, offset int) ([]models.LeaderboardEntry, error)
}

// AchievementRepository handles unlock records
type AchievementRepository interface {
	UnlockedIDs(ctx context.Context, userID string) (map[string]bool, error)
	InsertUnlock(ctx context.Context, ua models.UserAchievement) error
	ListUnlocked(ctx context.Context, userID string) ([]models.UserAchievement, error)
}

// StatsRepository computes cumulative user statistics snapshots
type StatsRepository interface {
	UserStats(ctx context.Context, userID string) (*models.UserStats, error)
}
