package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/repository"
)

type cycleRepository struct {
	db *sql.DB
}

// NewCycleRepository creates a new CycleRepository implementation
func NewCycleRepository(db *sql.DB) repository.CycleRepository {
	return &cycleRepository{db: db}
}

func (r *cycleRepository) Insert(ctx context.Context, c models.Cycle) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("cycle_repo")
	log.Debug("inserting cycle: set_id=%d, index=%d", c.SetID, c.Index)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO cycles (set_id, user_id, cycle_index, state, started_at)
VALUES (?, ?, ?, ?, ?)
`, c.SetID, c.UserID, c.Index, c.State, c.StartedAt)
	if err != nil {
		log.Error("failed to insert cycle: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get cycle id: %v", err)
		return 0, err
	}
	log.Debug("cycle inserted: id=%d", id)
	return id, nil
}

func (r *cycleRepository) Get(ctx context.Context, id int64) (*models.Cycle, error) {
	log := logger.FromContext(ctx).WithPrefix("cycle_repo")

	var c models.Cycle
	var completedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, set_id, user_id, cycle_index, state, started_at, completed_at
FROM cycles
WHERE id = ?
`, id).Scan(&c.ID, &c.SetID, &c.UserID, &c.Index, &c.State, &c.StartedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("cycle not found: id=%d", id)
			return nil, nil
		}
		log.Error("failed to get cycle: %v", err)
		return nil, err
	}
	if completedAt.Valid {
		c.CompletedAt = &completedAt.Time
	}
	return &c, nil
}

func (r *cycleRepository) ActiveForSet(ctx context.Context, setID int64) (*models.Cycle, error) {
	log := logger.FromContext(ctx).WithPrefix("cycle_repo")

	var c models.Cycle
	var completedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, set_id, user_id, cycle_index, state, started_at, completed_at
FROM cycles
WHERE set_id = ? AND state = ?
ORDER BY cycle_index DESC
LIMIT 1
`, setID, models.CycleInProgress).Scan(&c.ID, &c.SetID, &c.UserID, &c.Index, &c.State, &c.StartedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error("failed to get active cycle: %v", err)
		return nil, err
	}
	if completedAt.Valid {
		c.CompletedAt = &completedAt.Time
	}
	return &c, nil
}

func (r *cycleRepository) MaxIndexForSet(ctx context.Context, setID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("cycle_repo")

	var max int
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(MAX(cycle_index), 0) FROM cycles WHERE set_id = ?
`, setID).Scan(&max)
	if err != nil {
		log.Error("failed to get max cycle index: %v", err)
		return 0, err
	}
	return max, nil
}

func (r *cycleRepository) UpdateState(ctx context.Context, id int64, state models.CycleState, completedAt *time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("cycle_repo")
	log.Debug("updating cycle state: id=%d, state=%s", id, state)

	_, err := r.db.ExecContext(ctx, `
UPDATE cycles SET state = ?, completed_at = ? WHERE id = ?
`, state, completedAt, id)
	if err != nil {
		log.Error("failed to update cycle state: %v", err)
	}
	return err
}

func (r *cycleRepository) InsertAttempt(ctx context.Context, a models.Attempt) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("cycle_repo")
	log.Debug("inserting attempt: cycle_id=%d, puzzle_id=%s, position=%d", a.CycleID, a.PuzzleID, a.Position)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO attempts (cycle_id, puzzle_id, position, correct, skipped, time_ms)
VALUES (?, ?, ?, ?, ?, ?)
`, a.CycleID, a.PuzzleID, a.Position, a.Correct, a.Skipped, a.TimeMs)
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *cycleRepository) AttemptsForCycle(ctx context.Context, cycleID int64) ([]models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("cycle_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, cycle_id, puzzle_id, position, correct, skipped, time_ms, created_at
FROM attempts
WHERE cycle_id = ?
ORDER BY position
`, cycleID)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var attempts []models.Attempt
	for rows.Next() {
		var a models.Attempt
		if err := rows.Scan(&a.ID, &a.CycleID, &a.PuzzleID, &a.Position, &a.Correct, &a.Skipped, &a.TimeMs, &a.CreatedAt); err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (r *cycleRepository) InsertReviewAttempt(ctx context.Context, userID, puzzleID string, correct bool, timeMs int64) error {
	log := logger.FromContext(ctx).WithPrefix("cycle_repo")
	log.Debug("inserting review attempt: user_id=%s, puzzle_id=%s, correct=%t", userID, puzzleID, correct)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_attempts (user_id, puzzle_id, correct, time_ms)
VALUES (?, ?, ?, ?)
`, userID, puzzleID, correct, timeMs)
	if err != nil {
		log.Error("failed to insert review attempt: %v", err)
	}
	return err
}

// OutcomesForUser merges cycle and review attempts into one chronological
// stream; the weak-puzzle derivation reads this to find repeat misses.
func (r *cycleRepository) OutcomesForUser(ctx context.Context, userID string) ([]models.PuzzleOutcome, error) {
	log := logger.FromContext(ctx).WithPrefix("cycle_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT puzzle_id, correct, created_at FROM (
    SELECT a.puzzle_id, a.correct, a.created_at, a.id
    FROM attempts a
    JOIN cycles c ON c.id = a.cycle_id
    WHERE c.user_id = ?
    UNION ALL
    SELECT ra.puzzle_id, ra.correct, ra.created_at, ra.id
    FROM review_attempts ra
    WHERE ra.user_id = ?
)
ORDER BY created_at, id
`, userID, userID)
	if err != nil {
		log.Error("failed to list outcomes: %v", err)
		return nil, err
	}
	defer rows.Close()

	var outcomes []models.PuzzleOutcome
	for rows.Next() {
		var o models.PuzzleOutcome
		if err := rows.Scan(&o.PuzzleID, &o.Correct, &o.At); err != nil {
			log.Error("failed to scan outcome row: %v", err)
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	log.Debug("found %d outcomes for user %s", len(outcomes), userID)
	return outcomes, rows.Err()
}
