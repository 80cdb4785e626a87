package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/repository"
)

type setRepository struct {
	db *sql.DB
}

// NewSetRepository creates a new SetRepository implementation
func NewSetRepository(db *sql.DB) repository.SetRepository {
	return &setRepository{db: db}
}

// Insert stores the set header and its ordered membership in one
// transaction. The membership rows are never updated afterwards.
func (r *setRepository) Insert(ctx context.Context, set models.PuzzleSet) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("inserting set: user_id=%s, size=%d, band=[%d,%d]", set.UserID, len(set.PuzzleIDs), set.MinRating, set.MaxRating)

	var id int64
	err := tx(ctx, r.db, func(t *sql.Tx) error {
		res, err := t.ExecContext(ctx, `
INSERT INTO puzzle_sets (user_id, min_rating, max_rating, focus_theme)
VALUES (?, ?, ?, ?)
`, set.UserID, set.MinRating, set.MaxRating, set.FocusTheme)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}

		stmt, err := t.PrepareContext(ctx, `
INSERT INTO set_puzzles (set_id, puzzle_id, position) VALUES (?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, pid := range set.PuzzleIDs {
			if _, err := stmt.ExecContext(ctx, id, pid, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert set: %v", err)
		return 0, err
	}

	log.Debug("set inserted: id=%d", id)
	return id, nil
}

func (r *setRepository) Get(ctx context.Context, id int64) (*models.PuzzleSet, error) {
	log := logger.FromContext(ctx).WithPrefix("set_repo")

	var set models.PuzzleSet
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, min_rating, max_rating, focus_theme, created_at
FROM puzzle_sets
WHERE id = ?
`, id).Scan(&set.ID, &set.UserID, &set.MinRating, &set.MaxRating, &set.FocusTheme, &set.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("set not found: id=%d", id)
			return nil, nil
		}
		log.Error("failed to get set: %v", err)
		return nil, err
	}

	ids, err := r.puzzleIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	set.PuzzleIDs = ids
	return &set, nil
}

func (r *setRepository) puzzleIDs(ctx context.Context, setID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT puzzle_id FROM set_puzzles WHERE set_id = ? ORDER BY position
`, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var pid string
		if err := rows.Scan(&pid); err != nil {
			return nil, err
		}
		ids = append(ids, pid)
	}
	return ids, rows.Err()
}

func (r *setRepository) ListByUser(ctx context.Context, userID string) ([]models.PuzzleSet, error) {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("listing sets: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, min_rating, max_rating, focus_theme, created_at
FROM puzzle_sets
WHERE user_id = ?
ORDER BY created_at DESC
`, userID)
	if err != nil {
		log.Error("failed to list sets: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sets []models.PuzzleSet
	for rows.Next() {
		var set models.PuzzleSet
		if err := rows.Scan(&set.ID, &set.UserID, &set.MinRating, &set.MaxRating, &set.FocusTheme, &set.CreatedAt); err != nil {
			log.Error("failed to scan set row: %v", err)
			return nil, err
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sets {
		ids, err := r.puzzleIDs(ctx, sets[i].ID)
		if err != nil {
			return nil, err
		}
		sets[i].PuzzleIDs = ids
	}
	log.Debug("found %d sets", len(sets))
	return sets, nil
}
