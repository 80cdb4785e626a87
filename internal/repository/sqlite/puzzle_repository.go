package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/repository"
)

type puzzleRepository struct {
	db *sql.DB
}

// NewPuzzleRepository creates a new PuzzleRepository implementation
func NewPuzzleRepository(db *sql.DB) repository.PuzzleRepository {
	return &puzzleRepository{db: db}
}

func (r *puzzleRepository) Get(ctx context.Context, id string) (*models.Puzzle, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")
	log.Debug("getting puzzle: id=%s", id)

	var p models.Puzzle
	var themes string
	err := r.db.QueryRowContext(ctx, `
SELECT id, fen, moves, rating, themes, created_at
FROM puzzles
WHERE id = ?
`, id).Scan(&p.ID, &p.FEN, &p.Moves, &p.Rating, &themes, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("puzzle not found: id=%s", id)
			return nil, nil
		}
		log.Error("failed to get puzzle: %v", err)
		return nil, err
	}
	p.Themes = decodeThemes(themes)
	return &p, nil
}

func (r *puzzleRepository) List(ctx context.Context, filter models.PuzzleFilter) ([]models.Puzzle, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")
	log.Debug("listing puzzles: min=%d, max=%d, theme=%s", filter.MinRating, filter.MaxRating, filter.Theme)

	query := filteredQuery(sqlBuilder.Select("id", "fen", "moves", "rating", "themes", "created_at").From("puzzles"), filter)

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list puzzles: %v", err)
		return nil, err
	}
	defer rows.Close()

	var puzzles []models.Puzzle
	for rows.Next() {
		var p models.Puzzle
		var themes string
		if err := rows.Scan(&p.ID, &p.FEN, &p.Moves, &p.Rating, &themes, &p.CreatedAt); err != nil {
			log.Error("failed to scan puzzle row: %v", err)
			return nil, err
		}
		p.Themes = decodeThemes(themes)
		puzzles = append(puzzles, p)
	}
	log.Debug("found %d puzzles", len(puzzles))
	return puzzles, rows.Err()
}

func (r *puzzleRepository) Count(ctx context.Context, filter models.PuzzleFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")

	query := filteredQuery(sqlBuilder.Select("COUNT(*)").From("puzzles"), filter)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count puzzles: %v", err)
		return 0, err
	}
	return count, nil
}

// filteredQuery applies the shared rating-band and theme clauses.
func filteredQuery(query squirrel.SelectBuilder, filter models.PuzzleFilter) squirrel.SelectBuilder {
	if filter.MinRating > 0 {
		query = query.Where(squirrel.GtOrEq{"rating": filter.MinRating})
	}
	if filter.MaxRating > 0 {
		query = query.Where(squirrel.LtOrEq{"rating": filter.MaxRating})
	}
	if filter.Theme != "" {
		query = query.Where(squirrel.Like{"',' || themes || ','": "%," + filter.Theme + ",%"})
	}
	return query
}

func (r *puzzleRepository) Insert(ctx context.Context, p models.Puzzle) error {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")
	log.Debug("inserting puzzle: id=%s, rating=%d", p.ID, p.Rating)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO puzzles (id, fen, moves, rating, themes)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    fen = excluded.fen,
    moves = excluded.moves,
    rating = excluded.rating,
    themes = excluded.themes
`, p.ID, p.FEN, p.Moves, p.Rating, encodeThemes(p.Themes))
	if err != nil {
		log.Error("failed to insert puzzle: %v", err)
	}
	return err
}

func (r *puzzleRepository) InsertBatch(ctx context.Context, puzzles []models.Puzzle) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")
	log.Debug("batch inserting %d puzzles", len(puzzles))

	if len(puzzles) == 0 {
		return 0, nil
	}

	inserted := 0
	err := tx(ctx, r.db, func(t *sql.Tx) error {
		stmt, err := t.PrepareContext(ctx, `
INSERT INTO puzzles (id, fen, moves, rating, themes)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING
`)
		if err != nil {
			log.Error("failed to prepare batch insert: %v", err)
			return err
		}
		defer stmt.Close()

		for _, p := range puzzles {
			res, err := stmt.ExecContext(ctx, p.ID, p.FEN, p.Moves, p.Rating, encodeThemes(p.Themes))
			if err != nil {
				log.Error("failed to insert puzzle id=%s: %v", p.ID, err)
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Debug("batch insert completed, %d new puzzles", inserted)
	return inserted, nil
}

func (r *puzzleRepository) RatingsByID(ctx context.Context, ids []string) (map[string]int, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")

	out := make(map[string]int, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	sqlStr, args, err := sqlBuilder.Select("id", "rating").From("puzzles").Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to load ratings: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var rating int
		if err := rows.Scan(&id, &rating); err != nil {
			log.Error("failed to scan rating row: %v", err)
			return nil, err
		}
		out[id] = rating
	}
	return out, rows.Err()
}
