package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"woodpecker/internal/models"
	"woodpecker/internal/repository"
	"woodpecker/internal/repository/sqlite"
	"woodpecker/internal/testutil"
)

type PuzzleRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.PuzzleRepository
}

func (s *PuzzleRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewPuzzleRepository(s.db)
}

func (s *PuzzleRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *PuzzleRepositorySuite) seed(puzzles ...models.Puzzle) {
	inserted, err := s.repo.InsertBatch(context.Background(), puzzles)
	s.Require().NoError(err)
	s.Require().Equal(len(puzzles), inserted)
}

func (s *PuzzleRepositorySuite) TestInsertAndGetRoundTrip() {
	ctx := context.Background()
	p := models.Puzzle{
		ID:     "abc12",
		FEN:    "8/8/8/8/8/8/8/8 w - - 0 1",
		Moves:  "e2e4 e7e5",
		Rating: 1420,
		Themes: []string{"fork", "middlegame"},
	}
	s.Require().NoError(s.repo.Insert(ctx, p))

	got, err := s.repo.Get(ctx, "abc12")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(p.FEN, got.FEN)
	s.Equal(p.Moves, got.Moves)
	s.Equal(p.Rating, got.Rating)
	s.Equal(p.Themes, got.Themes)
}

func (s *PuzzleRepositorySuite) TestGetMissing() {
	got, err := s.repo.Get(context.Background(), "ghost")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *PuzzleRepositorySuite) TestInsertUpdatesExisting() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, models.Puzzle{ID: "abc12", FEN: "f1", Moves: "e2e4", Rating: 1400}))
	s.Require().NoError(s.repo.Insert(ctx, models.Puzzle{ID: "abc12", FEN: "f1", Moves: "e2e4", Rating: 1450}))

	got, err := s.repo.Get(ctx, "abc12")
	s.Require().NoError(err)
	s.Equal(1450, got.Rating)
}

func (s *PuzzleRepositorySuite) TestInsertBatchCountsOnlyNewRows() {
	ctx := context.Background()
	s.seed(models.Puzzle{ID: "p1", FEN: "f", Moves: "e2e4", Rating: 1300})

	inserted, err := s.repo.InsertBatch(ctx, []models.Puzzle{
		{ID: "p1", FEN: "f", Moves: "e2e4", Rating: 1300},
		{ID: "p2", FEN: "f", Moves: "d2d4", Rating: 1350},
	})
	s.Require().NoError(err)
	s.Equal(1, inserted, "existing rows are skipped, not counted")
}

func (s *PuzzleRepositorySuite) TestCountAndListWithRatingBand() {
	ctx := context.Background()
	s.seed(
		models.Puzzle{ID: "p1", FEN: "f", Moves: "e2e4", Rating: 1100},
		models.Puzzle{ID: "p2", FEN: "f", Moves: "e2e4", Rating: 1300},
		models.Puzzle{ID: "p3", FEN: "f", Moves: "e2e4", Rating: 1399},
		models.Puzzle{ID: "p4", FEN: "f", Moves: "e2e4", Rating: 1500},
	)

	filter := models.PuzzleFilter{MinRating: 1200, MaxRating: 1400}
	count, err := s.repo.Count(ctx, filter)
	s.Require().NoError(err)
	s.Equal(2, count)

	puzzles, err := s.repo.List(ctx, filter)
	s.Require().NoError(err)
	s.Len(puzzles, 2)
	for _, p := range puzzles {
		s.GreaterOrEqual(p.Rating, 1200)
		s.LessOrEqual(p.Rating, 1400)
	}
}

func (s *PuzzleRepositorySuite) TestThemeFilterMatchesWholeWords() {
	ctx := context.Background()
	s.seed(
		models.Puzzle{ID: "p1", FEN: "f", Moves: "e2e4", Rating: 1300, Themes: []string{"fork", "endgame"}},
		models.Puzzle{ID: "p2", FEN: "f", Moves: "e2e4", Rating: 1300, Themes: []string{"pin"}},
		// "forklift" must not match a "fork" filter.
		models.Puzzle{ID: "p3", FEN: "f", Moves: "e2e4", Rating: 1300, Themes: []string{"forklift"}},
	)

	puzzles, err := s.repo.List(ctx, models.PuzzleFilter{Theme: "fork"})
	s.Require().NoError(err)
	s.Require().Len(puzzles, 1)
	s.Equal("p1", puzzles[0].ID)
}

func (s *PuzzleRepositorySuite) TestRatingsByID() {
	ctx := context.Background()
	s.seed(
		models.Puzzle{ID: "p1", FEN: "f", Moves: "e2e4", Rating: 1300},
		models.Puzzle{ID: "p2", FEN: "f", Moves: "e2e4", Rating: 1450},
	)

	ratings, err := s.repo.RatingsByID(ctx, []string{"p1", "p2", "missing"})
	s.Require().NoError(err)
	s.Equal(map[string]int{"p1": 1300, "p2": 1450}, ratings)

	empty, err := s.repo.RatingsByID(ctx, nil)
	s.Require().NoError(err)
	s.Empty(empty)
}

func TestPuzzleRepositorySuite(t *testing.T) {
	suite.Run(t, new(PuzzleRepositorySuite))
}
