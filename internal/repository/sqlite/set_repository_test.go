package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"woodpecker/internal/models"
	"woodpecker/internal/repository"
	"woodpecker/internal/repository/sqlite"
	"woodpecker/internal/testutil"
)

type SetRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.SetRepository
}

func (s *SetRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSetRepository(s.db)
}

func (s *SetRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SetRepositorySuite) seedUser(id string) {
	_, err := s.db.Exec(`INSERT INTO users (id, username) VALUES (?, ?)`, id, "user-"+id)
	s.Require().NoError(err)
}

func (s *SetRepositorySuite) seedPuzzles(n int) []string {
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("pz%03d", i)
		_, err := s.db.Exec(`INSERT INTO puzzles (id, fen, moves, rating, themes) VALUES (?, ?, ?, ?, ?)`,
			ids[i], "8/8/8/8/8/8/8/8 w - - 0 1", "e2e4 e7e5", 1200+i*10, "fork")
		s.Require().NoError(err)
	}
	return ids
}

func (s *SetRepositorySuite) TestInsertAndGetPreservesOrder() {
	ctx := context.Background()
	s.seedUser("u1")
	ids := s.seedPuzzles(5)

	// Deliberately scrambled order.
	ordered := []string{ids[3], ids[0], ids[4], ids[1], ids[2]}
	setID, err := s.repo.Insert(ctx, models.PuzzleSet{
		UserID:    "u1",
		MinRating: 1200,
		MaxRating: 1400,
		PuzzleIDs: ordered,
	})
	s.Require().NoError(err)
	s.Require().Positive(setID)

	got, err := s.repo.Get(ctx, setID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("u1", got.UserID)
	s.Equal(1200, got.MinRating)
	s.Equal(1400, got.MaxRating)
	s.Equal(ordered, got.PuzzleIDs)
}

func (s *SetRepositorySuite) TestGetMissing() {
	got, err := s.repo.Get(context.Background(), 999)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *SetRepositorySuite) TestInsertRejectsDuplicateMembership() {
	ctx := context.Background()
	s.seedUser("u1")
	ids := s.seedPuzzles(2)

	_, err := s.repo.Insert(ctx, models.PuzzleSet{
		UserID:    "u1",
		PuzzleIDs: []string{ids[0], ids[1], ids[0]},
	})
	s.Error(err)

	// The failed transaction must not leave a partial set behind.
	var count int
	s.Require().NoError(s.db.QueryRow(`SELECT COUNT(*) FROM puzzle_sets`).Scan(&count))
	s.Equal(0, count)
}

func (s *SetRepositorySuite) TestListByUser() {
	ctx := context.Background()
	s.seedUser("u1")
	s.seedUser("u2")
	ids := s.seedPuzzles(3)

	_, err := s.repo.Insert(ctx, models.PuzzleSet{UserID: "u1", PuzzleIDs: ids[:2]})
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, models.PuzzleSet{UserID: "u1", PuzzleIDs: ids[2:]})
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, models.PuzzleSet{UserID: "u2", PuzzleIDs: ids[:1]})
	s.Require().NoError(err)

	sets, err := s.repo.ListByUser(ctx, "u1")
	s.Require().NoError(err)
	s.Len(sets, 2)
	for _, set := range sets {
		s.Equal("u1", set.UserID)
		s.NotEmpty(set.PuzzleIDs)
	}
}

func TestSetRepositorySuite(t *testing.T) {
	suite.Run(t, new(SetRepositorySuite))
}
