package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"woodpecker/internal/models"
	"woodpecker/internal/repository"
	"woodpecker/internal/repository/sqlite"
	"woodpecker/internal/testutil"
)

type AchievementRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.AchievementRepository
}

func (s *AchievementRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewAchievementRepository(s.db)

	_, err := s.db.Exec(`INSERT INTO users (id, username) VALUES ('u1', 'player')`)
	s.Require().NoError(err)
}

func (s *AchievementRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *AchievementRepositorySuite) TestUnlockIsIdempotent() {
	ctx := context.Background()
	ua := models.UserAchievement{UserID: "u1", AchievementID: "first_cycle", UnlockedAt: time.Now().UTC()}

	s.Require().NoError(s.repo.InsertUnlock(ctx, ua))
	s.Require().NoError(s.repo.InsertUnlock(ctx, ua))

	ids, err := s.repo.UnlockedIDs(ctx, "u1")
	s.Require().NoError(err)
	s.Equal(map[string]bool{"first_cycle": true}, ids)

	list, err := s.repo.ListUnlocked(ctx, "u1")
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *AchievementRepositorySuite) TestListOrdersByUnlockTime() {
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	s.Require().NoError(s.repo.InsertUnlock(ctx, models.UserAchievement{UserID: "u1", AchievementID: "first_set", UnlockedAt: base}))
	s.Require().NoError(s.repo.InsertUnlock(ctx, models.UserAchievement{UserID: "u1", AchievementID: "first_cycle", UnlockedAt: base.Add(time.Hour)}))

	list, err := s.repo.ListUnlocked(ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("first_cycle", list[0].AchievementID, "newest first")
	s.Equal("first_set", list[1].AchievementID)
}

func (s *AchievementRepositorySuite) TestEmptyUser() {
	ids, err := s.repo.UnlockedIDs(context.Background(), "u1")
	s.Require().NoError(err)
	s.Empty(ids)

	list, err := s.repo.ListUnlocked(context.Background(), "u1")
	s.Require().NoError(err)
	s.Empty(list)
}

func TestAchievementRepositorySuite(t *testing.T) {
	suite.Run(t, new(AchievementRepositorySuite))
}
