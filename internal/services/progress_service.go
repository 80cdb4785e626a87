package services

import (
	"context"
	"time"

	"woodpecker/internal/errors"
	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/progress"
	"woodpecker/internal/repository"
)

// ProgressService handles streaks, XP awards, achievements, and the
// progress summary. Every method is safe to retry: streak advancement is
// a same-day no-op, cycle awards are unique per cycle, achievement
// unlocks insert-or-ignore.
type ProgressService interface {
	TouchStreak(ctx context.Context, userID string, now time.Time) (models.StreakState, error)
	AwardCycle(ctx context.Context, cycle models.Cycle, stats models.CycleStats, bandMin int) (*models.XpAward, error)
	AwardReview(ctx context.Context, userID string, correct bool) (*models.XpAward, error)
	EvaluateAchievements(ctx context.Context, userID string) ([]models.Achievement, error)
	ListAchievements(ctx context.Context, userID string) ([]models.UserAchievement, error)
	Summary(ctx context.Context, userID string) (*models.ProgressSummary, error)
}

type progressService struct {
	userRepo        repository.UserRepository
	puzzleRepo      repository.PuzzleRepository
	streakRepo      repository.StreakRepository
	xpRepo          repository.XpRepository
	achievementRepo repository.AchievementRepository
	statsRepo       repository.StatsRepository
	cycleRepo       repository.CycleRepository

	graceDays     int
	weakThreshold int
}

// NewProgressService creates a new ProgressService
func NewProgressService(
	userRepo repository.UserRepository,
	puzzleRepo repository.PuzzleRepository,
	streakRepo repository.StreakRepository,
	xpRepo repository.XpRepository,
	achievementRepo repository.AchievementRepository,
	statsRepo repository.StatsRepository,
	cycleRepo repository.CycleRepository,
	graceDays int,
	weakThreshold int,
) ProgressService {
	return &progressService{
		userRepo:        userRepo,
		puzzleRepo:      puzzleRepo,
		streakRepo:      streakRepo,
		xpRepo:          xpRepo,
		achievementRepo: achievementRepo,
		statsRepo:       statsRepo,
		cycleRepo:       cycleRepo,
		graceDays:       graceDays,
		weakThreshold:   weakThreshold,
	}
}

// userLocation resolves the user's configured timezone, falling back to
// UTC on missing or invalid settings.
func (s *progressService) userLocation(ctx context.Context, userID string) *time.Location {
	log := logger.FromContext(ctx)

	settings, err := s.userRepo.Settings(ctx, userID)
	if err != nil || settings == nil || settings.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		log.Warn("invalid timezone %q for user %s, using UTC", settings.Timezone, userID)
		return time.UTC
	}
	return loc
}

func (s *progressService) TouchStreak(ctx context.Context, userID string, now time.Time) (models.StreakState, error) {
	log := logger.FromContext(ctx)

	state, err := s.streakRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load streak: %v", err)
		return models.StreakState{}, errors.NewInternalError(err)
	}

	loc := s.userLocation(ctx, userID)
	updated := progress.AdvanceStreak(*state, now, loc, s.graceDays)
	if updated == *state {
		// Same calendar day, nothing to persist.
		return updated, nil
	}

	if err := s.streakRepo.Upsert(ctx, updated); err != nil {
		log.Error("failed to persist streak: %v", err)
		return models.StreakState{}, errors.NewInternalError(err)
	}

	log.Debug("streak advanced: user_id=%s, current=%d, longest=%d", userID, updated.Current, updated.Longest)
	return updated, nil
}

func (s *progressService) AwardCycle(ctx context.Context, cycle models.Cycle, stats models.CycleStats, bandMin int) (*models.XpAward, error) {
	log := logger.FromContext(ctx)

	ratings, err := s.puzzleRepo.RatingsByID(ctx, stats.CorrectPuzzleIDs)
	if err != nil {
		log.Error("failed to load ratings: %v", err)
		return nil, errors.NewInternalError(err)
	}

	state, err := s.streakRepo.Get(ctx, cycle.UserID)
	if err != nil {
		log.Error("failed to load streak: %v", err)
		return nil, errors.NewInternalError(err)
	}

	breakdown := progress.ComputeCycleAward(stats, state.Current, bandMin, ratings)
	cycleID := cycle.ID
	award := models.XpAward{
		UserID:    cycle.UserID,
		Source:    models.XpSourceCycle,
		CycleID:   &cycleID,
		Breakdown: breakdown,
		Total:     progress.RoundTotal(breakdown),
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.xpRepo.InsertAward(ctx, award)
	if err != nil {
		log.Error("failed to insert cycle award: %v", err)
		return nil, errors.NewInternalError(err)
	}
	award.ID = id

	log.Info("cycle award: user_id=%s, cycle_id=%d, total=%d", cycle.UserID, cycle.ID, award.Total)
	return &award, nil
}

func (s *progressService) AwardReview(ctx context.Context, userID string, correct bool) (*models.XpAward, error) {
	log := logger.FromContext(ctx)

	if !correct {
		return nil, nil
	}

	award := models.XpAward{
		UserID:    userID,
		Source:    models.XpSourceReview,
		Breakdown: models.XpBreakdown{Base: progress.ReviewXpPerCorrect},
		Total:     progress.ReviewXpPerCorrect,
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.xpRepo.InsertAward(ctx, award)
	if err != nil {
		log.Error("failed to insert review award: %v", err)
		return nil, errors.NewInternalError(err)
	}
	award.ID = id
	return &award, nil
}

func (s *progressService) EvaluateAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	log := logger.FromContext(ctx)

	stats, err := s.statsRepo.UserStats(ctx, userID)
	if err != nil {
		log.Error("failed to load stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	already, err := s.achievementRepo.UnlockedIDs(ctx, userID)
	if err != nil {
		log.Error("failed to load unlocked achievements: %v", err)
		return nil, errors.NewInternalError(err)
	}

	var unlocked []models.Achievement
	now := time.Now().UTC()
	for _, def := range progress.NewlyUnlocked(*stats, already) {
		ua := models.UserAchievement{
			UserID:        userID,
			AchievementID: def.ID,
			UnlockedAt:    now,
		}
		if err := s.achievementRepo.InsertUnlock(ctx, ua); err != nil {
			log.Error("failed to record unlock %s: %v", def.ID, err)
			return nil, errors.NewInternalError(err)
		}
		log.Info("achievement unlocked: user_id=%s, id=%s", userID, def.ID)
		unlocked = append(unlocked, def.Achievement)
	}
	return unlocked, nil
}

func (s *progressService) ListAchievements(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	log := logger.FromContext(ctx)

	list, err := s.achievementRepo.ListUnlocked(ctx, userID)
	if err != nil {
		log.Error("failed to list achievements: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return list, nil
}

func (s *progressService) Summary(ctx context.Context, userID string) (*models.ProgressSummary, error) {
	log := logger.FromContext(ctx)

	stats, err := s.statsRepo.UserStats(ctx, userID)
	if err != nil {
		log.Error("failed to load stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// The award ledger is authoritative for level math; the stats
	// snapshot carries counts.
	totalXp, err := s.xpRepo.TotalForUser(ctx, userID)
	if err != nil {
		log.Error("failed to load xp total: %v", err)
		return nil, errors.NewInternalError(err)
	}

	state, err := s.streakRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load streak: %v", err)
		return nil, errors.NewInternalError(err)
	}

	outcomes, err := s.cycleRepo.OutcomesForUser(ctx, userID)
	if err != nil {
		log.Error("failed to load outcomes: %v", err)
		return nil, errors.NewInternalError(err)
	}
	weak := progress.DeriveWeakPuzzles(outcomes, s.weakThresholdFor(ctx, userID))

	return &models.ProgressSummary{
		UserID:        userID,
		Level:         progress.LevelForTotalXp(totalXp),
		XpToNextLevel: progress.XpToNextLevel(totalXp),
		Streak:        *state,
		Stats:         *stats,
		WeakPuzzles:   len(weak),
	}, nil
}

// weakThresholdFor prefers the user's configured threshold over the
// server default.
func (s *progressService) weakThresholdFor(ctx context.Context, userID string) int {
	settings, err := s.userRepo.Settings(ctx, userID)
	if err == nil && settings != nil && settings.WeakThreshold > 0 {
		return settings.WeakThreshold
	}
	return s.weakThreshold
}
