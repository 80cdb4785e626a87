package services

import (
	"context"
	"sync"
	"time"

	"woodpecker/internal/errors"
	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/repository"
)

// LeaderboardService serves ranked XP totals. Rankings are computed from
// the award ledger and cached for a short TTL; a background job refreshes
// the cache so most requests never hit the database.
type LeaderboardService interface {
	Get(ctx context.Context, period models.LeaderboardPeriod, limit, offset int) ([]models.LeaderboardEntry, error)
	Refresh(ctx context.Context) error
}

type leaderboardCache struct {
	entries   []models.LeaderboardEntry
	fetchedAt time.Time
}

type leaderboardService struct {
	xpRepo     repository.XpRepository
	ttl        time.Duration
	maxEntries int

	// now is swappable in tests to pin the weekly window.
	now func() time.Time

	mu    sync.RWMutex
	cache map[models.LeaderboardPeriod]leaderboardCache
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(xpRepo repository.XpRepository, ttl time.Duration, maxEntries int) LeaderboardService {
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &leaderboardService{
		xpRepo:     xpRepo,
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		cache:      make(map[models.LeaderboardPeriod]leaderboardCache),
	}
}

// weekStart returns the Monday 00:00 UTC boundary of the week containing t.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *leaderboardService) Get(ctx context.Context, period models.LeaderboardPeriod, limit, offset int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx)

	if period != models.PeriodWeekly && period != models.PeriodAllTime {
		return nil, errors.NewValidationError("period", "must be 'weekly' or 'alltime'")
	}
	if limit <= 0 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	cached, ok := s.cache[period]
	s.mu.RUnlock()

	if !ok || s.now().Sub(cached.fetchedAt) > s.ttl {
		if err := s.refreshPeriod(ctx, period); err != nil {
			log.Error("failed to refresh leaderboard: %v", err)
			return nil, errors.NewInternalError(err)
		}
		s.mu.RLock()
		cached = s.cache[period]
		s.mu.RUnlock()
	}

	// Page out of the cached prefix. Any page that runs past a full
	// cache may have rows beyond the snapshot, so it goes to the
	// repository; a short cache holds the complete ranking and pages
	// past it are simply empty.
	if offset+limit <= len(cached.entries) {
		return cached.entries[offset : offset+limit], nil
	}
	if len(cached.entries) == s.maxEntries {
		entries, err := s.xpRepo.LeaderboardTotals(ctx, s.sinceFor(period), limit, offset)
		if err != nil {
			log.Error("failed to query leaderboard page: %v", err)
			return nil, errors.NewInternalError(err)
		}
		return entries, nil
	}
	if offset >= len(cached.entries) {
		return []models.LeaderboardEntry{}, nil
	}
	return cached.entries[offset:], nil
}

func (s *leaderboardService) Refresh(ctx context.Context) error {
	for _, period := range []models.LeaderboardPeriod{models.PeriodWeekly, models.PeriodAllTime} {
		if err := s.refreshPeriod(ctx, period); err != nil {
			return err
		}
	}
	return nil
}

func (s *leaderboardService) sinceFor(period models.LeaderboardPeriod) *time.Time {
	if period != models.PeriodWeekly {
		return nil
	}
	since := weekStart(s.now())
	return &since
}

func (s *leaderboardService) refreshPeriod(ctx context.Context, period models.LeaderboardPeriod) error {
	log := logger.FromContext(ctx)
	start := time.Now()

	entries, err := s.xpRepo.LeaderboardTotals(ctx, s.sinceFor(period), s.maxEntries, 0)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[period] = leaderboardCache{entries: entries, fetchedAt: s.now()}
	s.mu.Unlock()

	log.Debug("leaderboard refreshed: period=%s, entries=%d, took=%v", period, len(entries), time.Since(start))
	return nil
}
