package services

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"woodpecker/internal/errors"
	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/repository"
	"woodpecker/internal/setgen"
)

// MaxSetSize bounds a single set; the method works with sets in the
// hundreds, not thousands.
const MaxSetSize = 1000

// SetService handles puzzle-set business logic
type SetService interface {
	CreateSet(ctx context.Context, userID string, minRating, maxRating, size int, focusTheme string) (*models.PuzzleSet, error)
	GetSet(ctx context.Context, id int64, userID string) (*models.PuzzleSet, error)
	ListSets(ctx context.Context, userID string) ([]models.PuzzleSet, error)
}

type setService struct {
	puzzleRepo repository.PuzzleRepository
	setRepo    repository.SetRepository

	// rnd is the injected selection source; seeded tests get reproducible
	// sets. *rand.Rand is not goroutine safe, hence the mutex.
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSetService creates a new SetService
func NewSetService(puzzleRepo repository.PuzzleRepository, setRepo repository.SetRepository, rnd *rand.Rand) SetService {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &setService{
		puzzleRepo: puzzleRepo,
		setRepo:    setRepo,
		rnd:        rnd,
	}
}

func (s *setService) CreateSet(ctx context.Context, userID string, minRating, maxRating, size int, focusTheme string) (*models.PuzzleSet, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating set: user_id=%s, band=[%d,%d], size=%d, theme=%q", userID, minRating, maxRating, size, focusTheme)

	if size <= 0 {
		return nil, errors.NewValidationError("size", "must be positive")
	}
	if size > MaxSetSize {
		return nil, errors.NewValidationError("size", "exceeds maximum set size")
	}
	if minRating > maxRating {
		return nil, errors.NewValidationError("rating", "min_rating must not exceed max_rating")
	}

	filter := models.PuzzleFilter{
		MinRating: minRating,
		MaxRating: maxRating,
		Theme:     focusTheme,
	}

	// Count first so a thin catalog fails loudly instead of producing a
	// silently short set.
	count, err := s.puzzleRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count candidates: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if count < size {
		log.Warn("insufficient candidates: have=%d, want=%d", count, size)
		return nil, errors.NewInsufficientCandidatesError(size, count)
	}

	candidates, err := s.puzzleRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list candidates: %v", err)
		return nil, errors.NewInternalError(err)
	}

	ids := make([]string, len(candidates))
	for i, p := range candidates {
		ids[i] = p.ID
	}

	s.mu.Lock()
	picked, ok := setgen.Sample(s.rnd, ids, size)
	s.mu.Unlock()
	if !ok {
		// The catalog shrank between Count and List.
		return nil, errors.NewInsufficientCandidatesError(size, len(ids))
	}

	set := models.PuzzleSet{
		UserID:     userID,
		MinRating:  minRating,
		MaxRating:  maxRating,
		FocusTheme: focusTheme,
		PuzzleIDs:  picked,
		CreatedAt:  time.Now().UTC(),
	}

	setID, err := s.setRepo.Insert(ctx, set)
	if err != nil {
		log.Error("failed to insert set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	set.ID = setID

	log.Info("set created: id=%d, size=%d, band=[%d,%d]", setID, size, minRating, maxRating)
	return &set, nil
}

func (s *setService) GetSet(ctx context.Context, id int64, userID string) (*models.PuzzleSet, error) {
	log := logger.FromContext(ctx)

	set, err := s.setRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if set == nil || set.UserID != userID {
		return nil, errors.NewSetNotFoundError(id)
	}
	return set, nil
}

func (s *setService) ListSets(ctx context.Context, userID string) ([]models.PuzzleSet, error) {
	log := logger.FromContext(ctx)

	sets, err := s.setRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list sets: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return sets, nil
}
