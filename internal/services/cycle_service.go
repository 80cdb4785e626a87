package services

import (
	"context"
	"sync"
	"time"

	"woodpecker/internal/errors"
	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/progress"
	"woodpecker/internal/repository"
)

// CycleService handles the training loop: starting cycles, recording
// attempts in set order, completing cycles, and the weak-puzzle review
// flow.
type CycleService interface {
	StartCycle(ctx context.Context, setID int64, userID string) (*models.Cycle, error)
	GetActiveCycle(ctx context.Context, setID int64, userID string) (*models.Cycle, error)
	SubmitAttempt(ctx context.Context, cycleID int64, userID, puzzleID string, correct, skipped bool, timeMs int64) (*models.AttemptResult, error)
	CompleteCycle(ctx context.Context, cycleID int64, userID string) (*models.CycleCompletion, error)
	GetWeakPuzzles(ctx context.Context, userID string) ([]models.WeakPuzzle, error)
	SubmitReview(ctx context.Context, userID, puzzleID string, correct bool, timeMs int64) (*models.ReviewResult, error)
}

type cycleService struct {
	cycleRepo   repository.CycleRepository
	setRepo     repository.SetRepository
	puzzleRepo  repository.PuzzleRepository
	userRepo    repository.UserRepository
	progressSvc ProgressService

	weakThreshold int

	// Per-cycle locks serialize attempt submission so the
	// position-in-sequence check cannot race with itself.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewCycleService creates a new CycleService
func NewCycleService(
	cycleRepo repository.CycleRepository,
	setRepo repository.SetRepository,
	puzzleRepo repository.PuzzleRepository,
	userRepo repository.UserRepository,
	progressSvc ProgressService,
	weakThreshold int,
) CycleService {
	return &cycleService{
		cycleRepo:     cycleRepo,
		setRepo:       setRepo,
		puzzleRepo:    puzzleRepo,
		userRepo:      userRepo,
		progressSvc:   progressSvc,
		weakThreshold: weakThreshold,
		locks:         make(map[int64]*sync.Mutex),
	}
}

func (s *cycleService) lockCycle(id int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	return m
}

func (s *cycleService) releaseCycle(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, id)
}

func (s *cycleService) StartCycle(ctx context.Context, setID int64, userID string) (*models.Cycle, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting cycle: set_id=%d, user_id=%s", setID, userID)

	set, err := s.setRepo.Get(ctx, setID)
	if err != nil {
		log.Error("failed to get set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if set == nil || set.UserID != userID {
		return nil, errors.NewSetNotFoundError(setID)
	}

	// A set has at most one cycle in flight. Starting a new one abandons
	// the current cycle rather than refusing, so users can always reset a
	// half-finished run.
	active, err := s.cycleRepo.ActiveForSet(ctx, setID)
	if err != nil {
		log.Error("failed to check active cycle: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if active != nil {
		log.Info("abandoning cycle %d (index %d) for set %d", active.ID, active.Index, setID)
		if err := s.cycleRepo.UpdateState(ctx, active.ID, models.CycleAbandoned, nil); err != nil {
			log.Error("failed to abandon cycle: %v", err)
			return nil, errors.NewInternalError(err)
		}
		s.releaseCycle(active.ID)
	}

	maxIdx, err := s.cycleRepo.MaxIndexForSet(ctx, setID)
	if err != nil {
		log.Error("failed to get max cycle index: %v", err)
		return nil, errors.NewInternalError(err)
	}

	cycle := models.Cycle{
		SetID:     setID,
		UserID:    userID,
		Index:     maxIdx + 1,
		State:     models.CycleInProgress,
		StartedAt: time.Now().UTC(),
	}
	id, err := s.cycleRepo.Insert(ctx, cycle)
	if err != nil {
		log.Error("failed to insert cycle: %v", err)
		return nil, errors.NewInternalError(err)
	}
	cycle.ID = id

	log.Info("cycle started: id=%d, set_id=%d, index=%d", id, setID, cycle.Index)
	return &cycle, nil
}

func (s *cycleService) GetActiveCycle(ctx context.Context, setID int64, userID string) (*models.Cycle, error) {
	log := logger.FromContext(ctx)

	set, err := s.setRepo.Get(ctx, setID)
	if err != nil {
		log.Error("failed to get set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if set == nil || set.UserID != userID {
		return nil, errors.NewSetNotFoundError(setID)
	}

	active, err := s.cycleRepo.ActiveForSet(ctx, setID)
	if err != nil {
		log.Error("failed to get active cycle: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if active == nil {
		return nil, errors.NewNoActiveCycleError(setID)
	}
	return active, nil
}

func (s *cycleService) SubmitAttempt(ctx context.Context, cycleID int64, userID, puzzleID string, correct, skipped bool, timeMs int64) (*models.AttemptResult, error) {
	log := logger.FromContext(ctx)

	lock := s.lockCycle(cycleID)
	lock.Lock()
	defer lock.Unlock()

	cycle, err := s.cycleRepo.Get(ctx, cycleID)
	if err != nil {
		log.Error("failed to get cycle: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if cycle == nil || cycle.UserID != userID {
		return nil, errors.NewNotFoundError("cycle", cycleID)
	}
	if cycle.State != models.CycleInProgress {
		s.releaseCycle(cycleID)
		return nil, errors.NewInvalidCycleStateError("cycle is not in progress")
	}

	set, err := s.setRepo.Get(ctx, cycle.SetID)
	if err != nil {
		log.Error("failed to get set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if set == nil {
		return nil, errors.NewSetNotFoundError(cycle.SetID)
	}

	attempts, err := s.cycleRepo.AttemptsForCycle(ctx, cycleID)
	if err != nil {
		log.Error("failed to load attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// Attempts follow the set's fixed order with no gaps or repeats.
	pos := len(attempts)
	if pos >= len(set.PuzzleIDs) {
		return nil, errors.NewInvalidCycleStateError("cycle already has an attempt for every puzzle")
	}
	if set.PuzzleIDs[pos] != puzzleID {
		log.Warn("out-of-sequence attempt: cycle_id=%d, got=%s, want=%s at position %d", cycleID, puzzleID, set.PuzzleIDs[pos], pos)
		return nil, errors.NewInvalidCycleStateError("puzzle is not next in the set sequence")
	}

	if skipped {
		correct = false
	}
	attempt := models.Attempt{
		CycleID:   cycleID,
		PuzzleID:  puzzleID,
		Position:  pos,
		Correct:   correct,
		Skipped:   skipped,
		TimeMs:    timeMs,
		CreatedAt: time.Now().UTC(),
	}
	attemptID, err := s.cycleRepo.InsertAttempt(ctx, attempt)
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}
	attempt.ID = attemptID

	result := &models.AttemptResult{Attempt: attempt}
	if pos == len(set.PuzzleIDs)-1 {
		completion, err := s.completeCycle(ctx, cycle, set, append(attempts, attempt))
		if err != nil {
			return nil, err
		}
		result.Completed = true
		result.Completion = completion
		s.releaseCycle(cycleID)
	}
	return result, nil
}

// CompleteCycle finishes a cycle whose attempts are all in. It also
// re-drives the progress chain for a cycle that reached Completed but
// lost its award or achievement evaluation to a transient failure:
// the streak touch is a same-day no-op, the award insert is unique per
// cycle, and unlocks are insert-or-ignore, so running the chain again
// converges on the same result.
func (s *cycleService) CompleteCycle(ctx context.Context, cycleID int64, userID string) (*models.CycleCompletion, error) {
	log := logger.FromContext(ctx)

	lock := s.lockCycle(cycleID)
	lock.Lock()
	defer lock.Unlock()

	cycle, err := s.cycleRepo.Get(ctx, cycleID)
	if err != nil {
		log.Error("failed to get cycle: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if cycle == nil || cycle.UserID != userID {
		return nil, errors.NewNotFoundError("cycle", cycleID)
	}
	if cycle.State == models.CycleAbandoned {
		s.releaseCycle(cycleID)
		return nil, errors.NewInvalidCycleStateError("cycle was abandoned")
	}

	set, err := s.setRepo.Get(ctx, cycle.SetID)
	if err != nil {
		log.Error("failed to get set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if set == nil {
		return nil, errors.NewSetNotFoundError(cycle.SetID)
	}

	attempts, err := s.cycleRepo.AttemptsForCycle(ctx, cycleID)
	if err != nil {
		log.Error("failed to load attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if len(attempts) < len(set.PuzzleIDs) {
		return nil, errors.NewInvalidCycleStateError("cycle still has unattempted puzzles")
	}

	completion, err := s.completeCycle(ctx, cycle, set, attempts)
	if err != nil {
		return nil, err
	}
	s.releaseCycle(cycleID)
	return completion, nil
}

// completeCycle marks the cycle done, derives its statistics, and runs
// the progress chain. Streak first, then XP, so the award's streak bonus
// sees today's activity. A cycle that is already Completed keeps its
// original completion time.
func (s *cycleService) completeCycle(ctx context.Context, cycle *models.Cycle, set *models.PuzzleSet, attempts []models.Attempt) (*models.CycleCompletion, error) {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	if cycle.State != models.CycleCompleted {
		if err := s.cycleRepo.UpdateState(ctx, cycle.ID, models.CycleCompleted, &now); err != nil {
			log.Error("failed to complete cycle: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}

	stats := deriveStats(cycle, set, attempts)
	log.Info("cycle completed: id=%d, index=%d, accuracy=%.2f, correct=%d/%d",
		cycle.ID, cycle.Index, stats.Accuracy, stats.CorrectCount, stats.TotalPuzzles)

	streak, err := s.progressSvc.TouchStreak(ctx, cycle.UserID, now)
	if err != nil {
		return nil, err
	}

	award, err := s.progressSvc.AwardCycle(ctx, *cycle, stats, set.MinRating)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.progressSvc.EvaluateAchievements(ctx, cycle.UserID)
	if err != nil {
		return nil, err
	}

	return &models.CycleCompletion{
		Stats:        stats,
		Award:        award,
		Streak:       streak,
		Achievements: unlocked,
	}, nil
}

// deriveStats folds the attempt list into cycle statistics. Accuracy is
// correct over total set size; skips count against it. Average time
// covers non-skipped attempts only.
func deriveStats(cycle *models.Cycle, set *models.PuzzleSet, attempts []models.Attempt) models.CycleStats {
	stats := models.CycleStats{
		CycleID:      cycle.ID,
		SetID:        set.ID,
		CycleIndex:   cycle.Index,
		TotalPuzzles: len(set.PuzzleIDs),
	}

	var timeSum int64
	var timed int
	for _, a := range attempts {
		switch {
		case a.Skipped:
			stats.SkippedCount++
			stats.MissedPuzzleIDs = append(stats.MissedPuzzleIDs, a.PuzzleID)
		case a.Correct:
			stats.CorrectCount++
			stats.CorrectPuzzleIDs = append(stats.CorrectPuzzleIDs, a.PuzzleID)
			timeSum += a.TimeMs
			timed++
		default:
			stats.MissedPuzzleIDs = append(stats.MissedPuzzleIDs, a.PuzzleID)
			timeSum += a.TimeMs
			timed++
		}
	}

	if stats.TotalPuzzles > 0 {
		stats.Accuracy = float64(stats.CorrectCount) / float64(stats.TotalPuzzles)
	}
	if timed > 0 {
		stats.AvgTimeMs = float64(timeSum) / float64(timed)
	}
	return stats
}

func (s *cycleService) GetWeakPuzzles(ctx context.Context, userID string) ([]models.WeakPuzzle, error) {
	log := logger.FromContext(ctx)

	outcomes, err := s.cycleRepo.OutcomesForUser(ctx, userID)
	if err != nil {
		log.Error("failed to load outcomes: %v", err)
		return nil, errors.NewInternalError(err)
	}

	threshold := s.weakThreshold
	if settings, err := s.userRepo.Settings(ctx, userID); err == nil && settings != nil && settings.WeakThreshold > 0 {
		threshold = settings.WeakThreshold
	}

	return progress.DeriveWeakPuzzles(outcomes, threshold), nil
}

func (s *cycleService) SubmitReview(ctx context.Context, userID, puzzleID string, correct bool, timeMs int64) (*models.ReviewResult, error) {
	log := logger.FromContext(ctx)

	puzzle, err := s.puzzleRepo.Get(ctx, puzzleID)
	if err != nil {
		log.Error("failed to get puzzle: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if puzzle == nil {
		return nil, errors.NewNotFoundError("puzzle", puzzleID)
	}

	if err := s.cycleRepo.InsertReviewAttempt(ctx, userID, puzzleID, correct, timeMs); err != nil {
		log.Error("failed to insert review attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// Reviewing counts as daily activity.
	if _, err := s.progressSvc.TouchStreak(ctx, userID, time.Now().UTC()); err != nil {
		return nil, err
	}

	award, err := s.progressSvc.AwardReview(ctx, userID, correct)
	if err != nil {
		return nil, err
	}

	// Review activity can cross achievement thresholds on its own.
	unlocked, err := s.progressSvc.EvaluateAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.Debug("review recorded: user_id=%s, puzzle_id=%s, correct=%t", userID, puzzleID, correct)
	return &models.ReviewResult{PuzzleID: puzzleID, Correct: correct, Award: award, Achievements: unlocked}, nil
}
