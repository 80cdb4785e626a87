package progress

import (
	"math"

	"woodpecker/internal/models"
)

// Scoring policy constants. Every bonus is monotone and non-negative so
// award totals always equal the sum of their breakdown items.
const (
	// BasePerCorrect is awarded for each correct, non-skipped puzzle.
	BasePerCorrect = 10.0

	// RatingBonusDivisor converts rating points above the set's band floor
	// into XP; RatingBonusCap bounds the per-puzzle bonus.
	RatingBonusDivisor = 25.0
	RatingBonusCap     = 20.0

	// AccuracyBaseWeight and AccuracyCycleStep shape the cycle-accuracy
	// multiplier: weight = base + step*(cycleIndex-1), index capped so the
	// multiplier stops growing after AccuracyCycleCap cycles.
	AccuracyBaseWeight = 0.25
	AccuracyCycleStep  = 0.15
	AccuracyCycleCap   = 8

	// ReviewXpPerCorrect is the flat award for a correct standalone review.
	ReviewXpPerCorrect = 5
)

// streakBonusSteps maps a minimum streak length (days) to a flat bonus.
// Ordered longest-first; the first matching step wins.
var streakBonusSteps = []struct {
	MinDays int
	Bonus   float64
}{
	{30, 75},
	{14, 50},
	{7, 30},
	{3, 15},
}

// StreakBonus returns the flat XP bonus for the given streak length.
// Non-decreasing in days and capped at the top step.
func StreakBonus(days int) float64 {
	for _, step := range streakBonusSteps {
		if days >= step.MinDays {
			return step.Bonus
		}
	}
	return 0
}

// RatingBonus returns the per-puzzle bonus for solving a puzzle rated
// above the set's band floor. Never negative, capped at RatingBonusCap.
func RatingBonus(rating, bandMin int) float64 {
	if rating <= bandMin {
		return 0
	}
	bonus := float64(rating-bandMin) / RatingBonusDivisor
	if bonus > RatingBonusCap {
		return RatingBonusCap
	}
	return bonus
}

// ComputeCycleAward converts completed-cycle statistics into an XP
// breakdown. It is a pure function of the statistics, the streak length,
// the cycle index, and the per-puzzle ratings.
//
// The accuracy bonus applies to the base+rating subtotal and grows with
// both accuracy and cycle index: a perfect later cycle of the same set is
// worth strictly more than a perfect first cycle, matching the method's
// rising mastery expectations.
func ComputeCycleAward(stats models.CycleStats, streakDays int, bandMin int, ratings map[string]int) models.XpBreakdown {
	var b models.XpBreakdown

	b.Base = float64(stats.CorrectCount) * BasePerCorrect
	for _, id := range stats.CorrectPuzzleIDs {
		b.RatingBonus += RatingBonus(ratings[id], bandMin)
	}
	b.StreakBonus = StreakBonus(streakDays)

	idx := stats.CycleIndex
	if idx < 1 {
		idx = 1
	}
	if idx > AccuracyCycleCap {
		idx = AccuracyCycleCap
	}
	weight := AccuracyBaseWeight + AccuracyCycleStep*float64(idx-1)
	b.AccuracyBonus = (b.Base + b.RatingBonus) * stats.Accuracy * weight

	return b
}

// RoundTotal applies the single round-half-up step to a summed breakdown.
// Rounding happens once on the total, never per item, so items can stay
// fractional without compounding error.
func RoundTotal(b models.XpBreakdown) int {
	return int(math.Floor(b.Sum() + 0.5))
}
