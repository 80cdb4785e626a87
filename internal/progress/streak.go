package progress

import (
	"time"

	"woodpecker/internal/models"
)

// DayFormat is the calendar-day key stored in StreakState.LastActiveDay.
const DayFormat = "2006-01-02"

// AdvanceStreak applies one qualifying activity event to a streak.
// Day boundaries follow loc (the user's configured timezone, UTC when
// unset). graceDays is the number of fully missed days tolerated before
// the streak resets.
//
// Semantics, in order:
//   - same day as last activity: no change (idempotent re-trigger)
//   - next day: streak +1
//   - gap within grace: streak +1, grace marked used for this run
//   - otherwise: reset to 1
//
// Longest is updated on every change. The returned state always has
// LastActiveDay set to now's calendar day in loc.
func AdvanceStreak(state models.StreakState, now time.Time, loc *time.Location, graceDays int) models.StreakState {
	if loc == nil {
		loc = time.UTC
	}
	today := now.In(loc).Format(DayFormat)

	if state.LastActiveDay == today {
		return state
	}

	gap := daysBetween(state.LastActiveDay, today)
	switch {
	case state.Current == 0 || gap <= 0:
		// First ever activity, or a clock moving backwards: start fresh.
		state.Current = 1
		state.GraceUsed = false
	case gap == 1:
		state.Current++
	case gap-1 <= graceDays:
		state.Current++
		state.GraceUsed = true
	default:
		state.Current = 1
		state.GraceUsed = false
	}

	if state.Current > state.Longest {
		state.Longest = state.Current
	}
	state.LastActiveDay = today
	return state
}

// daysBetween counts calendar days from one DayFormat date to another.
// Both dates are already localized day keys, so the arithmetic runs in
// UTC and is immune to DST shifts. Returns 0 when from is unparseable.
func daysBetween(from, to string) int {
	a, err := time.ParseInLocation(DayFormat, from, time.UTC)
	if err != nil {
		return 0
	}
	b, err := time.ParseInLocation(DayFormat, to, time.UTC)
	if err != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}
