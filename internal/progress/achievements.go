package progress

import "woodpecker/internal/models"

// AchievementDef pairs an achievement with its unlock predicate over a
// cumulative stats snapshot. Predicates read the snapshot only and never
// mutate anything; unlock records are the caller's concern.
type AchievementDef struct {
	models.Achievement
	Unlocked func(models.UserStats) bool
}

// Definitions returns the full achievement catalog. The list is fixed at
// compile time; ids are stable and stored in unlock records.
func Definitions() []AchievementDef {
	return []AchievementDef{
		def("first_set", "Collector", "Create your first puzzle set",
			func(s models.UserStats) bool { return s.SetsCreated >= 1 }),
		def("first_cycle", "First Pass", "Complete your first cycle",
			func(s models.UserStats) bool { return s.CyclesCompleted >= 1 }),
		def("woodpecker", "Woodpecker", "Complete 3 cycles",
			func(s models.UserStats) bool { return s.CyclesCompleted >= 3 }),
		def("relentless", "Relentless", "Complete 10 cycles",
			func(s models.UserStats) bool { return s.CyclesCompleted >= 10 }),
		def("sharp_eyes", "Sharp Eyes", "Solve 100 puzzles correctly",
			func(s models.UserStats) bool { return s.CorrectAttempts >= 100 }),
		def("tactician", "Tactician", "Solve 1000 puzzles correctly",
			func(s models.UserStats) bool { return s.CorrectAttempts >= 1000 }),
		def("perfect_cycle", "Flawless", "Complete a cycle with every puzzle correct",
			func(s models.UserStats) bool { return s.PerfectCycles >= 1 }),
		def("set_master", "Set Master", "Master a set with a perfect cycle",
			func(s models.UserStats) bool { return s.SetsMastered >= 1 }),
		def("streak_week", "Daily Grind", "Train 7 days in a row",
			func(s models.UserStats) bool { return s.LongestStreak >= 7 }),
		def("streak_month", "Iron Will", "Train 30 days in a row",
			func(s models.UserStats) bool { return s.LongestStreak >= 30 }),
		def("level_5", "Club Player", "Reach level 5",
			func(s models.UserStats) bool { return LevelForTotalXp(s.TotalXp) >= 5 }),
		def("level_10", "Candidate Master", "Reach level 10",
			func(s models.UserStats) bool { return LevelForTotalXp(s.TotalXp) >= 10 }),
	}
}

func def(id, label, description string, unlocked func(models.UserStats) bool) AchievementDef {
	return AchievementDef{
		Achievement: models.Achievement{ID: id, Label: label, Description: description},
		Unlocked:    unlocked,
	}
}

// NewlyUnlocked evaluates every not-yet-unlocked achievement against the
// snapshot and returns the ones whose predicate now holds. Already
// unlocked ids are skipped, so re-evaluation is idempotent.
func NewlyUnlocked(stats models.UserStats, already map[string]bool) []AchievementDef {
	var out []AchievementDef
	for _, d := range Definitions() {
		if already[d.ID] {
			continue
		}
		if d.Unlocked(stats) {
			out = append(out, d)
		}
	}
	return out
}
