package progress

// levelThresholds[i] is the total XP required to reach level i+1.
// Level 1 starts at 0 XP; each step is strictly larger than the last.
// The curve is a policy table, not a formula, so it can be retuned
// without touching the lookup logic.
var levelThresholds = []int{
	0,     // 1
	100,   // 2
	250,   // 3
	500,   // 4
	900,   // 5
	1400,  // 6
	2100,  // 7
	3000,  // 8
	4200,  // 9
	5700,  // 10
	7500,  // 11
	10000, // 12
	13000, // 13
	16500, // 14
	20500, // 15
	25000, // 16
	30500, // 17
	37000, // 18
	44500, // 19
	53000, // 20
}

// MaxLevel is the highest defined level; LevelForTotalXp clamps here.
var MaxLevel = len(levelThresholds)

// LevelForTotalXp maps cumulative XP to a level. Pure and total: defined
// for zero and arbitrarily large XP, monotone non-decreasing.
func LevelForTotalXp(totalXp int) int {
	if totalXp < 0 {
		return 1
	}
	level := 1
	for i, threshold := range levelThresholds {
		if totalXp >= threshold {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// XpForLevel returns the total XP threshold for the given level, clamped
// to the defined table.
func XpForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelThresholds[level-1]
}

// XpToNextLevel returns how much more XP is needed for the next level,
// or 0 at the level cap.
func XpToNextLevel(totalXp int) int {
	level := LevelForTotalXp(totalXp)
	if level >= MaxLevel {
		return 0
	}
	return levelThresholds[level] - totalXp
}
