package gamify

const defaultLevelStepXP = 100

// LevelProgress describes where a cumulative XP value sits on the
// level curve.
type LevelProgress struct {
	Level       int
	XPIntoLevel int64
	// NextLevelXP is the full cost of the current level, i.e. the XP
	// needed from the start of this level to reach the next one.
	NextLevelXP int64
}

// ComputeLevel derives the level from cumulative XP. The cost of going
// from level n to n+1 is stepXP*n, so per-level cost grows linearly.
// The function is pure and total: any non-negative XP maps to a level
// of at least 1. It is recomputed on every XP change instead of being
// tracked incrementally, so the stored level can never drift.
func ComputeLevel(totalXP int64, stepXP int) LevelProgress {
	if stepXP <= 0 {
		stepXP = defaultLevelStepXP
	}

	if totalXP < 0 {
		totalXP = 0
	}

	level := 1
	threshold := int64(0)
	for {
		cost := int64(stepXP) * int64(level)
		if totalXP < threshold+cost {
			break
		}

		threshold += cost
		level++
	}

	return LevelProgress{
		Level:       level,
		XPIntoLevel: totalXP - threshold,
		NextLevelXP: int64(stepXP) * int64(level),
	}
}
