package gamify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ComputeLevel(t *testing.T) {
	tests := []struct {
		name    string
		totalXP int64
		want    LevelProgress
	}{
		{
			name:    "zero xp starts at level 1",
			totalXP: 0,
			want:    LevelProgress{Level: 1, XPIntoLevel: 0, NextLevelXP: 100},
		},
		{
			name:    "just below the first threshold",
			totalXP: 99,
			want:    LevelProgress{Level: 1, XPIntoLevel: 99, NextLevelXP: 100},
		},
		{
			name:    "exactly the first threshold",
			totalXP: 100,
			want:    LevelProgress{Level: 2, XPIntoLevel: 0, NextLevelXP: 200},
		},
		{
			name:    "level 3 costs 100+200",
			totalXP: 300,
			want:    LevelProgress{Level: 3, XPIntoLevel: 0, NextLevelXP: 300},
		},
		{
			name:    "partway into level 3",
			totalXP: 450,
			want:    LevelProgress{Level: 3, XPIntoLevel: 150, NextLevelXP: 300},
		},
		{
			name:    "negative xp clamps to zero",
			totalXP: -50,
			want:    LevelProgress{Level: 1, XPIntoLevel: 0, NextLevelXP: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ComputeLevel(tt.totalXP, 100))
		})
	}
}

func Test_ComputeLevel_Monotonic(t *testing.T) {
	prev := ComputeLevel(0, 50)
	for xp := int64(1); xp <= 5000; xp++ {
		cur := ComputeLevel(xp, 50)
		require.GreaterOrEqual(t, cur.Level, prev.Level, "level regressed at xp=%d", xp)
		prev = cur
	}
}

func Test_ComputeLevel_InvalidStepFallsBack(t *testing.T) {
	require.Equal(t, ComputeLevel(250, defaultLevelStepXP), ComputeLevel(250, 0))
	require.Equal(t, ComputeLevel(250, defaultLevelStepXP), ComputeLevel(250, -10))
}
