package model

type GetSummaryRequest struct{}

type GetSummaryResponse struct {
	TotalXP        int64  `json:"total_xp"`
	Level          int    `json:"level"`
	XPIntoLevel    int64  `json:"xp_into_level"`
	NextLevelXP    int64  `json:"next_level_xp"`
	Title          string `json:"title"`
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	TodayXP        int64  `json:"today_xp"`
	PostsLast7Days int64  `json:"posts_last_7_days"`
}

type Achievement struct {
	ID          string         `json:"id"`
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Target      int64          `json:"target"`
	RewardXP    int64          `json:"reward_xp"`
	Progress    int64          `json:"progress"`
	Completed   bool           `json:"completed"`
	Claimed     bool           `json:"claimed"`
	StateID     string         `json:"state_id,omitempty"`
	Display     map[string]any `json:"display,omitempty"`
}

type GetAchievementsRequest struct{}

type GetAchievementsResponse struct {
	Achievements []Achievement `json:"achievements"`
}

type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name,omitempty"`
	TotalXP  int64  `json:"total_xp"`
	Rank     int64  `json:"rank"`
}

type GetLeaderboardRequest struct {
	Limit int `json:"limit"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

type BackfillAchievementsRequest struct{}

type BackfillAchievementsResponse struct {
	SyncedUsers int `json:"synced_users"`
}
