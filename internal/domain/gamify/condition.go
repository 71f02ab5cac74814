package gamify

import (
	"github.com/plumehq/backend/internal/entity"
)

// Achievement codes advanced from domain events. They are stable
// machine identifiers; the numeric template ids are free to change.
const (
	CodePostCountTotal = "POST_COUNT_TOTAL"
	CodeStreakLength   = "STREAK_LENGTH"
	CodeLikesReceived  = "LIKES_RECEIVED_TOTAL"
	CodeMostLikedPost  = "MOST_LIKED_POST"
	CodeFirstBookmark  = "FIRST_BOOKMARK"
)

// MetricsSnapshot is a read-only view of a user's cumulative counters,
// computed once per evaluation call and shared across all campaigns.
type MetricsSnapshot struct {
	TotalPosts       int64
	PostsPerCategory map[string]int64

	LikesGiven    int64
	LikesReceived int64

	BookmarksGiven    int64
	BookmarksReceived int64

	CurrentStreak      int64
	MostLikedPostLikes int64
}

// EvaluateCondition reads the counter a template's condition points at.
// A category-scoped condition with no posts in that category reads
// zero.
func EvaluateCondition(template *entity.QuestTemplate, snapshot *MetricsSnapshot) int64 {
	switch template.ConditionType {
	case entity.ConditionTotalPostCount:
		return snapshot.TotalPosts
	case entity.ConditionPostCountInCategory:
		if !template.CategoryID.Valid {
			return 0
		}
		return snapshot.PostsPerCategory[template.CategoryID.String]
	case entity.ConditionLikesGiven:
		return snapshot.LikesGiven
	case entity.ConditionLikesReceived:
		return snapshot.LikesReceived
	case entity.ConditionBookmarksGiven:
		return snapshot.BookmarksGiven
	case entity.ConditionBookmarksReceived:
		return snapshot.BookmarksReceived
	case entity.ConditionStreakLength:
		return snapshot.CurrentStreak
	case entity.ConditionMostLikedPost:
		return snapshot.MostLikedPostLikes
	default:
		return 0
	}
}
