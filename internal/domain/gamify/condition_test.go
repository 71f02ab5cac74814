package gamify

import (
	"database/sql"
	"testing"

	"github.com/plumehq/backend/internal/entity"
	"github.com/stretchr/testify/require"
)

func Test_EvaluateCondition(t *testing.T) {
	snapshot := &MetricsSnapshot{
		TotalPosts:         12,
		PostsPerCategory:   map[string]int64{"tech": 7},
		LikesGiven:         3,
		LikesReceived:      40,
		BookmarksGiven:     2,
		BookmarksReceived:  5,
		CurrentStreak:      9,
		MostLikedPostLikes: 21,
	}

	tests := []struct {
		name     string
		template entity.QuestTemplate
		want     int64
	}{
		{
			name:     "total post count",
			template: entity.QuestTemplate{ConditionType: entity.ConditionTotalPostCount},
			want:     12,
		},
		{
			name: "post count in category",
			template: entity.QuestTemplate{
				ConditionType: entity.ConditionPostCountInCategory,
				CategoryID:    sql.NullString{String: "tech", Valid: true},
			},
			want: 7,
		},
		{
			name: "post count in category with no posts",
			template: entity.QuestTemplate{
				ConditionType: entity.ConditionPostCountInCategory,
				CategoryID:    sql.NullString{String: "travel", Valid: true},
			},
			want: 0,
		},
		{
			name: "category condition without category reads zero",
			template: entity.QuestTemplate{
				ConditionType: entity.ConditionPostCountInCategory,
			},
			want: 0,
		},
		{
			name:     "likes given",
			template: entity.QuestTemplate{ConditionType: entity.ConditionLikesGiven},
			want:     3,
		},
		{
			name:     "likes received",
			template: entity.QuestTemplate{ConditionType: entity.ConditionLikesReceived},
			want:     40,
		},
		{
			name:     "bookmarks given",
			template: entity.QuestTemplate{ConditionType: entity.ConditionBookmarksGiven},
			want:     2,
		},
		{
			name:     "bookmarks received",
			template: entity.QuestTemplate{ConditionType: entity.ConditionBookmarksReceived},
			want:     5,
		},
		{
			name:     "streak length",
			template: entity.QuestTemplate{ConditionType: entity.ConditionStreakLength},
			want:     9,
		},
		{
			name:     "most liked post",
			template: entity.QuestTemplate{ConditionType: entity.ConditionMostLikedPost},
			want:     21,
		},
		{
			name:     "unknown condition reads zero",
			template: entity.QuestTemplate{ConditionType: entity.ConditionType("mystery")},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EvaluateCondition(&tt.template, snapshot))
		})
	}
}
