package migration

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/plumehq/backend/internal/domain/gamify"
	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

// migrate0001 seeds the built-in achievement templates. Admins can
// deactivate or re-target them later, the codes stay stable.
func migrate0001(ctx context.Context) error {
	templates := []entity.QuestTemplate{
		{
			Base:          entity.Base{ID: uuid.NewString()},
			Code:          sql.NullString{Valid: true, String: gamify.CodePostCountTotal},
			Name:          "Prolific Writer",
			Description:   "Publish 10 posts",
			ConditionType: entity.ConditionTotalPostCount,
			Target:        10,
			RewardXP:      50,
			Kind:          entity.KindAchievement,
			IsActive:      true,
		},
		{
			Base:          entity.Base{ID: uuid.NewString()},
			Code:          sql.NullString{Valid: true, String: gamify.CodeStreakLength},
			Name:          "Daily Devotion",
			Description:   "Post 7 days in a row",
			ConditionType: entity.ConditionStreakLength,
			Target:        7,
			RewardXP:      70,
			Kind:          entity.KindAchievement,
			IsActive:      true,
		},
		{
			Base:          entity.Base{ID: uuid.NewString()},
			Code:          sql.NullString{Valid: true, String: gamify.CodeLikesReceived},
			Name:          "Crowd Favorite",
			Description:   "Receive 100 likes",
			ConditionType: entity.ConditionLikesReceived,
			Target:        100,
			RewardXP:      100,
			Kind:          entity.KindAchievement,
			IsActive:      true,
		},
		{
			Base:          entity.Base{ID: uuid.NewString()},
			Code:          sql.NullString{Valid: true, String: gamify.CodeMostLikedPost},
			Name:          "Standout Story",
			Description:   "Collect 50 likes on a single post",
			ConditionType: entity.ConditionMostLikedPost,
			Target:        50,
			RewardXP:      80,
			Kind:          entity.KindAchievement,
			IsActive:      true,
		},
		{
			Base:          entity.Base{ID: uuid.NewString()},
			Code:          sql.NullString{Valid: true, String: gamify.CodeFirstBookmark},
			Name:          "Worth Keeping",
			Description:   "Have a post bookmarked for the first time",
			ConditionType: entity.ConditionBookmarksReceived,
			Target:        1,
			RewardXP:      20,
			Kind:          entity.KindAchievement,
			IsActive:      true,
		},
	}

	for i := range templates {
		err := xcontext.DB(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "code"}},
				DoNothing: true,
			}).Create(&templates[i]).Error
		if err != nil {
			return err
		}
	}

	return nil
}
