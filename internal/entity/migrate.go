package entity

import (
	"context"

	"github.com/plumehq/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Category{},
		&Post{},
		&Like{},
		&Bookmark{},
		&UserGrowth{},
		&XPEntry{},
		&QuestTemplate{},
		&Campaign{},
		&CampaignItem{},
		&UserQuestState{},
		&Migration{},
	)
}
