package testutil

import (
	"context"
	"time"

	"github.com/plumehq/backend/config"
	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/internal/model"
	"github.com/plumehq/backend/pkg/authenticator"
	"github.com/plumehq/backend/pkg/logger"
	"github.com/plumehq/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockContext returns a context carrying an isolated in-memory
// database with the full schema, test configs pinned to UTC, and a
// silent logger.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	configs := MockConfigs()

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, configs)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx,
		authenticator.NewTokenEngine[model.AccessToken](configs.Auth.AccessToken))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		ApiServer: config.APIServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 10,
		},
		Auth: config.AuthConfigs{
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Secret:     "secret",
				Expiration: time.Minute,
			},
		},
		Growth: config.GrowthConfigs{
			Timezone:    "UTC",
			LevelStepXP: 100,

			PostXP:             10,
			FirstPostBonusXP:   5,
			LikeGivenXP:        1,
			LikeReceivedXP:     2,
			BookmarkReceivedXP: 3,

			LikeGivenDailyCap:        20,
			LikeReceivedDailyCap:     40,
			BookmarkReceivedDailyCap: 30,

			TitleBands: []config.TitleBand{
				{MinLevel: 1, Title: "Novice Scribe"},
				{MinLevel: 5, Title: "Wordsmith"},
				{MinLevel: 10, Title: "Storyteller"},
			},
		},
	}
}
