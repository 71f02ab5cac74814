package migration

import (
	"context"
	"errors"
	"time"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

var migrations = []func(context.Context) error{
	migrate0000,
	migrate0001,
}

// Migrate applies every migration step that has not run yet, in order,
// and records each applied version.
func Migrate(ctx context.Context) error {
	if err := xcontext.DB(ctx).AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	current := -1
	var last entity.Migration
	err := xcontext.DB(ctx).Order("version DESC").Take(&last).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	} else {
		current = last.Version
	}

	for version := current + 1; version < len(migrations); version++ {
		if err := migrations[version](ctx); err != nil {
			return err
		}

		record := entity.Migration{Version: version, AppliedAt: time.Now()}
		if err := xcontext.DB(ctx).Create(&record).Error; err != nil {
			return err
		}

		xcontext.Logger(ctx).Infof("Applied migration %04d", version)
	}

	return nil
}
