package repository

import (
	"context"
	"errors"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserGrowthRepository interface {
	Get(ctx context.Context, userID string) (*entity.UserGrowth, error)
	// EnsureExists creates the growth record with zero counters if the
	// user has none yet. Safe to call repeatedly and concurrently.
	EnsureExists(ctx context.Context, userID string) error
	AddXP(ctx context.Context, userID string, delta int64) error
	UpdateLevel(ctx context.Context, userID string, level int) error
	UpdateStreak(ctx context.Context, userID string, current, longest int, lastPostDay string) error
	GetTopByXP(ctx context.Context, offset, limit int) ([]entity.UserGrowth, error)
}

type userGrowthRepository struct{}

func NewUserGrowthRepository() *userGrowthRepository {
	return &userGrowthRepository{}
}

func (r *userGrowthRepository) Get(ctx context.Context, userID string) (*entity.UserGrowth, error) {
	var record entity.UserGrowth
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userGrowthRepository) EnsureExists(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&entity.UserGrowth{UserID: userID, Level: 1}).Error
}

func (r *userGrowthRepository) AddXP(ctx context.Context, userID string, delta int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.UserGrowth{}).
		Where("user_id=?", userID).
		Update("total_xp", gorm.Expr("total_xp+?", delta))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	return nil
}

func (r *userGrowthRepository) UpdateLevel(ctx context.Context, userID string, level int) error {
	return xcontext.DB(ctx).
		Model(&entity.UserGrowth{}).
		Where("user_id=?", userID).
		Update("level", level).Error
}

func (r *userGrowthRepository) UpdateStreak(
	ctx context.Context, userID string, current, longest int, lastPostDay string,
) error {
	return xcontext.DB(ctx).
		Model(&entity.UserGrowth{}).
		Where("user_id=?", userID).
		Updates(map[string]any{
			"current_streak": current,
			"longest_streak": longest,
			"last_post_day":  lastPostDay,
		}).Error
}

func (r *userGrowthRepository) GetTopByXP(ctx context.Context, offset, limit int) ([]entity.UserGrowth, error) {
	var records []entity.UserGrowth
	err := xcontext.DB(ctx).
		Order("total_xp DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
