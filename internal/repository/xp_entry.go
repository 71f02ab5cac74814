package repository

import (
	"context"
	"database/sql"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/pkg/xcontext"
)

type XPEntryRepository interface {
	Create(ctx context.Context, data *entity.XPEntry) error
	SumByUserReasonDay(ctx context.Context, userID string, reason entity.XPReason, dayValue string) (int64, error)
	SumByUserDay(ctx context.Context, userID string, dayValue string) (int64, error)
}

type xpEntryRepository struct{}

func NewXPEntryRepository() *xpEntryRepository {
	return &xpEntryRepository{}
}

func (r *xpEntryRepository) Create(ctx context.Context, data *entity.XPEntry) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *xpEntryRepository) SumByUserReasonDay(
	ctx context.Context, userID string, reason entity.XPReason, dayValue string,
) (int64, error) {
	var result sql.NullInt64
	err := xcontext.DB(ctx).Model(&entity.XPEntry{}).
		Select("SUM(amount)").
		Where("user_id=? AND reason=? AND day_value=?", userID, reason, dayValue).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result.Int64, nil
}

func (r *xpEntryRepository) SumByUserDay(ctx context.Context, userID string, dayValue string) (int64, error) {
	var result sql.NullInt64
	err := xcontext.DB(ctx).Model(&entity.XPEntry{}).
		Select("SUM(amount)").
		Where("user_id=? AND day_value=?", userID, dayValue).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result.Int64, nil
}
