package repository

import (
	"context"
	"time"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CampaignRepository interface {
	Create(ctx context.Context, data *entity.Campaign) error
	CreateItem(ctx context.Context, data *entity.CampaignItem) error
	GetByID(ctx context.Context, id string) (*entity.Campaign, error)
	// GetActive returns campaigns whose active flag is set and whose
	// window contains now (open-ended bounds allowed), ordered by
	// priority. Items are preloaded with their templates in sort
	// order.
	GetActive(ctx context.Context, now time.Time) ([]entity.Campaign, error)
}

type campaignRepository struct{}

func NewCampaignRepository() *campaignRepository {
	return &campaignRepository{}
}

func (r *campaignRepository) Create(ctx context.Context, data *entity.Campaign) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *campaignRepository) CreateItem(ctx context.Context, data *entity.CampaignItem) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*entity.Campaign, error) {
	var record entity.Campaign
	err := xcontext.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("campaign_items.sort_order ASC")
		}).
		Preload("Items.Template").
		Where("id=?", id).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *campaignRepository) GetActive(ctx context.Context, now time.Time) ([]entity.Campaign, error) {
	var records []entity.Campaign
	err := xcontext.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("campaign_items.sort_order ASC")
		}).
		Preload("Items.Template").
		Where("is_active=?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at >= ?", now).
		Order("priority ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
