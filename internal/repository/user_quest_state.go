package repository

import (
	"context"
	"time"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserQuestStateRepository interface {
	// Create inserts the state row unless one already exists for the
	// same (user, campaign, template, reset key); a lost race is not
	// an error, callers re-read.
	Create(ctx context.Context, data *entity.UserQuestState) error
	Get(ctx context.Context, userID, campaignID, templateID, resetKey string) (*entity.UserQuestState, error)
	GetByUserAndID(ctx context.Context, userID, id string) (*entity.UserQuestState, error)
	// GetByUserAndIDForUpdate is GetByUserAndID with a write lock, for
	// the reward claim transaction.
	GetByUserAndIDForUpdate(ctx context.Context, userID, id string) (*entity.UserQuestState, error)
	ListByUserCampaignResetKey(ctx context.Context, userID, campaignID, resetKey string) ([]entity.UserQuestState, error)
	// RaiseProgress lifts progress to value if and only if the stored
	// value is lower. Progress never decreases.
	RaiseProgress(ctx context.Context, id string, value int64) error
	// MarkCompleted stamps the completion timestamp once; a row
	// already completed is left untouched.
	MarkCompleted(ctx context.Context, id string, at time.Time) error
	// MarkClaimed stamps the claim timestamp once and reports whether
	// this call won the stamp.
	MarkClaimed(ctx context.Context, id string, at time.Time) (bool, error)
}

type userQuestStateRepository struct{}

func NewUserQuestStateRepository() *userQuestStateRepository {
	return &userQuestStateRepository{}
}

func (r *userQuestStateRepository) Create(ctx context.Context, data *entity.UserQuestState) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "campaign_id"},
				{Name: "template_id"},
				{Name: "reset_key"},
			},
			DoNothing: true,
		}).Create(data).Error
}

func (r *userQuestStateRepository) Get(
	ctx context.Context, userID, campaignID, templateID, resetKey string,
) (*entity.UserQuestState, error) {
	var record entity.UserQuestState
	err := xcontext.DB(ctx).
		Where("user_id=? AND campaign_id=? AND template_id=? AND reset_key=?",
			userID, campaignID, templateID, resetKey).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userQuestStateRepository) GetByUserAndID(
	ctx context.Context, userID, id string,
) (*entity.UserQuestState, error) {
	var record entity.UserQuestState
	err := xcontext.DB(ctx).
		Where("id=? AND user_id=?", id, userID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userQuestStateRepository) GetByUserAndIDForUpdate(
	ctx context.Context, userID, id string,
) (*entity.UserQuestState, error) {
	db := xcontext.DB(ctx)
	// Row locks are only meaningful on mysql; sqlite rejects the
	// clause and serializes writers itself.
	if db.Dialector.Name() == "mysql" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var record entity.UserQuestState
	err := db.Where("id=? AND user_id=?", id, userID).Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userQuestStateRepository) ListByUserCampaignResetKey(
	ctx context.Context, userID, campaignID, resetKey string,
) ([]entity.UserQuestState, error) {
	var records []entity.UserQuestState
	err := xcontext.DB(ctx).
		Where("user_id=? AND campaign_id=? AND reset_key=?", userID, campaignID, resetKey).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userQuestStateRepository) RaiseProgress(ctx context.Context, id string, value int64) error {
	return xcontext.DB(ctx).
		Model(&entity.UserQuestState{}).
		Where("id=? AND progress < ?", id, value).
		Update("progress", value).Error
}

func (r *userQuestStateRepository) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	return xcontext.DB(ctx).
		Model(&entity.UserQuestState{}).
		Where("id=? AND completed_at IS NULL", id).
		Update("completed_at", at).Error
}

func (r *userQuestStateRepository) MarkClaimed(ctx context.Context, id string, at time.Time) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.UserQuestState{}).
		Where("id=? AND reward_claimed_at IS NULL", id).
		Update("reward_claimed_at", at)

	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected == 0 {
		return false, gorm.ErrRecordNotFound
	}

	return true, nil
}
