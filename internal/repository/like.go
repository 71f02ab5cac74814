package repository

import (
	"context"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type LikeRepository interface {
	// Create inserts the like and reports whether a row was actually
	// inserted. A duplicate like is not an error.
	Create(ctx context.Context, data *entity.Like) (bool, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountReceivedByAuthor(ctx context.Context, authorID string) (int64, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	MaxCountOnSinglePost(ctx context.Context, authorID string) (int64, error)
}

type likeRepository struct{}

func NewLikeRepository() *likeRepository {
	return &likeRepository{}
}

func (r *likeRepository) Create(ctx context.Context, data *entity.Like) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "post_id"},
			},
			DoNothing: true,
		}).Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *likeRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Like{}).
		Where("user_id=?", userID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *likeRepository) CountReceivedByAuthor(ctx context.Context, authorID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Like{}).
		Joins("JOIN posts ON posts.id=likes.post_id").
		Where("posts.author_id=?", authorID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Like{}).
		Where("post_id=?", postID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *likeRepository) MaxCountOnSinglePost(ctx context.Context, authorID string) (int64, error) {
	var result []int64
	err := xcontext.DB(ctx).Model(&entity.Like{}).
		Select("COUNT(*)").
		Joins("JOIN posts ON posts.id=likes.post_id").
		Where("posts.author_id=?", authorID).
		Group("likes.post_id").
		Order("COUNT(*) DESC").
		Limit(1).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	if len(result) == 0 {
		return 0, nil
	}

	return result[0], nil
}
