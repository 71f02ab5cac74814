package repository

import (
	"context"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type BookmarkRepository interface {
	// Create inserts the bookmark and reports whether a row was
	// actually inserted. A duplicate bookmark is not an error.
	Create(ctx context.Context, data *entity.Bookmark) (bool, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountReceivedByAuthor(ctx context.Context, authorID string) (int64, error)
}

type bookmarkRepository struct{}

func NewBookmarkRepository() *bookmarkRepository {
	return &bookmarkRepository{}
}

func (r *bookmarkRepository) Create(ctx context.Context, data *entity.Bookmark) (bool, error) {
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

func (r *bookmarkRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Bookmark{}).
		Where("user_id=?", userID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *bookmarkRepository) CountReceivedByAuthor(ctx context.Context, authorID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Bookmark{}).
		Joins("JOIN posts ON posts.id=bookmarks.post_id").
		Where("posts.author_id=?", authorID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
