package repository

import (
	"context"
	"time"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/pkg/xcontext"
)

type PostRepository interface {
	Create(ctx context.Context, data *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	CountByAuthorPerCategory(ctx context.Context, authorID string) (map[string]int64, error)
	CountByAuthorSince(ctx context.Context, authorID string, since time.Time) (int64, error)
}

type postRepository struct{}

func NewPostRepository() *postRepository {
	return &postRepository{}
}

func (r *postRepository) Create(ctx context.Context, data *entity.Post) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var record entity.Post
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Post{}).
		Where("author_id=?", authorID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *postRepository) CountByAuthorPerCategory(ctx context.Context, authorID string) (map[string]int64, error) {
	var rows []struct {
		CategoryID string
		Total      int64
	}

	err := xcontext.DB(ctx).Model(&entity.Post{}).
		Select("category_id, COUNT(*) as total").
		Where("author_id=? AND category_id IS NOT NULL", authorID).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := map[string]int64{}
	for _, row := range rows {
		result[row.CategoryID] = row.Total
	}

	return result, nil
}

func (r *postRepository) CountByAuthorSince(ctx context.Context, authorID string, since time.Time) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Post{}).
		Where("author_id=? AND created_at >= ?", authorID, since).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
