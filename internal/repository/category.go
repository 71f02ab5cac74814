package repository

import (
	"context"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/pkg/xcontext"
)

type CategoryRepository interface {
	Create(ctx context.Context, data *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	GetList(ctx context.Context) ([]entity.Category, error)
}

type categoryRepository struct{}

func NewCategoryRepository() *categoryRepository {
	return &categoryRepository{}
}

func (r *categoryRepository) Create(ctx context.Context, data *entity.Category) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	result := entity.Category{}
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	result := entity.Category{}
	if err := xcontext.DB(ctx).Take(&result, "name=?", name).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *categoryRepository) GetList(ctx context.Context) ([]entity.Category, error) {
	result := []entity.Category{}
	if err := xcontext.DB(ctx).Order("name ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
