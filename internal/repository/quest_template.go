package repository

import (
	"context"
	"time"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
)

const templateCodeCacheTTL = time.Minute

type cachedTemplate struct {
	template entity.QuestTemplate
	loadedAt time.Time
}

type QuestTemplateRepository interface {
	Create(ctx context.Context, data *entity.QuestTemplate) error
	GetByID(ctx context.Context, id string) (*entity.QuestTemplate, error)
	// GetActiveByCode returns the active template carrying the given
	// machine code, or gorm.ErrRecordNotFound.
	GetActiveByCode(ctx context.Context, code string) (*entity.QuestTemplate, error)
	GetActiveByKind(ctx context.Context, kind entity.TemplateKind) ([]entity.QuestTemplate, error)
}

type questTemplateRepository struct {
	// Achievement code lookups happen on every post and like; the
	// by-code cache keeps those off the database. Entries expire so an
	// admin edit is picked up within a minute.
	codeCache *xsync.MapOf[string, cachedTemplate]
}

func NewQuestTemplateRepository() *questTemplateRepository {
	return &questTemplateRepository{
		codeCache: xsync.NewMapOf[cachedTemplate](),
	}
}

func (r *questTemplateRepository) Create(ctx context.Context, data *entity.QuestTemplate) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *questTemplateRepository) GetByID(ctx context.Context, id string) (*entity.QuestTemplate, error) {
	var record entity.QuestTemplate
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *questTemplateRepository) GetActiveByCode(ctx context.Context, code string) (*entity.QuestTemplate, error) {
	if cached, ok := r.codeCache.Load(code); ok {
		if time.Since(cached.loadedAt) < templateCodeCacheTTL {
			template := cached.template
			return &template, nil
		}
	}

	var record entity.QuestTemplate
	err := xcontext.DB(ctx).
		Where("code=? AND is_active=?", code, true).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	r.codeCache.Store(code, cachedTemplate{template: record, loadedAt: time.Now()})
	return &record, nil
}

func (r *questTemplateRepository) GetActiveByKind(
	ctx context.Context, kind entity.TemplateKind,
) ([]entity.QuestTemplate, error) {
	var records []entity.QuestTemplate
	err := xcontext.DB(ctx).
		Where("kind=? AND is_active=?", kind, true).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
