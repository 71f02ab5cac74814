package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/plumehq/backend/internal/domain/gamify"
	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/internal/model"
	"github.com/plumehq/backend/internal/repository"
	"github.com/plumehq/backend/pkg/errorx"
	"github.com/plumehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PostDomain interface {
	CreateCategory(context.Context, *model.CreateCategoryRequest) (*model.CreateCategoryResponse, error)
	CreatePost(context.Context, *model.CreatePostRequest) (*model.CreatePostResponse, error)
	AddLike(context.Context, *model.AddLikeRequest) (*model.AddLikeResponse, error)
	AddBookmark(context.Context, *model.AddBookmarkRequest) (*model.AddBookmarkResponse, error)
}

type postDomain struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	likeRepo     repository.LikeRepository
	bookmarkRepo repository.BookmarkRepository
	engine       *gamify.Engine
}

func NewPostDomain(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	likeRepo repository.LikeRepository,
	bookmarkRepo repository.BookmarkRepository,
	engine *gamify.Engine,
) PostDomain {
	return &postDomain{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		likeRepo:     likeRepo,
		bookmarkRepo: bookmarkRepo,
		engine:       engine,
	}
}

func (d *postDomain) CreateCategory(
	ctx context.Context, req *model.CreateCategoryRequest,
) (*model.CreateCategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty category name")
	}

	_, err := d.categoryRepo.GetByName(ctx, name)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "This category already exists")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check category name: %v", err)
		return nil, errorx.Unknown
	}

	category := &entity.Category{
		Base: entity.Base{ID: uuid.NewString()},
		Name: name,
	}

	if err := d.categoryRepo.Create(ctx, category); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create category: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCategoryResponse{ID: category.ID}, nil
}

func (d *postDomain) CreatePost(
	ctx context.Context, req *model.CreatePostRequest,
) (*model.CreatePostResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	post := &entity.Post{
		Base:     entity.Base{ID: uuid.NewString()},
		AuthorID: xcontext.RequestUserID(ctx),
		Title:    req.Title,
		Content:  req.Content,
	}

	if req.CategoryID != "" {
		if _, err := d.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found category")
			}

			xcontext.Logger(ctx).Errorf("Cannot get category: %v", err)
			return nil, errorx.Unknown
		}

		post.CategoryID = sql.NullString{String: req.CategoryID, Valid: true}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.postRepo.Create(ctx, post); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create post: %v", err)
		return nil, errorx.Unknown
	}

	growth, err := d.engine.OnPostCreated(ctx, post)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply post growth effects: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CreatePostResponse{
		ID:            post.ID,
		GrantedXP:     growth.GrantedXP,
		CurrentStreak: growth.CurrentStreak,
	}, nil
}

func (d *postDomain) AddLike(
	ctx context.Context, req *model.AddLikeRequest,
) (*model.AddLikeResponse, error) {
	post, err := d.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	inserted, err := d.likeRepo.Create(ctx, &entity.Like{UserID: userID, PostID: post.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create like: %v", err)
		return nil, errorx.Unknown
	}

	// A repeated like is accepted but grants nothing.
	if inserted {
		if err := d.engine.OnLikeAdded(ctx, userID, post); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot apply like growth effects: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.AddLikeResponse{}, nil
}

func (d *postDomain) AddBookmark(
	ctx context.Context, req *model.AddBookmarkRequest,
) (*model.AddBookmarkResponse, error) {
	post, err := d.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	inserted, err := d.bookmarkRepo.Create(ctx, &entity.Bookmark{UserID: userID, PostID: post.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create bookmark: %v", err)
		return nil, errorx.Unknown
	}

	if inserted {
		if err := d.engine.OnBookmarkAdded(ctx, userID, post); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot apply bookmark growth effects: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.AddBookmarkResponse{}, nil
}
