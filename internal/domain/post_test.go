package domain

import (
	"testing"

	"github.com/plumehq/backend/internal/domain/gamify"
	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/internal/model"
	"github.com/plumehq/backend/internal/repository"
	"github.com/plumehq/backend/pkg/errorx"
	"github.com/plumehq/backend/pkg/testutil"
	"github.com/plumehq/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *gamify.Engine {
	return gamify.NewEngine(
		repository.NewUserRepository(),
		repository.NewUserGrowthRepository(),
		repository.NewXPEntryRepository(),
		repository.NewPostRepository(),
		repository.NewLikeRepository(),
		repository.NewBookmarkRepository(),
		repository.NewQuestTemplateRepository(),
		repository.NewUserQuestStateRepository(),
		nil,
	)
}

func newTestPostDomain(engine *gamify.Engine) PostDomain {
	return NewPostDomain(
		repository.NewPostRepository(),
		repository.NewCategoryRepository(),
		repository.NewLikeRepository(),
		repository.NewBookmarkRepository(),
		engine,
	)
}

func Test_postDomain_CreatePost(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestPostDomain(newTestEngine())

	author := testutil.SampleUser(ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, author.ID)

	resp, err := domain.CreatePost(ctx, &model.CreatePostRequest{
		Title:   "A morning in the mountains",
		Content: "It started with fog.",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.Equal(t, int64(15), resp.GrantedXP)
	require.Equal(t, 1, resp.CurrentStreak)

	growth, err := repository.NewUserGrowthRepository().Get(ctx, author.ID)
	require.NoError(t, err)
	require.Equal(t, int64(15), growth.TotalXP)
}

func Test_postDomain_CreatePost_EmptyTitle(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestPostDomain(newTestEngine())

	author := testutil.SampleUser(ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, author.ID)

	_, err := domain.CreatePost(ctx, &model.CreatePostRequest{Title: "   "})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_postDomain_CreatePost_UnknownCategory(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestPostDomain(newTestEngine())

	author := testutil.SampleUser(ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, author.ID)

	_, err := domain.CreatePost(ctx, &model.CreatePostRequest{
		Title:      "Lost post",
		CategoryID: "no-such-category",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_postDomain_AddLike(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestPostDomain(newTestEngine())

	author := testutil.SampleUser(ctx, nil)
	liker := testutil.SampleUser(ctx, nil)
	post := testutil.SamplePost(ctx, &entity.Post{AuthorID: author.ID})

	likerCtx := xcontext.WithRequestUserID(ctx, liker.ID)
	_, err := domain.AddLike(likerCtx, &model.AddLikeRequest{PostID: post.ID})
	require.NoError(t, err)

	authorGrowth, err := repository.NewUserGrowthRepository().Get(ctx, author.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), authorGrowth.TotalXP)

	likerGrowth, err := repository.NewUserGrowthRepository().Get(ctx, liker.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), likerGrowth.TotalXP)
}

func Test_postDomain_AddLike_RepeatGrantsNothing(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestPostDomain(newTestEngine())

	author := testutil.SampleUser(ctx, nil)
	liker := testutil.SampleUser(ctx, nil)
	post := testutil.SamplePost(ctx, &entity.Post{AuthorID: author.ID})

	likerCtx := xcontext.WithRequestUserID(ctx, liker.ID)
	_, err := domain.AddLike(likerCtx, &model.AddLikeRequest{PostID: post.ID})
	require.NoError(t, err)

	_, err = domain.AddLike(likerCtx, &model.AddLikeRequest{PostID: post.ID})
	require.NoError(t, err)

	likerGrowth, err := repository.NewUserGrowthRepository().Get(ctx, liker.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), likerGrowth.TotalXP)
}

func Test_postDomain_AddLike_UnknownPost(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestPostDomain(newTestEngine())

	liker := testutil.SampleUser(ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, liker.ID)

	_, err := domain.AddLike(ctx, &model.AddLikeRequest{PostID: "nope"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_postDomain_AddBookmark(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestPostDomain(newTestEngine())

	author := testutil.SampleUser(ctx, nil)
	reader := testutil.SampleUser(ctx, nil)
	post := testutil.SamplePost(ctx, &entity.Post{AuthorID: author.ID})

	readerCtx := xcontext.WithRequestUserID(ctx, reader.ID)
	_, err := domain.AddBookmark(readerCtx, &model.AddBookmarkRequest{PostID: post.ID})
	require.NoError(t, err)

	authorGrowth, err := repository.NewUserGrowthRepository().Get(ctx, author.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), authorGrowth.TotalXP)

	// Bookmarking your own post grants nothing.
	ownPost := testutil.SamplePost(ctx, &entity.Post{AuthorID: reader.ID})
	_, err = domain.AddBookmark(readerCtx, &model.AddBookmarkRequest{PostID: ownPost.ID})
	require.NoError(t, err)

	_, err = repository.NewUserGrowthRepository().Get(ctx, reader.ID)
	require.Error(t, err)
}

func Test_postDomain_CreateCategory(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestPostDomain(newTestEngine())

	resp, err := domain.CreateCategory(ctx, &model.CreateCategoryRequest{Name: "Travel"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	_, err = domain.CreateCategory(ctx, &model.CreateCategoryRequest{Name: "Travel"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)
}
