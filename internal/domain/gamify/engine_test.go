package gamify

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/internal/repository"
	"github.com/plumehq/backend/pkg/errorx"
	"github.com/plumehq/backend/pkg/testutil"
	"github.com/plumehq/backend/pkg/xredis"
	"github.com/stretchr/testify/require"
)

func newTestEngine(redisClient xredis.Client) *Engine {
	return NewEngine(
		repository.NewUserRepository(),
		repository.NewUserGrowthRepository(),
		repository.NewXPEntryRepository(),
		repository.NewPostRepository(),
		repository.NewLikeRepository(),
		repository.NewBookmarkRepository(),
		repository.NewQuestTemplateRepository(),
		repository.NewUserQuestStateRepository(),
		redisClient,
	)
}

func Test_Engine_GrantXP(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	granted, err := engine.GrantXP(ctx, user.ID, 30, entity.XPReasonPostCreate, nil, 0)
	require.NoError(t, err)
	require.Equal(t, int64(30), granted)

	growth, err := engine.growthRepo.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(30), growth.TotalXP)
	require.Equal(t, 1, growth.Level)
}

func Test_Engine_GrantXP_NonPositiveAmountIsNoop(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	granted, err := engine.GrantXP(ctx, user.ID, 0, entity.XPReasonLikeGiven, nil, 0)
	require.NoError(t, err)
	require.Equal(t, int64(0), granted)

	granted, err = engine.GrantXP(ctx, user.ID, -5, entity.XPReasonLikeGiven, nil, 0)
	require.NoError(t, err)
	require.Equal(t, int64(0), granted)
}

func Test_Engine_GrantXP_LevelUp(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	_, err := engine.GrantXP(ctx, user.ID, 150, entity.XPReasonQuestReward, nil, 0)
	require.NoError(t, err)

	growth, err := engine.growthRepo.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, growth.Level)
}

func Test_Engine_GrantXP_DailyCap(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	// 15 of the 20-point cap.
	granted, err := engine.GrantXP(ctx, user.ID, 15, entity.XPReasonLikeGiven, nil, 20)
	require.NoError(t, err)
	require.Equal(t, int64(15), granted)

	// Only 5 points of headroom remain.
	granted, err = engine.GrantXP(ctx, user.ID, 10, entity.XPReasonLikeGiven, nil, 20)
	require.NoError(t, err)
	require.Equal(t, int64(5), granted)

	// Cap exhausted, no grant and no ledger entry.
	granted, err = engine.GrantXP(ctx, user.ID, 10, entity.XPReasonLikeGiven, nil, 20)
	require.NoError(t, err)
	require.Equal(t, int64(0), granted)

	day := engine.Now(ctx).Format("2006-01-02")
	sum, err := engine.xpRepo.SumByUserReasonDay(ctx, user.ID, entity.XPReasonLikeGiven, day)
	require.NoError(t, err)
	require.Equal(t, int64(20), sum)
}

func Test_Engine_GrantXP_CapIsPerReason(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	granted, err := engine.GrantXP(ctx, user.ID, 20, entity.XPReasonLikeGiven, nil, 20)
	require.NoError(t, err)
	require.Equal(t, int64(20), granted)

	// Another reason keeps its own headroom.
	granted, err = engine.GrantXP(ctx, user.ID, 20, entity.XPReasonLikeReceived, nil, 40)
	require.NoError(t, err)
	require.Equal(t, int64(20), granted)
}

func Test_Engine_GrantXP_CapResetsNextDay(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	now := time.Date(2023, time.May, 29, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return now }

	granted, err := engine.GrantXP(ctx, user.ID, 20, entity.XPReasonLikeGiven, nil, 20)
	require.NoError(t, err)
	require.Equal(t, int64(20), granted)

	now = now.AddDate(0, 0, 1)
	granted, err = engine.GrantXP(ctx, user.ID, 20, entity.XPReasonLikeGiven, nil, 20)
	require.NoError(t, err)
	require.Equal(t, int64(20), granted)
}

func Test_Engine_GrantXP_RedisFailureIsIgnored(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(&testutil.MockRedisClient{
		ZIncrByFunc: func(ctx context.Context, key string, incr int64, member string) error {
			return errors.New("connection refused")
		},
	})
	user := testutil.SampleUser(ctx, nil)

	granted, err := engine.GrantXP(ctx, user.ID, 10, entity.XPReasonPostCreate, nil, 0)
	require.NoError(t, err)
	require.Equal(t, int64(10), granted)
}

func Test_Engine_RecordPost_Streak(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	now := time.Date(2023, time.May, 29, 9, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return now }

	// First ever post starts the streak.
	result, err := engine.RecordPost(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, result.IsFirstPostToday)
	require.Equal(t, 1, result.CurrentStreak)

	// A second post on the same day changes nothing.
	result, err = engine.RecordPost(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, result.IsFirstPostToday)
	require.Equal(t, 1, result.CurrentStreak)

	// Posting the next day extends the streak.
	now = now.AddDate(0, 0, 1)
	result, err = engine.RecordPost(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, result.IsFirstPostToday)
	require.Equal(t, 2, result.CurrentStreak)
	require.Equal(t, 2, result.LongestStreak)

	// Skipping a day resets the streak but keeps the longest.
	now = now.AddDate(0, 0, 2)
	result, err = engine.RecordPost(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, result.IsFirstPostToday)
	require.Equal(t, 1, result.CurrentStreak)
	require.Equal(t, 2, result.LongestStreak)
}

func Test_Engine_AdvanceAchievement(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	template := testutil.SampleQuestTemplate(ctx, &entity.QuestTemplate{
		Code:          sql.NullString{String: CodeLikesReceived, Valid: true},
		ConditionType: entity.ConditionLikesReceived,
		Target:        10,
		RewardXP:      100,
		Kind:          entity.KindAchievement,
	})

	require.NoError(t, engine.AdvanceAchievement(ctx, user.ID, CodeLikesReceived, 4))

	state, err := engine.stateRepo.Get(ctx, user.ID, AchievementCampaignID, template.ID, PermanentResetKey)
	require.NoError(t, err)
	require.Equal(t, int64(4), state.Progress)
	require.False(t, state.CompletedAt.Valid)

	// Progress never regresses.
	require.NoError(t, engine.AdvanceAchievement(ctx, user.ID, CodeLikesReceived, 2))
	state, err = engine.stateRepo.Get(ctx, user.ID, AchievementCampaignID, template.ID, PermanentResetKey)
	require.NoError(t, err)
	require.Equal(t, int64(4), state.Progress)

	// Reaching the target stamps the completion exactly once.
	require.NoError(t, engine.AdvanceAchievement(ctx, user.ID, CodeLikesReceived, 10))
	state, err = engine.stateRepo.Get(ctx, user.ID, AchievementCampaignID, template.ID, PermanentResetKey)
	require.NoError(t, err)
	require.True(t, state.CompletedAt.Valid)
	completedAt := state.CompletedAt.Time

	require.NoError(t, engine.AdvanceAchievement(ctx, user.ID, CodeLikesReceived, 50))
	state, err = engine.stateRepo.Get(ctx, user.ID, AchievementCampaignID, template.ID, PermanentResetKey)
	require.NoError(t, err)
	require.Equal(t, int64(50), state.Progress)
	require.Equal(t, completedAt.Unix(), state.CompletedAt.Time.Unix())

	// Advancement records progress only, the reward stays unclaimed.
	growth, err := engine.growthRepo.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), growth.TotalXP)
}

func Test_Engine_AdvanceAchievement_UnknownCodeIsNoop(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	require.NoError(t, engine.AdvanceAchievement(ctx, user.ID, "NO_SUCH_CODE", 3))
}

func Test_Engine_SyncCampaign_ResetKeyIsolation(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	template := testutil.SampleQuestTemplate(ctx, &entity.QuestTemplate{
		ConditionType: entity.ConditionTotalPostCount,
		Target:        3,
	})
	campaign := testutil.SampleCampaign(ctx, nil, template)

	now := time.Date(2023, time.May, 29, 10, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return now }

	campaignRepo := repository.NewCampaignRepository()
	loaded, err := campaignRepo.GetByID(ctx, campaign.ID)
	require.NoError(t, err)

	states, err := engine.SyncCampaign(ctx, user.ID, loaded, &MetricsSnapshot{TotalPosts: 2})
	require.NoError(t, err)
	require.Len(t, states, 1)
	require.Equal(t, int64(2), states[0].Progress)
	require.Equal(t, "2023-05-29", states[0].ResetKey)

	// The next day gets a fresh state row under a new reset key.
	now = now.AddDate(0, 0, 1)
	states, err = engine.SyncCampaign(ctx, user.ID, loaded, &MetricsSnapshot{TotalPosts: 2})
	require.NoError(t, err)
	require.Equal(t, "2023-05-30", states[0].ResetKey)

	yesterday, err := engine.stateRepo.Get(ctx, user.ID, campaign.ID, template.ID, "2023-05-29")
	require.NoError(t, err)
	require.Equal(t, int64(2), yesterday.Progress)
}

func Test_Engine_Claim(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	template := testutil.SampleQuestTemplate(ctx, &entity.QuestTemplate{
		ConditionType: entity.ConditionTotalPostCount,
		Target:        3,
		RewardXP:      25,
	})
	campaign := testutil.SampleCampaign(ctx, nil, template)

	campaignRepo := repository.NewCampaignRepository()
	loaded, err := campaignRepo.GetByID(ctx, campaign.ID)
	require.NoError(t, err)

	states, err := engine.SyncCampaign(ctx, user.ID, loaded, &MetricsSnapshot{TotalPosts: 1})
	require.NoError(t, err)

	// Claiming an incomplete quest is rejected.
	_, err = engine.Claim(ctx, user.ID, states[0].ID)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotCompleted, errx.Code)

	states, err = engine.SyncCampaign(ctx, user.ID, loaded, &MetricsSnapshot{TotalPosts: 3})
	require.NoError(t, err)
	require.True(t, states[0].CompletedAt.Valid)

	result, err := engine.Claim(ctx, user.ID, states[0].ID)
	require.NoError(t, err)
	require.Equal(t, int64(25), result.GrantedXP)
	require.Equal(t, int64(25), result.TotalXP)

	// The reward is paid exactly once.
	_, err = engine.Claim(ctx, user.ID, states[0].ID)
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyClaimed, errx.Code)

	growth, err := engine.growthRepo.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(25), growth.TotalXP)
}

func Test_Engine_Claim_ForeignStateIsNotFound(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	owner := testutil.SampleUser(ctx, nil)
	intruder := testutil.SampleUser(ctx, nil)

	template := testutil.SampleQuestTemplate(ctx, &entity.QuestTemplate{
		ConditionType: entity.ConditionTotalPostCount,
		Target:        1,
		RewardXP:      10,
	})
	campaign := testutil.SampleCampaign(ctx, nil, template)

	loaded, err := repository.NewCampaignRepository().GetByID(ctx, campaign.ID)
	require.NoError(t, err)

	states, err := engine.SyncCampaign(ctx, owner.ID, loaded, &MetricsSnapshot{TotalPosts: 1})
	require.NoError(t, err)

	_, err = engine.Claim(ctx, intruder.ID, states[0].ID)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_Engine_OnPostCreated_AchievementCompletes(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	template := testutil.SampleQuestTemplate(ctx, &entity.QuestTemplate{
		Code:          sql.NullString{String: CodePostCountTotal, Valid: true},
		ConditionType: entity.ConditionTotalPostCount,
		Target:        10,
		RewardXP:      50,
		Kind:          entity.KindAchievement,
	})

	now := time.Date(2023, time.May, 1, 8, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		post := testutil.SamplePost(ctx, &entity.Post{AuthorID: user.ID})
		_, err := engine.OnPostCreated(ctx, &post)
		require.NoError(t, err)
		now = now.AddDate(0, 0, 1)
	}

	state, err := engine.stateRepo.Get(ctx, user.ID, AchievementCampaignID, template.ID, PermanentResetKey)
	require.NoError(t, err)
	require.Equal(t, int64(10), state.Progress)
	require.True(t, state.CompletedAt.Valid)

	// Ten days of posting also built a ten-day streak.
	growth, err := engine.growthRepo.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 10, growth.CurrentStreak)
}

func Test_Engine_OnPostCreated_GrantsPostAndBonusXP(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	post := testutil.SamplePost(ctx, &entity.Post{AuthorID: user.ID})
	result, err := engine.OnPostCreated(ctx, &post)
	require.NoError(t, err)
	require.Equal(t, int64(15), result.GrantedXP)
	require.Equal(t, 1, result.CurrentStreak)

	// The second post of the day earns no first-post bonus.
	post = testutil.SamplePost(ctx, &entity.Post{AuthorID: user.ID})
	result, err = engine.OnPostCreated(ctx, &post)
	require.NoError(t, err)
	require.Equal(t, int64(10), result.GrantedXP)
}

func Test_Engine_OnLikeAdded_SelfLikeSkipsAuthorSide(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	post := testutil.SamplePost(ctx, &entity.Post{AuthorID: user.ID})
	_, err := repository.NewLikeRepository().Create(ctx, &entity.Like{UserID: user.ID, PostID: post.ID})
	require.NoError(t, err)

	require.NoError(t, engine.OnLikeAdded(ctx, user.ID, &post))

	day := engine.Now(ctx).Format("2006-01-02")
	received, err := engine.xpRepo.SumByUserReasonDay(ctx, user.ID, entity.XPReasonLikeReceived, day)
	require.NoError(t, err)
	require.Equal(t, int64(0), received)

	given, err := engine.xpRepo.SumByUserReasonDay(ctx, user.ID, entity.XPReasonLikeGiven, day)
	require.NoError(t, err)
	require.Equal(t, int64(1), given)
}

func Test_Engine_BackfillAchievements(t *testing.T) {
	ctx := testutil.MockContext()
	engine := newTestEngine(nil)
	user := testutil.SampleUser(ctx, nil)

	for i := 0; i < 3; i++ {
		testutil.SamplePost(ctx, &entity.Post{AuthorID: user.ID})
	}

	template := testutil.SampleQuestTemplate(ctx, &entity.QuestTemplate{
		Code:          sql.NullString{String: CodePostCountTotal, Valid: true},
		ConditionType: entity.ConditionTotalPostCount,
		Target:        3,
		RewardXP:      50,
		Kind:          entity.KindAchievement,
	})

	synced, err := engine.BackfillAchievements(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, synced)

	state, err := engine.stateRepo.Get(ctx, user.ID, AchievementCampaignID, template.ID, PermanentResetKey)
	require.NoError(t, err)
	require.Equal(t, int64(3), state.Progress)
	require.True(t, state.CompletedAt.Valid)
}
