package gamify

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/math"
	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/internal/repository"
	"github.com/plumehq/backend/pkg/dateutil"
	"github.com/plumehq/backend/pkg/errorx"
	"github.com/plumehq/backend/pkg/xcontext"
	"github.com/plumehq/backend/pkg/xredis"
	"gorm.io/gorm"
)

// XPLeaderboardKey is the redis sorted set ranking users by total XP.
const XPLeaderboardKey = "leaderboard:xp"

// Engine implements the growth and quest-progress core: the XP ledger,
// level derivation, streak tracking, achievement advancement, campaign
// state synchronization, and the reward claim transaction.
type Engine struct {
	userRepo     repository.UserRepository
	growthRepo   repository.UserGrowthRepository
	xpRepo       repository.XPEntryRepository
	postRepo     repository.PostRepository
	likeRepo     repository.LikeRepository
	bookmarkRepo repository.BookmarkRepository
	templateRepo repository.QuestTemplateRepository
	stateRepo    repository.UserQuestStateRepository

	// redisClient may be nil; the leaderboard is then simply not
	// maintained and reads fall back to the database.
	redisClient xredis.Client

	now func() time.Time
}

func NewEngine(
	userRepo repository.UserRepository,
	growthRepo repository.UserGrowthRepository,
	xpRepo repository.XPEntryRepository,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	bookmarkRepo repository.BookmarkRepository,
	templateRepo repository.QuestTemplateRepository,
	stateRepo repository.UserQuestStateRepository,
	redisClient xredis.Client,
) *Engine {
	return &Engine{
		userRepo:     userRepo,
		growthRepo:   growthRepo,
		xpRepo:       xpRepo,
		postRepo:     postRepo,
		likeRepo:     likeRepo,
		bookmarkRepo: bookmarkRepo,
		templateRepo: templateRepo,
		stateRepo:    stateRepo,
		redisClient:  redisClient,
		now:          time.Now,
	}
}

// Now returns the current time in the platform's reference timezone.
func (e *Engine) Now(ctx context.Context) time.Time {
	cfg := xcontext.Configs(ctx).Growth
	return e.now().In(cfg.Location())
}

// Snapshot computes the user's cumulative counters in one pass. A user
// with no activity or no growth record yet reads as all zeroes.
func (e *Engine) Snapshot(ctx context.Context, userID string) (*MetricsSnapshot, error) {
	snapshot := &MetricsSnapshot{}

	var err error
	if snapshot.TotalPosts, err = e.postRepo.CountByAuthor(ctx, userID); err != nil {
		return nil, err
	}

	if snapshot.PostsPerCategory, err = e.postRepo.CountByAuthorPerCategory(ctx, userID); err != nil {
		return nil, err
	}

	if snapshot.LikesGiven, err = e.likeRepo.CountByUser(ctx, userID); err != nil {
		return nil, err
	}

	if snapshot.LikesReceived, err = e.likeRepo.CountReceivedByAuthor(ctx, userID); err != nil {
		return nil, err
	}

	if snapshot.BookmarksGiven, err = e.bookmarkRepo.CountByUser(ctx, userID); err != nil {
		return nil, err
	}

	if snapshot.BookmarksReceived, err = e.bookmarkRepo.CountReceivedByAuthor(ctx, userID); err != nil {
		return nil, err
	}

	if snapshot.MostLikedPostLikes, err = e.likeRepo.MaxCountOnSinglePost(ctx, userID); err != nil {
		return nil, err
	}

	growth, err := e.growthRepo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else {
		snapshot.CurrentStreak = int64(growth.CurrentStreak)
	}

	return snapshot, nil
}

// GrantXP appends one entry to the XP ledger and raises the user's
// cumulative XP. A non-positive amount is a no-op. When dailyCap is
// positive the amount is clamped to the remaining headroom of
// (user, reason, today); an exhausted cap grants nothing and appends
// nothing. The returned value is the amount actually granted.
func (e *Engine) GrantXP(
	ctx context.Context,
	userID string,
	amount int64,
	reason entity.XPReason,
	metadata entity.Map,
	dailyCap int64,
) (int64, error) {
	if amount <= 0 {
		return 0, nil
	}

	dayValue := dateutil.DayValue(e.Now(ctx))

	if dailyCap > 0 {
		used, err := e.xpRepo.SumByUserReasonDay(ctx, userID, reason, dayValue)
		if err != nil {
			return 0, err
		}

		amount = math.MinInt64(amount, dailyCap-used)
		if amount <= 0 {
			return 0, nil
		}
	}

	if err := e.growthRepo.EnsureExists(ctx, userID); err != nil {
		return 0, err
	}

	entry := &entity.XPEntry{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   userID,
		Amount:   amount,
		Reason:   reason,
		DayValue: dayValue,
		Metadata: metadata,
	}
	if err := e.xpRepo.Create(ctx, entry); err != nil {
		return 0, err
	}

	if err := e.growthRepo.AddXP(ctx, userID, amount); err != nil {
		return 0, err
	}

	growth, err := e.growthRepo.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	progress := ComputeLevel(growth.TotalXP, xcontext.Configs(ctx).Growth.LevelStepXP)
	if progress.Level != growth.Level {
		if err := e.growthRepo.UpdateLevel(ctx, userID, progress.Level); err != nil {
			return 0, err
		}
	}

	if e.redisClient != nil {
		// Best effort: a leaderboard miss must not fail the grant.
		if err := e.redisClient.ZIncrBy(ctx, XPLeaderboardKey, amount, userID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update xp leaderboard: %v", err)
		}
	}

	return amount, nil
}

// StreakResult reports the outcome of counting a post toward the daily
// writing streak.
type StreakResult struct {
	CurrentStreak    int
	LongestStreak    int
	IsFirstPostToday bool
}

// RecordPost updates the daily streak for one created post. Only the
// first post of a calendar day (reference timezone) moves the streak.
func (e *Engine) RecordPost(ctx context.Context, userID string) (*StreakResult, error) {
	if err := e.growthRepo.EnsureExists(ctx, userID); err != nil {
		return nil, err
	}

	growth, err := e.growthRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := e.Now(ctx)
	today := dateutil.DayValue(now)
	yesterday := dateutil.DayValue(dateutil.LastDay(now))

	if growth.LastPostDay == today {
		return &StreakResult{
			CurrentStreak:    growth.CurrentStreak,
			LongestStreak:    growth.LongestStreak,
			IsFirstPostToday: false,
		}, nil
	}

	current := 1
	if growth.LastPostDay == yesterday {
		current = growth.CurrentStreak + 1
	}

	longest := math.MaxInt(growth.LongestStreak, current)
	if err := e.growthRepo.UpdateStreak(ctx, userID, current, longest, today); err != nil {
		return nil, err
	}

	return &StreakResult{
		CurrentStreak:    current,
		LongestStreak:    longest,
		IsFirstPostToday: true,
	}, nil
}

// AdvanceAchievement pushes achievement progress forward under the
// permanent reset key. An unknown or inactive code is a silent no-op
// so that removing a template administratively never breaks callers.
// This never grants XP; rewards go through Claim for achievements and
// quests alike.
func (e *Engine) AdvanceAchievement(ctx context.Context, userID, code string, value int64) error {
	template, err := e.templateRepo.GetActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Debugf("No active achievement template for code %s", code)
			return nil
		}

		return err
	}

	if template.Kind != entity.KindAchievement {
		xcontext.Logger(ctx).Warnf("Template code %s is not an achievement", code)
		return nil
	}

	_, err = e.syncState(ctx, userID, AchievementCampaignID, template, PermanentResetKey, value)
	return err
}

// SyncCampaign evaluates every template of the campaign against the
// snapshot and materializes or advances the user's state rows for the
// campaign's current reset window. The returned states follow the
// campaign's item sort order.
func (e *Engine) SyncCampaign(
	ctx context.Context,
	userID string,
	campaign *entity.Campaign,
	snapshot *MetricsSnapshot,
) ([]entity.UserQuestState, error) {
	resetKey := ResetKey(campaign.Type, e.Now(ctx))

	states := make([]entity.UserQuestState, 0, len(campaign.Items))
	for i := range campaign.Items {
		template := campaign.Items[i].Template
		progress := EvaluateCondition(&template, snapshot)

		state, err := e.syncState(ctx, userID, campaign.ID, &template, resetKey, progress)
		if err != nil {
			return nil, err
		}

		states = append(states, *state)
	}

	return states, nil
}

// syncState is the create-or-raise upsert shared by achievement
// advancement and campaign evaluation. Progress only ever moves
// forward and the completion timestamp is stamped at most once, so
// concurrent evaluations cannot double-count or regress.
func (e *Engine) syncState(
	ctx context.Context,
	userID, campaignID string,
	template *entity.QuestTemplate,
	resetKey string,
	progress int64,
) (*entity.UserQuestState, error) {
	now := e.Now(ctx)

	state, err := e.stateRepo.Get(ctx, userID, campaignID, template.ID, resetKey)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		fresh := &entity.UserQuestState{
			Base:       entity.Base{ID: uuid.NewString()},
			UserID:     userID,
			CampaignID: campaignID,
			TemplateID: template.ID,
			ResetKey:   resetKey,
			Progress:   progress,
		}
		if progress >= template.Target {
			fresh.CompletedAt = sqlNullTime(now)
		}

		// A racing request may have created the row first; the insert
		// does nothing then and the re-read picks up whichever row
		// landed.
		if err := e.stateRepo.Create(ctx, fresh); err != nil {
			return nil, err
		}

		return e.stateRepo.Get(ctx, userID, campaignID, template.ID, resetKey)
	}

	if progress > state.Progress {
		if err := e.stateRepo.RaiseProgress(ctx, state.ID, progress); err != nil {
			return nil, err
		}

		state.Progress = progress
	}

	if !state.CompletedAt.Valid && state.Progress >= template.Target {
		if err := e.stateRepo.MarkCompleted(ctx, state.ID, now); err != nil {
			return nil, err
		}

		state.CompletedAt = sqlNullTime(now)
	}

	return state, nil
}

func sqlNullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

// ClaimResult reports a successful reward claim.
type ClaimResult struct {
	GrantedXP int64
	TotalXP   int64
}

// Claim converts a completed quest state into its one-time XP reward.
// The state row is locked up front so concurrent claims serialize; the
// whole operation commits or rolls back as a unit, so a claimed-but-
// unpaid or paid-but-unclaimed row can never be observed.
func (e *Engine) Claim(ctx context.Context, userID, stateID string) (*ClaimResult, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	state, err := e.stateRepo.GetByUserAndIDForUpdate(ctx, userID, stateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest state")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest state: %v", err)
		return nil, errorx.Unknown
	}

	if !state.CompletedAt.Valid {
		return nil, errorx.New(errorx.NotCompleted, "This quest is not completed yet")
	}

	if state.RewardClaimedAt.Valid {
		return nil, errorx.New(errorx.AlreadyClaimed, "The reward was already claimed")
	}

	if _, err := e.stateRepo.MarkClaimed(ctx, state.ID, e.Now(ctx)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyClaimed, "The reward was already claimed")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark quest state as claimed: %v", err)
		return nil, errorx.Unknown
	}

	template, err := e.templateRepo.GetByID(ctx, state.TemplateID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest template: %v", err)
		return nil, errorx.Unknown
	}

	var granted int64
	if template.RewardXP > 0 {
		granted, err = e.GrantXP(
			ctx, userID, template.RewardXP, entity.XPReasonQuestReward,
			entity.Map{"quest_state_id": state.ID}, 0,
		)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot grant reward xp: %v", err)
			return nil, errorx.Unknown
		}
	}

	growth, err := e.growthRepo.Get(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user growth: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &ClaimResult{GrantedXP: granted, TotalXP: growth.TotalXP}, nil
}
