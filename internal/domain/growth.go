package domain

import (
	"context"
	"errors"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"github.com/plumehq/backend/config"
	"github.com/plumehq/backend/internal/domain/gamify"
	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/internal/model"
	"github.com/plumehq/backend/internal/repository"
	"github.com/plumehq/backend/pkg/dateutil"
	"github.com/plumehq/backend/pkg/errorx"
	"github.com/plumehq/backend/pkg/xcontext"
	"github.com/plumehq/backend/pkg/xredis"
	"gorm.io/gorm"
)

type GrowthDomain interface {
	GetSummary(context.Context, *model.GetSummaryRequest) (*model.GetSummaryResponse, error)
	GetAchievements(context.Context, *model.GetAchievementsRequest) (*model.GetAchievementsResponse, error)
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	BackfillAchievements(context.Context, *model.BackfillAchievementsRequest) (*model.BackfillAchievementsResponse, error)
}

type growthDomain struct {
	growthRepo  repository.UserGrowthRepository
	xpRepo      repository.XPEntryRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	engine      *gamify.Engine
	redisClient xredis.Client
}

func NewGrowthDomain(
	growthRepo repository.UserGrowthRepository,
	xpRepo repository.XPEntryRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	engine *gamify.Engine,
	redisClient xredis.Client,
) GrowthDomain {
	return &growthDomain{
		growthRepo:  growthRepo,
		xpRepo:      xpRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		engine:      engine,
		redisClient: redisClient,
	}
}

func (d *growthDomain) GetSummary(
	ctx context.Context, _ *model.GetSummaryRequest,
) (*model.GetSummaryResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	cfg := xcontext.Configs(ctx).Growth

	growth, err := d.growthRepo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user growth: %v", err)
			return nil, errorx.Unknown
		}

		// No activity yet reads as a fresh level-1 account.
		growth = &entity.UserGrowth{UserID: userID, Level: 1}
	}

	progress := gamify.ComputeLevel(growth.TotalXP, cfg.LevelStepXP)

	now := d.engine.Now(ctx)
	todayXP, err := d.xpRepo.SumByUserDay(ctx, userID, dateutil.DayValue(now))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum today xp: %v", err)
		return nil, errorx.Unknown
	}

	weekAgo := dateutil.BeginningOfDay(now).AddDate(0, 0, -6)
	recentPosts, err := d.postRepo.CountByAuthorSince(ctx, userID, weekAgo)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count recent posts: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetSummaryResponse{
		TotalXP:        growth.TotalXP,
		Level:          progress.Level,
		XPIntoLevel:    progress.XPIntoLevel,
		NextLevelXP:    progress.NextLevelXP,
		Title:          titleForLevel(cfg.TitleBands, progress.Level),
		CurrentStreak:  growth.CurrentStreak,
		LongestStreak:  growth.LongestStreak,
		TodayXP:        todayXP,
		PostsLast7Days: recentPosts,
	}, nil
}

func (d *growthDomain) GetAchievements(
	ctx context.Context, _ *model.GetAchievementsRequest,
) (*model.GetAchievementsResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	templates, states, err := d.engine.SyncAchievements(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sync achievements: %v", err)
		return nil, errorx.Unknown
	}

	achievements := make([]model.Achievement, 0, len(templates))
	for i := range templates {
		display := achievementDisplay{}
		if templates[i].DisplayMetadata != nil {
			if err := mapstructure.Decode(map[string]any(templates[i].DisplayMetadata), &display); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot decode display metadata: %v", err)
			}
		}

		if display.Hidden && !states[i].CompletedAt.Valid {
			continue
		}

		achievements = append(achievements, model.Achievement{
			ID:          templates[i].ID,
			Code:        templates[i].Code.String,
			Name:        templates[i].Name,
			Description: templates[i].Description,
			Target:      templates[i].Target,
			RewardXP:    templates[i].RewardXP,
			Progress:    states[i].Progress,
			Completed:   states[i].CompletedAt.Valid,
			Claimed:     states[i].RewardClaimedAt.Valid,
			StateID:     states[i].ID,
			Display:     templates[i].DisplayMetadata,
		})
	}

	return &model.GetAchievementsResponse{Achievements: achievements}, nil
}

func (d *growthDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	cfg := xcontext.Configs(ctx).ApiServer
	limit := req.Limit
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}

	if limit > cfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum limit of %d", cfg.MaxLimit)
	}

	entries, err := d.leaderboardFromRedis(ctx, limit)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot read leaderboard from redis: %v", err)
		entries, err = d.leaderboardFromDB(ctx, limit)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot read leaderboard from db: %v", err)
			return nil, errorx.Unknown
		}
	}

	userIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		userIDs = append(userIDs, e.UserID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard users: %v", err)
		return nil, errorx.Unknown
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	for i := range entries {
		entries[i].UserName = names[entries[i].UserID]
	}

	return &model.GetLeaderboardResponse{Entries: entries}, nil
}

func (d *growthDomain) BackfillAchievements(
	ctx context.Context, _ *model.BackfillAchievementsRequest,
) (*model.BackfillAchievementsResponse, error) {
	synced, err := d.engine.BackfillAchievements(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot backfill achievements: %v", err)
		return nil, errorx.Unknown
	}

	return &model.BackfillAchievementsResponse{SyncedUsers: synced}, nil
}

func (d *growthDomain) leaderboardFromRedis(
	ctx context.Context, limit int,
) ([]model.LeaderboardEntry, error) {
	if d.redisClient == nil {
		return nil, errors.New("no redis client")
	}

	zs, err := d.redisClient.ZRevRangeWithScores(ctx, gamify.XPLeaderboardKey, 0, limit)
	if err != nil {
		return nil, err
	}

	if len(zs) == 0 {
		return nil, errors.New("empty leaderboard set")
	}

	entries := make([]model.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		userID, ok := z.Member.(string)
		if !ok {
			userID = strconv.FormatInt(int64(i), 10)
		}

		entries = append(entries, model.LeaderboardEntry{
			UserID:  userID,
			TotalXP: int64(z.Score),
			Rank:    int64(i) + 1,
		})
	}

	return entries, nil
}

func (d *growthDomain) leaderboardFromDB(
	ctx context.Context, limit int,
) ([]model.LeaderboardEntry, error) {
	rows, err := d.growthRepo.GetTopByXP(ctx, 0, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, model.LeaderboardEntry{
			UserID:  row.UserID,
			TotalXP: row.TotalXP,
			Rank:    int64(i) + 1,
		})
	}

	return entries, nil
}

// achievementDisplay is the known shape of a template's display
// metadata. Unknown keys pass through untouched in the raw map.
type achievementDisplay struct {
	Icon   string `mapstructure:"icon"`
	Color  string `mapstructure:"color"`
	Hidden bool   `mapstructure:"hidden"`
}

func titleForLevel(bands []config.TitleBand, level int) string {
	title := ""
	for _, band := range bands {
		if level >= band.MinLevel {
			title = band.Title
		}
	}

	return title
}
