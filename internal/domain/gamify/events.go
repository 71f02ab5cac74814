package gamify

import (
	"context"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/pkg/xcontext"
)

// PostGrowthResult summarizes the growth effects of one created post.
type PostGrowthResult struct {
	GrantedXP     int64
	CurrentStreak int
}

// OnPostCreated applies every growth effect of a newly created post:
// authoring XP, the first-post-of-the-day bonus, the daily streak, and
// the post-count and streak achievements.
func (e *Engine) OnPostCreated(ctx context.Context, post *entity.Post) (*PostGrowthResult, error) {
	cfg := xcontext.Configs(ctx).Growth
	metadata := entity.Map{"post_id": post.ID}

	granted, err := e.GrantXP(
		ctx, post.AuthorID, int64(cfg.PostXP), entity.XPReasonPostCreate, metadata, 0)
	if err != nil {
		return nil, err
	}

	streak, err := e.RecordPost(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	if streak.IsFirstPostToday {
		bonus, err := e.GrantXP(
			ctx, post.AuthorID, int64(cfg.FirstPostBonusXP),
			entity.XPReasonFirstPostBonus, metadata, 0)
		if err != nil {
			return nil, err
		}

		granted += bonus
	}

	totalPosts, err := e.postRepo.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	if err := e.AdvanceAchievement(ctx, post.AuthorID, CodePostCountTotal, totalPosts); err != nil {
		return nil, err
	}

	err = e.AdvanceAchievement(
		ctx, post.AuthorID, CodeStreakLength, int64(streak.LongestStreak))
	if err != nil {
		return nil, err
	}

	return &PostGrowthResult{
		GrantedXP:     granted,
		CurrentStreak: streak.CurrentStreak,
	}, nil
}

// OnLikeAdded applies the growth effects of a like: capped XP for the
// liker and the author, and the author's like-based achievements.
// Self-likes grant the giver side only once; the author side is
// skipped.
func (e *Engine) OnLikeAdded(ctx context.Context, likerID string, post *entity.Post) error {
	cfg := xcontext.Configs(ctx).Growth
	metadata := entity.Map{"post_id": post.ID}

	if _, err := e.GrantXP(
		ctx, likerID, int64(cfg.LikeGivenXP), entity.XPReasonLikeGiven,
		metadata, int64(cfg.LikeGivenDailyCap),
	); err != nil {
		return err
	}

	if post.AuthorID == likerID {
		return nil
	}

	if _, err := e.GrantXP(
		ctx, post.AuthorID, int64(cfg.LikeReceivedXP), entity.XPReasonLikeReceived,
		metadata, int64(cfg.LikeReceivedDailyCap),
	); err != nil {
		return err
	}

	likesReceived, err := e.likeRepo.CountReceivedByAuthor(ctx, post.AuthorID)
	if err != nil {
		return err
	}

	if err := e.AdvanceAchievement(ctx, post.AuthorID, CodeLikesReceived, likesReceived); err != nil {
		return err
	}

	mostLiked, err := e.likeRepo.MaxCountOnSinglePost(ctx, post.AuthorID)
	if err != nil {
		return err
	}

	return e.AdvanceAchievement(ctx, post.AuthorID, CodeMostLikedPost, mostLiked)
}

// OnBookmarkAdded applies the growth effects of a bookmark: capped XP
// for the author and the first-bookmark achievement. Bookmarking your
// own post grants nothing.
func (e *Engine) OnBookmarkAdded(ctx context.Context, bookmarkerID string, post *entity.Post) error {
	if post.AuthorID == bookmarkerID {
		return nil
	}

	cfg := xcontext.Configs(ctx).Growth
	if _, err := e.GrantXP(
		ctx, post.AuthorID, int64(cfg.BookmarkReceivedXP), entity.XPReasonBookmarkReceived,
		entity.Map{"post_id": post.ID}, int64(cfg.BookmarkReceivedDailyCap),
	); err != nil {
		return err
	}

	received, err := e.bookmarkRepo.CountReceivedByAuthor(ctx, post.AuthorID)
	if err != nil {
		return err
	}

	return e.AdvanceAchievement(ctx, post.AuthorID, CodeFirstBookmark, received)
}

// SyncAchievements refreshes one user's achievement states from their
// current counters and returns the templates with their states in
// matching order.
func (e *Engine) SyncAchievements(
	ctx context.Context, userID string,
) ([]entity.QuestTemplate, []entity.UserQuestState, error) {
	templates, err := e.templateRepo.GetActiveByKind(ctx, entity.KindAchievement)
	if err != nil {
		return nil, nil, err
	}

	snapshot, err := e.Snapshot(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	states := make([]entity.UserQuestState, 0, len(templates))
	for i := range templates {
		progress := EvaluateCondition(&templates[i], snapshot)
		state, err := e.syncState(
			ctx, userID, AchievementCampaignID, &templates[i], PermanentResetKey, progress)
		if err != nil {
			return nil, nil, err
		}

		states = append(states, *state)
	}

	return templates, states, nil
}

// BackfillAchievements recomputes achievement progress for every user
// from their historical counters. Intended for rollouts that add new
// achievement templates over existing activity.
func (e *Engine) BackfillAchievements(ctx context.Context) (int, error) {
	templates, err := e.templateRepo.GetActiveByKind(ctx, entity.KindAchievement)
	if err != nil {
		return 0, err
	}

	synced := 0
	const pageSize = 200
	for offset := 0; ; offset += pageSize {
		users, err := e.userRepo.GetList(ctx, offset, pageSize)
		if err != nil {
			return synced, err
		}

		if len(users) == 0 {
			return synced, nil
		}

		for _, user := range users {
			snapshot, err := e.Snapshot(ctx, user.ID)
			if err != nil {
				return synced, err
			}

			for i := range templates {
				progress := EvaluateCondition(&templates[i], snapshot)
				if _, err := e.syncState(
					ctx, user.ID, AchievementCampaignID, &templates[i],
					PermanentResetKey, progress,
				); err != nil {
					return synced, err
				}
			}

			synced++
		}
	}
}
