package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/plumehq/backend/internal/domain/gamify"
	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/internal/model"
	"github.com/plumehq/backend/internal/repository"
	"github.com/plumehq/backend/pkg/enum"
	"github.com/plumehq/backend/pkg/errorx"
	"github.com/plumehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type QuestDomain interface {
	GetActiveQuests(context.Context, *model.GetActiveQuestsRequest) (*model.GetActiveQuestsResponse, error)
	ClaimReward(context.Context, *model.ClaimRewardRequest) (*model.ClaimRewardResponse, error)
	CreateTemplate(context.Context, *model.CreateQuestTemplateRequest) (*model.CreateQuestTemplateResponse, error)
	CreateCampaign(context.Context, *model.CreateCampaignRequest) (*model.CreateCampaignResponse, error)
}

type questDomain struct {
	campaignRepo repository.CampaignRepository
	templateRepo repository.QuestTemplateRepository
	engine       *gamify.Engine
}

func NewQuestDomain(
	campaignRepo repository.CampaignRepository,
	templateRepo repository.QuestTemplateRepository,
	engine *gamify.Engine,
) QuestDomain {
	return &questDomain{
		campaignRepo: campaignRepo,
		templateRepo: templateRepo,
		engine:       engine,
	}
}

func (d *questDomain) GetActiveQuests(
	ctx context.Context, _ *model.GetActiveQuestsRequest,
) (*model.GetActiveQuestsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	now := d.engine.Now(ctx)

	campaigns, err := d.campaignRepo.GetActive(ctx, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active campaigns: %v", err)
		return nil, errorx.Unknown
	}

	snapshot, err := d.engine.Snapshot(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot take metrics snapshot: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetActiveQuestsResponse{Campaigns: []model.CampaignQuests{}}
	for i := range campaigns {
		states, err := d.engine.SyncCampaign(ctx, userID, &campaigns[i], snapshot)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot sync campaign states: %v", err)
			return nil, errorx.Unknown
		}

		quests := make([]model.QuestState, 0, len(states))
		for j := range states {
			template := campaigns[i].Items[j].Template
			quests = append(quests, model.QuestState{
				StateID:     states[j].ID,
				TemplateID:  template.ID,
				Name:        template.Name,
				Description: template.Description,
				Target:      template.Target,
				RewardXP:    template.RewardXP,
				Progress:    states[j].Progress,
				Completed:   states[j].CompletedAt.Valid,
				Claimed:     states[j].RewardClaimedAt.Valid,
			})
		}

		campaign := model.CampaignQuests{
			CampaignID:  campaigns[i].ID,
			Name:        campaigns[i].Name,
			Description: campaigns[i].Description,
			Type:        string(campaigns[i].Type),
			ResetKey:    gamify.ResetKey(campaigns[i].Type, now),
			Quests:      quests,
		}
		if campaigns[i].EndsAt.Valid {
			campaign.EndsAt = campaigns[i].EndsAt.Time.Format(time.RFC3339)
		}

		resp.Campaigns = append(resp.Campaigns, campaign)
	}

	return resp, nil
}

func (d *questDomain) ClaimReward(
	ctx context.Context, req *model.ClaimRewardRequest,
) (*model.ClaimRewardResponse, error) {
	if req.QuestStateID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty quest state id")
	}

	result, err := d.engine.Claim(ctx, xcontext.RequestUserID(ctx), req.QuestStateID)
	if err != nil {
		return nil, err
	}

	return &model.ClaimRewardResponse{
		GrantedXP: result.GrantedXP,
		TotalXP:   result.TotalXP,
	}, nil
}

func (d *questDomain) CreateTemplate(
	ctx context.Context, req *model.CreateQuestTemplateRequest,
) (*model.CreateQuestTemplateResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	if req.Target <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Target must be positive")
	}

	conditionType, err := enum.ToEnum[entity.ConditionType](req.ConditionType)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid condition type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid condition type %s", req.ConditionType)
	}

	kind, err := enum.ToEnum[entity.TemplateKind](req.Kind)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid template kind: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid kind %s", req.Kind)
	}

	template := &entity.QuestTemplate{
		Base:            entity.Base{ID: uuid.NewString()},
		Name:            req.Name,
		Description:     req.Description,
		ConditionType:   conditionType,
		Target:          req.Target,
		RewardXP:        req.RewardXP,
		Kind:            kind,
		IsActive:        true,
		DisplayMetadata: entity.Map(req.DisplayMetadata),
	}

	if req.Code != "" {
		_, err := d.templateRepo.GetActiveByCode(ctx, req.Code)
		if err == nil {
			return nil, errorx.New(errorx.AlreadyExists, "This code was already used")
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot check template code: %v", err)
			return nil, errorx.Unknown
		}

		template.Code = sql.NullString{String: req.Code, Valid: true}
	}

	if req.CategoryID != "" {
		if conditionType != entity.ConditionPostCountInCategory {
			return nil, errorx.New(errorx.BadRequest,
				"Category is only valid for the %s condition", entity.ConditionPostCountInCategory)
		}

		template.CategoryID = sql.NullString{String: req.CategoryID, Valid: true}
	}

	if err := d.templateRepo.Create(ctx, template); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create quest template: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateQuestTemplateResponse{ID: template.ID}, nil
}

func (d *questDomain) CreateCampaign(
	ctx context.Context, req *model.CreateCampaignRequest,
) (*model.CreateCampaignResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	if len(req.TemplateIDs) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a campaign without quests")
	}

	campaignType, err := enum.ToEnum[entity.CampaignType](req.Type)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid campaign type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid campaign type %s", req.Type)
	}

	campaign := &entity.Campaign{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        req.Name,
		Description: req.Description,
		Type:        campaignType,
		IsActive:    true,
		Priority:    req.Priority,
	}

	if req.StartsAt != "" {
		startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid starts_at time")
		}

		campaign.StartsAt = sql.NullTime{Time: startsAt, Valid: true}
	}

	if req.EndsAt != "" {
		endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid ends_at time")
		}

		campaign.EndsAt = sql.NullTime{Time: endsAt, Valid: true}
	}

	for _, templateID := range req.TemplateIDs {
		if _, err := d.templateRepo.GetByID(ctx, templateID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found template %s", templateID)
			}

			xcontext.Logger(ctx).Errorf("Cannot get quest template: %v", err)
			return nil, errorx.Unknown
		}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.campaignRepo.Create(ctx, campaign); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create campaign: %v", err)
		return nil, errorx.Unknown
	}

	for order, templateID := range req.TemplateIDs {
		item := &entity.CampaignItem{
			CampaignID: campaign.ID,
			TemplateID: templateID,
			SortOrder:  order,
		}
		if err := d.campaignRepo.CreateItem(ctx, item); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create campaign item: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CreateCampaignResponse{ID: campaign.ID}, nil
}
