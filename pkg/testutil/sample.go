package testutil

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/internal/repository"
)

// SampleUser creates a user with randomized fields. Non-zero fields of
// init overwrite the sample before it is saved.
func SampleUser(ctx context.Context, init *entity.User) entity.User {
	sample := &entity.User{
		Base: entity.Base{ID: uuid.NewString()},
		Name: uuid.NewString(),
		Role: entity.RoleUser,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewUserRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

func SampleCategory(ctx context.Context, init *entity.Category) entity.Category {
	sample := &entity.Category{
		Base: entity.Base{ID: uuid.NewString()},
		Name: uuid.NewString(),
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewCategoryRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

func SamplePost(ctx context.Context, init *entity.Post) entity.Post {
	sample := &entity.Post{
		Base:     entity.Base{ID: uuid.NewString()},
		AuthorID: uuid.NewString(),
		Title:    uuid.NewString(),
		Content:  "The quick brown fox jumps over the lazy dog.",
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewPostRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

func SampleQuestTemplate(ctx context.Context, init *entity.QuestTemplate) entity.QuestTemplate {
	sample := &entity.QuestTemplate{
		Base:          entity.Base{ID: uuid.NewString()},
		Name:          uuid.NewString(),
		ConditionType: entity.ConditionTotalPostCount,
		Target:        1,
		RewardXP:      10,
		Kind:          entity.KindQuest,
		IsActive:      true,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewQuestTemplateRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	return *sample
}

// SampleCampaign creates a campaign holding the given templates in
// order.
func SampleCampaign(ctx context.Context, init *entity.Campaign, templates ...entity.QuestTemplate) entity.Campaign {
	sample := &entity.Campaign{
		Base:     entity.Base{ID: uuid.NewString()},
		Name:     uuid.NewString(),
		Type:     entity.CampaignDaily,
		IsActive: true,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	campaignRepo := repository.NewCampaignRepository()
	if err := campaignRepo.Create(ctx, sample); err != nil {
		panic(err)
	}

	for i := range templates {
		err := campaignRepo.CreateItem(ctx, &entity.CampaignItem{
			CampaignID: sample.ID,
			TemplateID: templates[i].ID,
			SortOrder:  i,
		})
		if err != nil {
			panic(err)
		}
	}

	return *sample
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
