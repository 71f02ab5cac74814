package entity

import (
	"database/sql"

	"github.com/plumehq/backend/pkg/enum"
)

type ConditionType string

var (
	ConditionTotalPostCount      = enum.New(ConditionType("total_post_count"))
	ConditionPostCountInCategory = enum.New(ConditionType("post_count_in_category"))
	ConditionLikesGiven          = enum.New(ConditionType("likes_given"))
	ConditionLikesReceived       = enum.New(ConditionType("likes_received"))
	ConditionBookmarksGiven      = enum.New(ConditionType("bookmarks_given"))
	ConditionBookmarksReceived   = enum.New(ConditionType("bookmarks_received"))
	ConditionStreakLength        = enum.New(ConditionType("streak_length"))
	ConditionMostLikedPost       = enum.New(ConditionType("most_liked_post"))
)

type TemplateKind string

var (
	KindAchievement = enum.New(TemplateKind("achievement"))
	KindQuest       = enum.New(TemplateKind("quest"))
)

type CampaignType string

var (
	CampaignPermanent = enum.New(CampaignType("permanent"))
	CampaignDaily     = enum.New(CampaignType("daily"))
	CampaignWeekly    = enum.New(CampaignType("weekly"))
	CampaignSeason    = enum.New(CampaignType("season"))
	CampaignEvent     = enum.New(CampaignType("event"))
)

// QuestTemplate is an administrator-defined rule shared across users.
// The core only reads templates.
type QuestTemplate struct {
	Base

	// Code is the stable machine identifier achievement callers use
	// instead of the row id.
	Code sql.NullString `gorm:"unique"`

	Name        string
	Description string

	ConditionType ConditionType
	CategoryID    sql.NullString
	Category      Category `gorm:"foreignKey:CategoryID"`

	Target   int64
	RewardXP int64

	Kind     TemplateKind
	IsActive bool

	DisplayMetadata Map
}

type Campaign struct {
	Base

	Name        string
	Description string

	Type CampaignType

	StartsAt sql.NullTime
	EndsAt   sql.NullTime

	IsActive bool
	Priority int

	Items []CampaignItem `gorm:"foreignKey:CampaignID"`
}

type CampaignItem struct {
	CampaignID string   `gorm:"primaryKey"`
	Campaign   Campaign `gorm:"foreignKey:CampaignID"`

	TemplateID string        `gorm:"primaryKey"`
	Template   QuestTemplate `gorm:"foreignKey:TemplateID"`

	SortOrder int
}

// UserQuestState is the mutable per-(user, campaign, template,
// reset-key) progress record. Progress never decreases, CompletedAt
// and RewardClaimedAt are each set exactly once. Achievements use an
// empty campaign id and the permanent reset key.
type UserQuestState struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_user_quest_states_identity"`
	User   User   `gorm:"foreignKey:UserID"`

	CampaignID string `gorm:"uniqueIndex:idx_user_quest_states_identity"`

	TemplateID string        `gorm:"uniqueIndex:idx_user_quest_states_identity"`
	Template   QuestTemplate `gorm:"foreignKey:TemplateID"`

	ResetKey string `gorm:"uniqueIndex:idx_user_quest_states_identity"`

	Progress int64

	CompletedAt     sql.NullTime
	RewardClaimedAt sql.NullTime
}
