package entity

import (
	"github.com/plumehq/backend/pkg/enum"
)

type XPReason string

var (
	XPReasonPostCreate       = enum.New(XPReason("post_create"))
	XPReasonFirstPostBonus   = enum.New(XPReason("first_post_bonus"))
	XPReasonLikeGiven        = enum.New(XPReason("like_given"))
	XPReasonLikeReceived     = enum.New(XPReason("like_received"))
	XPReasonBookmarkReceived = enum.New(XPReason("bookmark_received"))
	XPReasonQuestReward      = enum.New(XPReason("quest_reward"))
)

// UserGrowth is the denormalized per-user growth record. Level is never
// maintained incrementally, it is recomputed from TotalXP on every
// change. The XP ledger remains the audit source of truth for TotalXP;
// streak fields have no ledger and this row is their source of truth.
type UserGrowth struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	TotalXP int64
	Level   int

	CurrentStreak int
	LongestStreak int

	// LastPostDay is a day key ("2006-01-02") in the platform's
	// reference timezone; it only decides streak continuation.
	LastPostDay string
}

// XPEntry is one row of the append-only XP ledger. Rows are never
// updated or deleted.
type XPEntry struct {
	Base

	UserID string `gorm:"index:idx_xp_entries_user_reason_day"`
	User   User   `gorm:"foreignKey:UserID"`

	Amount int64
	Reason XPReason `gorm:"index:idx_xp_entries_user_reason_day"`

	// DayValue is the calendar-day key of CreatedAt in the platform's
	// reference timezone, stored so daily-cap sums stay cheap.
	DayValue string `gorm:"index:idx_xp_entries_user_reason_day"`

	Metadata Map
}
