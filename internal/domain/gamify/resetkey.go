package gamify

import (
	"time"

	"github.com/plumehq/backend/internal/entity"
	"github.com/plumehq/backend/pkg/dateutil"
)

const (
	// PermanentResetKey scopes state that accumulates forever.
	PermanentResetKey = "permanent"

	// EventResetKey scopes event campaigns; distinct from permanent so
	// event state never bleeds into always-on trackers.
	EventResetKey = "event"

	// AchievementCampaignID is the campaign id achievements are
	// tracked under; they belong to no campaign.
	AchievementCampaignID = ""
)

// ResetKey derives the time-window identifier scoping quest progress
// for a campaign type. The caller must pass now already converted to
// the platform's reference timezone.
func ResetKey(campaignType entity.CampaignType, now time.Time) string {
	switch campaignType {
	case entity.CampaignDaily:
		return dateutil.DayValue(now)
	case entity.CampaignWeekly:
		return dateutil.WeekValue(now)
	case entity.CampaignSeason:
		return dateutil.MonthValue(now)
	case entity.CampaignPermanent:
		return PermanentResetKey
	default:
		return EventResetKey
	}
}
