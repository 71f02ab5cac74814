package gamify

import (
	"testing"
	"time"

	"github.com/plumehq/backend/internal/entity"
	"github.com/stretchr/testify/require"
)

func Test_ResetKey(t *testing.T) {
	now := time.Date(2023, time.May, 29, 13, 45, 0, 0, time.UTC)

	require.Equal(t, "2023-05-29", ResetKey(entity.CampaignDaily, now))
	require.Equal(t, "week/22/2023", ResetKey(entity.CampaignWeekly, now))
	require.Equal(t, "month/5/2023", ResetKey(entity.CampaignSeason, now))
	require.Equal(t, "permanent", ResetKey(entity.CampaignPermanent, now))
	require.Equal(t, "event", ResetKey(entity.CampaignEvent, now))
}

func Test_ResetKey_DailyRollsOverAtMidnight(t *testing.T) {
	before := time.Date(2023, time.May, 29, 23, 59, 59, 0, time.UTC)
	after := before.Add(time.Second)

	require.NotEqual(t,
		ResetKey(entity.CampaignDaily, before),
		ResetKey(entity.CampaignDaily, after),
	)
}

func Test_ResetKey_WeeklyUsesISOWeekYear(t *testing.T) {
	// 2021-01-01 still belongs to ISO week 53 of 2020.
	now := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "week/53/2020", ResetKey(entity.CampaignWeekly, now))
}
