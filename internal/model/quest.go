package model

type QuestState struct {
	StateID     string `json:"state_id"`
	TemplateID  string `json:"template_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Target      int64  `json:"target"`
	RewardXP    int64  `json:"reward_xp"`
	Progress    int64  `json:"progress"`
	Completed   bool   `json:"completed"`
	Claimed     bool   `json:"claimed"`
}

type CampaignQuests struct {
	CampaignID  string       `json:"campaign_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Type        string       `json:"type"`
	ResetKey    string       `json:"reset_key"`
	EndsAt      string       `json:"ends_at,omitempty"`
	Quests      []QuestState `json:"quests"`
}

type GetActiveQuestsRequest struct{}

type GetActiveQuestsResponse struct {
	Campaigns []CampaignQuests `json:"campaigns"`
}

type ClaimRewardRequest struct {
	QuestStateID string `json:"quest_state_id"`
}

type ClaimRewardResponse struct {
	GrantedXP int64 `json:"granted_xp"`
	TotalXP   int64 `json:"total_xp"`
}

type CreateQuestTemplateRequest struct {
	Code            string         `json:"code"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	ConditionType   string         `json:"condition_type"`
	CategoryID      string         `json:"category_id"`
	Target          int64          `json:"target"`
	RewardXP        int64          `json:"reward_xp"`
	Kind            string         `json:"kind"`
	DisplayMetadata map[string]any `json:"display_metadata"`
}

type CreateQuestTemplateResponse struct {
	ID string `json:"id"`
}

type CreateCampaignRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	StartsAt    string   `json:"starts_at"`
	EndsAt      string   `json:"ends_at"`
	Priority    int      `json:"priority"`
	TemplateIDs []string `json:"template_ids"`
}

type CreateCampaignResponse struct {
	ID string `json:"id"`
}
