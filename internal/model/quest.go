package model

type Quest struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Complexity     string `json:"complexity"`
	XPReward       uint64 `json:"xp_reward"`
	ValidationType string `json:"validation_type"`
	TargetValue    uint64 `json:"target_value"`
}

type CreateQuestRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Complexity     string `json:"complexity"`
	XPReward       uint64 `json:"xp_reward"`
	ValidationType string `json:"validation_type"`
	TargetValue    uint64 `json:"target_value"`
}

type CreateQuestResponse struct {
	ID string `json:"id"`
}

type GetQuestRequest struct {
	ID string `json:"id"`
}

type GetQuestResponse Quest

type GetQuestsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetQuestsResponse struct {
	Quests []Quest `json:"quests"`
}

type GetDailyQuestsRequest struct {
	// Optional day bucket (YYYY-MM-DD); today when empty.
	Date string `json:"date"`
}

type GetDailyQuestsResponse struct {
	Quests []DailyQuest `json:"quests"`
}

// DailyQuest pairs a catalog quest with the caller's status row for
// the requested day.
type DailyQuest struct {
	Quest  Quest           `json:"quest"`
	Status UserQuestStatus `json:"status"`
}
