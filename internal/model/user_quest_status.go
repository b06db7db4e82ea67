package model

type UserQuestStatus struct {
	UserID       string `json:"user_id"`
	QuestID      string `json:"quest_id"`
	AssignedDate string `json:"assigned_date"`
	IsCompleted  bool   `json:"is_completed"`
	CurrentValue uint64 `json:"current_value"`
	Status       string `json:"status"`
	UpdatedAt    string `json:"updated_at"`
}

type GetJournalRequest struct{}

type GetJournalResponse struct {
	Entries []JournalEntry `json:"entries"`
}

// JournalEntry joins a status row to its quest. Rows whose quest has
// been hard-deleted are filtered out of the journal entirely.
type JournalEntry struct {
	Status UserQuestStatus `json:"status"`
	Quest  Quest           `json:"quest"`
}

type CompleteQuestRequest struct {
	QuestID string `json:"quest_id"`
	// Optional day bucket (YYYY-MM-DD); today when empty.
	Date string `json:"date"`
}

type CompleteQuestResponse struct {
	Status UserQuestStatus `json:"status"`
}

type GetQuestStatusRequest struct {
	QuestID string `json:"quest_id"`
	Date    string `json:"date"`
}

type GetQuestStatusResponse UserQuestStatus
