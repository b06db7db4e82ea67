package model

type InitProofSubmissionRequest struct {
	QuestID    string `json:"quest_id"`
	Text       string `json:"text"`
	PhotoCount int    `json:"photo_count"`
	VoiceCount int    `json:"voice_count"`
}

type InitProofSubmissionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	// Presigned PUT URLs, one per requested file. Never persisted.
	PhotoUploadURLs []string `json:"photo_upload_urls,omitempty"`
	VoiceUploadURLs []string `json:"voice_upload_urls,omitempty"`
}

type ConfirmProofSubmissionRequest struct {
	ID string `json:"id"`
}

type ConfirmProofSubmissionResponse struct{}

type ReviewProofRequest struct {
	ID     string `json:"id"`
	Action string `json:"action"` // approved or rejected
}

type ReviewProofResponse struct{}

type ToggleBeliefRequest struct {
	ProofID string `json:"proof_id"`
}

type ToggleBeliefResponse struct {
	Believed bool `json:"believed"`
}

type QuestProof struct {
	ID          string `json:"id"`
	QuestID     string `json:"quest_id"`
	QuestTitle  string `json:"quest_title"`
	XPReward    uint64 `json:"xp_reward"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Text        string `json:"text,omitempty"`
	Status      string `json:"status"`
	BeliefCount int    `json:"belief_count"`
	IsBelieved  bool   `json:"is_believed"`
	CreatedAt   string `json:"created_at"`

	// Presigned GET URLs resolved at read time.
	PhotoURLs []string `json:"photo_urls,omitempty"`
	VoiceURLs []string `json:"voice_urls,omitempty"`
}

type GetProofRequest struct {
	ID string `json:"id"`
}

type GetProofResponse QuestProof

type GetProofFeedRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetProofFeedResponse struct {
	Proofs     []QuestProof `json:"proofs"`
	HasMore    bool         `json:"has_more"`
	NextOffset int          `json:"next_offset"`
}

type GetProofHistoryRequest struct{}

type GetProofHistoryResponse struct {
	Proofs []QuestProof `json:"proofs"`
}
