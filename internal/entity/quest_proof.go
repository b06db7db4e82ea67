package entity

import "github.com/questbelief/backend/pkg/enum"

type ProofStatus string

var (
	ProofUploading = enum.New(ProofStatus("uploading"))
	ProofPending   = enum.New(ProofStatus("pending"))
	ProofApproved  = enum.New(ProofStatus("approved"))
	ProofRejected  = enum.New(ProofStatus("rejected"))
)

var proofTransitions = map[ProofStatus][]ProofStatus{
	ProofUploading: {ProofPending},
	ProofPending:   {ProofApproved, ProofRejected},
}

// CanTransitionTo reports whether the status machine allows moving from
// s to next. Approved and Rejected are terminal.
func (s ProofStatus) CanTransitionTo(next ProofStatus) bool {
	for _, allowed := range proofTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

type QuestProof struct {
	Base

	QuestID string `gorm:"index"`
	Quest   Quest  `gorm:"foreignKey:QuestID"`

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Text string `gorm:"type:text"`

	// Object keys only. URLs are minted from these on read.
	PhotoKeys Array[string]
	VoiceKeys Array[string]

	Status ProofStatus

	// Denormalized count of belief rows, maintained with atomic
	// column updates so concurrent toggles never lose a vote.
	BeliefCount int `gorm:"default:0"`
}
