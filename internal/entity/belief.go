package entity

import "time"

// Belief is one user's vote that a proof is genuine. The composite
// primary key enforces at most one vote per user per proof.
type Belief struct {
	CreatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	ProofID string     `gorm:"primaryKey"`
	Proof   QuestProof `gorm:"foreignKey:ProofID"`
}
