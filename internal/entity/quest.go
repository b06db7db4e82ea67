package entity

import "github.com/questbelief/backend/pkg/enum"

type QuestComplexity string

var (
	QuestEasy   = enum.New(QuestComplexity("easy"))
	QuestMedium = enum.New(QuestComplexity("medium"))
	QuestHard   = enum.New(QuestComplexity("hard"))
)

type ValidationType string

var (
	ValidationAutomatic  = enum.New(ValidationType("automatic"))
	ValidationCommunity  = enum.New(ValidationType("community"))
	ValidationModeration = enum.New(ValidationType("moderation"))
)

// Quest is a catalog entry. Rows are written at seed time (or by an
// admin) and never mutated afterwards.
type Quest struct {
	Base

	Title          string `gorm:"unique"`
	Description    string `gorm:"type:text"`
	Complexity     QuestComplexity
	XPReward       uint64
	ValidationType ValidationType
	TargetValue    uint64
}
