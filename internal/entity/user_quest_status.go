package entity

import (
	"time"

	"github.com/questbelief/backend/pkg/enum"
)

type UserQuestStatusType string

var (
	StatusNotStarted = enum.New(UserQuestStatusType("not_started"))
	StatusInProgress = enum.New(UserQuestStatusType("in_progress"))
	StatusInPending  = enum.New(UserQuestStatusType("in_pending"))
	StatusCompleted  = enum.New(UserQuestStatusType("completed"))
	StatusFailed     = enum.New(UserQuestStatusType("failed"))
)

var userQuestStatusTransitions = map[UserQuestStatusType][]UserQuestStatusType{
	StatusNotStarted: {StatusInProgress, StatusInPending, StatusCompleted, StatusFailed},
	StatusInProgress: {StatusInPending, StatusCompleted, StatusFailed},
	StatusInPending:  {StatusCompleted, StatusFailed},
}

// CanTransitionTo reports whether the transition table allows moving
// from s to next. Completed and Failed are terminal; in particular no
// write may ever leave Completed.
func (s UserQuestStatusType) CanTransitionTo(next UserQuestStatusType) bool {
	for _, allowed := range userQuestStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// UserQuestStatus is the per-(user, quest, day) projection shown to
// clients. The composite primary key guarantees a day's assignment is
// created at most once.
type UserQuestStatus struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	QuestID string `gorm:"primaryKey"`
	Quest   Quest  `gorm:"foreignKey:QuestID"`

	// Day bucket in dateutil.DayFormat (YYYY-MM-DD).
	AssignedDate string `gorm:"primaryKey;size:10"`

	IsCompleted  bool
	CurrentValue uint64
	Status       UserQuestStatusType

	CreatedAt time.Time
	UpdatedAt time.Time
}
