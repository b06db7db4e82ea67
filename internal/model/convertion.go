package model

import (
	"time"

	"github.com/questbelief/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertQuest(quest *entity.Quest) Quest {
	if quest == nil {
		return Quest{}
	}

	return Quest{
		ID:             quest.ID,
		Title:          quest.Title,
		Description:    quest.Description,
		Complexity:     string(quest.Complexity),
		XPReward:       quest.XPReward,
		ValidationType: string(quest.ValidationType),
		TargetValue:    quest.TargetValue,
	}
}

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Level:     user.Level,
		XP:        user.XP,
	}
}

func ConvertUserQuestStatus(status *entity.UserQuestStatus) UserQuestStatus {
	if status == nil {
		return UserQuestStatus{}
	}

	return UserQuestStatus{
		UserID:       status.UserID,
		QuestID:      status.QuestID,
		AssignedDate: status.AssignedDate,
		IsCompleted:  status.IsCompleted,
		CurrentValue: status.CurrentValue,
		Status:       string(status.Status),
		UpdatedAt:    status.UpdatedAt.Format(DefaultTimeLayout),
	}
}

// ConvertQuestProof flattens a proof with its author and quest.
// Resolved URLs and the viewer flag are filled by the caller since
// they need the storage collaborator and the viewer identity.
func ConvertQuestProof(
	proof *entity.QuestProof, author *entity.User, quest *entity.Quest,
) QuestProof {
	if proof == nil {
		return QuestProof{}
	}

	result := QuestProof{
		ID:          proof.ID,
		QuestID:     proof.QuestID,
		UserID:      proof.UserID,
		Text:        proof.Text,
		Status:      string(proof.Status),
		BeliefCount: proof.BeliefCount,
		CreatedAt:   proof.CreatedAt.Format(DefaultTimeLayout),
	}

	if author != nil {
		result.UserName = author.Name
		result.AvatarURL = author.AvatarURL
	}

	if quest != nil {
		result.QuestTitle = quest.Title
		result.XPReward = quest.XPReward
	}

	return result
}
