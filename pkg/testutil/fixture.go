package testutil

import (
	"context"

	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/internal/repository"
)

// Fixture entities shared by the domain and repository tests. Tests
// reference them by variable, never by raw id.
var (
	User1 = entity.User{
		Base:  entity.Base{ID: "user1"},
		Name:  "user1",
		Role:  entity.RoleUser,
		Level: 1,
	}

	User2 = entity.User{
		Base:  entity.Base{ID: "user2"},
		Name:  "user2",
		Role:  entity.RoleUser,
		Level: 1,
	}

	// A seasoned author whose consensus threshold is higher.
	User3 = entity.User{
		Base:  entity.Base{ID: "user3"},
		Name:  "user3",
		Role:  entity.RoleUser,
		XP:    400,
		Level: 5,
	}

	Admin = entity.User{
		Base:  entity.Base{ID: "admin"},
		Name:  "admin",
		Role:  entity.RoleAdmin,
		Level: 1,
	}

	QuestEasy1 = entity.Quest{
		Base:           entity.Base{ID: "quest_easy_1"},
		Title:          "Morning walk",
		Complexity:     entity.QuestEasy,
		XPReward:       10,
		ValidationType: entity.ValidationCommunity,
		TargetValue:    1,
	}

	QuestEasy2 = entity.Quest{
		Base:           entity.Base{ID: "quest_easy_2"},
		Title:          "Drink water",
		Complexity:     entity.QuestEasy,
		XPReward:       10,
		ValidationType: entity.ValidationAutomatic,
		TargetValue:    8,
	}

	QuestMedium1 = entity.Quest{
		Base:           entity.Base{ID: "quest_medium_1"},
		Title:          "Read a chapter",
		Complexity:     entity.QuestMedium,
		XPReward:       25,
		ValidationType: entity.ValidationCommunity,
		TargetValue:    1,
	}

	QuestMedium2 = entity.Quest{
		Base:           entity.Base{ID: "quest_medium_2"},
		Title:          "Cook a new recipe",
		Complexity:     entity.QuestMedium,
		XPReward:       25,
		ValidationType: entity.ValidationModeration,
		TargetValue:    1,
	}

	QuestHard1 = entity.Quest{
		Base:           entity.Base{ID: "quest_hard_1"},
		Title:          "Run ten kilometers",
		Complexity:     entity.QuestHard,
		XPReward:       100,
		ValidationType: entity.ValidationCommunity,
		TargetValue:    1,
	}
)

func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertQuests(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	for _, user := range []entity.User{User1, User2, User3, Admin} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func InsertQuests(ctx context.Context) {
	questRepo := repository.NewQuestRepository()

	quests := []entity.Quest{QuestEasy1, QuestEasy2, QuestMedium1, QuestMedium2, QuestHard1}
	for _, quest := range quests {
		quest := quest
		if err := questRepo.Create(ctx, &quest); err != nil {
			panic(err)
		}
	}
}
