package migration

import (
	"context"
	_ "embed"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/internal/repository"
	"github.com/questbelief/backend/pkg/enum"
	"github.com/questbelief/backend/pkg/xcontext"
)

//go:embed quests.json
var questsJSON []byte

type seedQuest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Complexity     string `json:"complexity"`
	XPReward       uint64 `json:"xp_reward"`
	ValidationType string `json:"validation_type"`
	TargetValue    uint64 `json:"target_value"`
}

// SeedQuests loads the embedded catalog into the quests table. Titles
// that already exist are skipped, so reseeding is safe.
func SeedQuests(ctx context.Context) error {
	var seeds []seedQuest
	if err := json.Unmarshal(questsJSON, &seeds); err != nil {
		return err
	}

	questRepo := repository.NewQuestRepository()
	for _, seed := range seeds {
		if _, err := questRepo.GetByTitle(ctx, seed.Title); err == nil {
			xcontext.Logger(ctx).Debugf("Skip existed quest %s", seed.Title)
			continue
		}

		complexity, err := enum.ToEnum[entity.QuestComplexity](seed.Complexity)
		if err != nil {
			return err
		}

		validationType, err := enum.ToEnum[entity.ValidationType](seed.ValidationType)
		if err != nil {
			return err
		}

		err = questRepo.Create(ctx, &entity.Quest{
			Base:           entity.Base{ID: uuid.NewString()},
			Title:          seed.Title,
			Description:    seed.Description,
			Complexity:     complexity,
			XPReward:       seed.XPReward,
			ValidationType: validationType,
			TargetValue:    seed.TargetValue,
		})
		if err != nil {
			return err
		}

		xcontext.Logger(ctx).Infof("Seeded quest %s", seed.Title)
	}

	return nil
}
