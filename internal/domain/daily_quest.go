package domain

import (
	"context"
	"errors"

	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/internal/model"
	"github.com/questbelief/backend/internal/repository"
	"github.com/questbelief/backend/pkg/dateutil"
	"github.com/questbelief/backend/pkg/errorx"
	"github.com/questbelief/backend/pkg/randutil"
	"github.com/questbelief/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type DailyQuestDomain interface {
	GetDailyQuests(ctx context.Context, req *model.GetDailyQuestsRequest) (*model.GetDailyQuestsResponse, error)
	GetQuestStatus(ctx context.Context, req *model.GetQuestStatusRequest) (*model.GetQuestStatusResponse, error)
	GetJournal(ctx context.Context, req *model.GetJournalRequest) (*model.GetJournalResponse, error)
}

type dailyQuestDomain struct {
	questRepo  repository.QuestRepository
	statusRepo repository.UserQuestStatusRepository
	rng        randutil.Rand
}

func NewDailyQuestDomain(
	questRepo repository.QuestRepository,
	statusRepo repository.UserQuestStatusRepository,
	rng randutil.Rand,
) *dailyQuestDomain {
	return &dailyQuestDomain{
		questRepo:  questRepo,
		statusRepo: statusRepo,
		rng:        rng,
	}
}

// GetDailyQuests returns the caller's quest set for the day. The first
// call of a day draws the set and persists it; later calls (and
// concurrent first calls) always see the same set.
func (d *dailyQuestDomain) GetDailyQuests(
	ctx context.Context, req *model.GetDailyQuestsRequest,
) (*model.GetDailyQuestsResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	date, err := requestDay(req.Date)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid date %s", req.Date)
	}

	statuses, err := d.statusRepo.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get daily statuses: %v", err)
		return nil, errorx.Unknown
	}

	if len(statuses) == 0 {
		statuses, err = d.assign(ctx, userID, date)
		if err != nil {
			return nil, err
		}
	}

	questIDs := []string{}
	for _, status := range statuses {
		questIDs = append(questIDs, status.QuestID)
	}

	quests, err := d.questRepo.GetByIDs(ctx, questIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get daily quest details: %v", err)
		return nil, errorx.Unknown
	}

	questsByID := map[string]entity.Quest{}
	for _, quest := range quests {
		questsByID[quest.ID] = quest
	}

	dailyQuests := []model.DailyQuest{}
	for i := range statuses {
		quest, ok := questsByID[statuses[i].QuestID]
		if !ok {
			continue
		}

		dailyQuests = append(dailyQuests, model.DailyQuest{
			Quest:  model.ConvertQuest(&quest),
			Status: model.ConvertUserQuestStatus(&statuses[i]),
		})
	}

	return &model.GetDailyQuestsResponse{Quests: dailyQuests}, nil
}

// assign draws the day's composition and persists one status row per
// drawn quest. If another request won the insert race, the winner's
// rows are returned instead of failing.
func (d *dailyQuestDomain) assign(
	ctx context.Context, userID, date string,
) ([]entity.UserQuestStatus, error) {
	questCfg := xcontext.Configs(ctx).Quest
	composition := []struct {
		complexity entity.QuestComplexity
		count      int
	}{
		{entity.QuestEasy, questCfg.DailyEasyQuests},
		{entity.QuestMedium, questCfg.DailyMediumQuests},
		{entity.QuestHard, questCfg.DailyHardQuests},
	}

	statuses := []*entity.UserQuestStatus{}
	for _, tier := range composition {
		pool, err := d.questRepo.GetByComplexity(ctx, tier.complexity)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get %s quest pool: %v", tier.complexity, err)
			return nil, errorx.Unknown
		}

		// A short pool yields a short set rather than an error.
		for _, quest := range randutil.SampleWithoutReplacement(d.rng, pool, tier.count) {
			statuses = append(statuses, &entity.UserQuestStatus{
				UserID:       userID,
				QuestID:      quest.ID,
				AssignedDate: date,
				Status:       entity.StatusNotStarted,
			})
		}
	}

	if len(statuses) == 0 {
		return nil, errorx.New(errorx.NotFound, "No quest is available")
	}

	if err := d.statusRepo.CreateList(ctx, statuses); err != nil {
		existing, getErr := d.statusRepo.GetByUserAndDate(ctx, userID, date)
		if getErr == nil && len(existing) > 0 {
			return existing, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot assign daily quests: %v", err)
		return nil, errorx.Unknown
	}

	created, err := d.statusRepo.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload daily statuses: %v", err)
		return nil, errorx.Unknown
	}

	return created, nil
}

func (d *dailyQuestDomain) GetQuestStatus(
	ctx context.Context, req *model.GetQuestStatusRequest,
) (*model.GetQuestStatusResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	date, err := requestDay(req.Date)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid date %s", req.Date)
	}

	status, err := d.statusRepo.Get(ctx, userID, req.QuestID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest status")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest status: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetQuestStatusResponse(model.ConvertUserQuestStatus(status))
	return &resp, nil
}

// GetJournal lists the caller's status rows across all days joined
// with their quests. Rows whose quest no longer exists are dropped
// from the journal.
func (d *dailyQuestDomain) GetJournal(
	ctx context.Context, req *model.GetJournalRequest,
) (*model.GetJournalResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	statuses, err := d.statusRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get journal statuses: %v", err)
		return nil, errorx.Unknown
	}

	questIDs := []string{}
	for _, status := range statuses {
		questIDs = append(questIDs, status.QuestID)
	}

	quests, err := d.questRepo.GetByIDs(ctx, questIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get journal quests: %v", err)
		return nil, errorx.Unknown
	}

	questsByID := map[string]entity.Quest{}
	for _, quest := range quests {
		questsByID[quest.ID] = quest
	}

	entries := []model.JournalEntry{}
	for i := range statuses {
		quest, ok := questsByID[statuses[i].QuestID]
		if !ok {
			continue
		}

		entries = append(entries, model.JournalEntry{
			Status: model.ConvertUserQuestStatus(&statuses[i]),
			Quest:  model.ConvertQuest(&quest),
		})
	}

	return &model.GetJournalResponse{Entries: entries}, nil
}

// requestDay normalizes an optional YYYY-MM-DD parameter to a day
// bucket, defaulting to today.
func requestDay(date string) (string, error) {
	if date == "" {
		return dateutil.Today(), nil
	}

	if _, err := dateutil.ParseDay(date); err != nil {
		return "", err
	}

	return date, nil
}
