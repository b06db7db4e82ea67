package domain

import (
	"context"
	"errors"

	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/internal/model"
	"github.com/questbelief/backend/internal/repository"
	"github.com/questbelief/backend/pkg/errorx"
	"github.com/questbelief/backend/pkg/xcontext"
	"github.com/questbelief/backend/pkg/xredis"
	"gorm.io/gorm"
)

type UserQuestStatusDomain interface {
	Complete(ctx context.Context, req *model.CompleteQuestRequest) (*model.CompleteQuestResponse, error)
}

type userQuestStatusDomain struct {
	questRepo  repository.QuestRepository
	statusRepo repository.UserQuestStatusRepository
	completer  *questCompleter
}

func NewUserQuestStatusDomain(
	questRepo repository.QuestRepository,
	userRepo repository.UserRepository,
	statusRepo repository.UserQuestStatusRepository,
	redisClient xredis.Client,
) *userQuestStatusDomain {
	return &userQuestStatusDomain{
		questRepo:  questRepo,
		statusRepo: statusRepo,
		completer:  newQuestCompleter(userRepo, statusRepo, redisClient),
	}
}

// Complete is the explicit completion path for self-reported quests.
// Completing an already completed assignment is rejected rather than
// silently absorbed, unlike the proof paths which are idempotent.
func (d *userQuestStatusDomain) Complete(
	ctx context.Context, req *model.CompleteQuestRequest,
) (*model.CompleteQuestResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	date, err := requestDay(req.Date)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid date %s", req.Date)
	}

	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	status, err := d.statusRepo.Get(ctx, userID, quest.ID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Quest is not assigned for this day")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest status: %v", err)
		return nil, errorx.Unknown
	}

	if status.Status == entity.StatusCompleted {
		return nil, errorx.New(errorx.BadRequest, "Quest has already been completed")
	}

	if !status.Status.CanTransitionTo(entity.StatusCompleted) {
		return nil, errorx.New(errorx.BadRequest, "Quest can no longer be completed")
	}

	done, err := d.completer.completeAt(ctx, userID, quest, date)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot complete quest: %v", err)
		return nil, errorx.Unknown
	}

	if !done {
		return nil, errorx.New(errorx.BadRequest, "Quest has already been completed")
	}

	completed, err := d.statusRepo.Get(ctx, userID, quest.ID, date)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload quest status: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CompleteQuestResponse{
		Status: model.ConvertUserQuestStatus(completed),
	}, nil
}
