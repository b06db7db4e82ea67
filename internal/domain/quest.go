package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/questbelief/backend/internal/common"
	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/internal/model"
	"github.com/questbelief/backend/internal/repository"
	"github.com/questbelief/backend/pkg/enum"
	"github.com/questbelief/backend/pkg/errorx"
	"github.com/questbelief/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type QuestDomain interface {
	Create(ctx context.Context, req *model.CreateQuestRequest) (*model.CreateQuestResponse, error)
	Get(ctx context.Context, req *model.GetQuestRequest) (*model.GetQuestResponse, error)
	GetList(ctx context.Context, req *model.GetQuestsRequest) (*model.GetQuestsResponse, error)
}

type questDomain struct {
	questRepo    repository.QuestRepository
	roleVerifier *common.GlobalRoleVerifier
}

func NewQuestDomain(
	questRepo repository.QuestRepository,
	roleVerifier *common.GlobalRoleVerifier,
) *questDomain {
	return &questDomain{
		questRepo:    questRepo,
		roleVerifier: roleVerifier,
	}
}

func (d *questDomain) Create(
	ctx context.Context, req *model.CreateQuestRequest,
) (*model.CreateQuestResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when creating quest: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	complexity, err := enum.ToEnum[entity.QuestComplexity](req.Complexity)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid complexity %s", req.Complexity)
	}

	validationType, err := enum.ToEnum[entity.ValidationType](req.ValidationType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid validation type %s", req.ValidationType)
	}

	quest := &entity.Quest{
		Base:           entity.Base{ID: uuid.NewString()},
		Title:          req.Title,
		Description:    req.Description,
		Complexity:     complexity,
		XPReward:       req.XPReward,
		ValidationType: validationType,
		TargetValue:    req.TargetValue,
	}

	if err := d.questRepo.Create(ctx, quest); err != nil {
		if _, getErr := d.questRepo.GetByTitle(ctx, req.Title); getErr == nil {
			return nil, errorx.New(errorx.AlreadyExists, "Duplicated quest title")
		}

		xcontext.Logger(ctx).Errorf("Cannot create quest: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateQuestResponse{ID: quest.ID}, nil
}

func (d *questDomain) Get(
	ctx context.Context, req *model.GetQuestRequest,
) (*model.GetQuestResponse, error) {
	quest, err := d.questRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetQuestResponse(model.ConvertQuest(quest))
	return &resp, nil
}

func (d *questDomain) GetList(
	ctx context.Context, req *model.GetQuestsRequest,
) (*model.GetQuestsResponse, error) {
	quests, err := d.questRepo.GetList(ctx, repository.GetQuestListFilter{
		Offset: req.Offset,
		Limit:  req.Limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest list: %v", err)
		return nil, errorx.Unknown
	}

	clientQuests := []model.Quest{}
	for i := range quests {
		clientQuests = append(clientQuests, model.ConvertQuest(&quests[i]))
	}

	return &model.GetQuestsResponse{Quests: clientQuests}, nil
}
