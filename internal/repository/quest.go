package repository

import (
	"context"

	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/pkg/xcontext"
)

type GetQuestListFilter struct {
	Complexity entity.QuestComplexity
	Offset     int
	Limit      int
}

type QuestRepository interface {
	Create(ctx context.Context, quest *entity.Quest) error
	GetByID(ctx context.Context, id string) (*entity.Quest, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Quest, error)
	GetByTitle(ctx context.Context, title string) (*entity.Quest, error)
	GetList(ctx context.Context, filter GetQuestListFilter) ([]entity.Quest, error)
	GetByComplexity(ctx context.Context, complexity entity.QuestComplexity) ([]entity.Quest, error)
}

type questRepository struct{}

func NewQuestRepository() *questRepository {
	return &questRepository{}
}

func (r *questRepository) Create(ctx context.Context, quest *entity.Quest) error {
	return xcontext.DB(ctx).Create(quest).Error
}

func (r *questRepository) GetByID(ctx context.Context, id string) (*entity.Quest, error) {
	result := &entity.Quest{}
	if err := xcontext.DB(ctx).Where("id=?", id).Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Quest, error) {
	result := []entity.Quest{}
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questRepository) GetByTitle(ctx context.Context, title string) (*entity.Quest, error) {
	result := &entity.Quest{}
	if err := xcontext.DB(ctx).Where("title=?", title).Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questRepository) GetList(ctx context.Context, filter GetQuestListFilter) ([]entity.Quest, error) {
	tx := xcontext.DB(ctx)
	if filter.Complexity != "" {
		tx = tx.Where("complexity=?", filter.Complexity)
	}

	if filter.Limit > 0 {
		tx = tx.Offset(filter.Offset).Limit(filter.Limit)
	}

	result := []entity.Quest{}
	if err := tx.Order("created_at ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questRepository) GetByComplexity(
	ctx context.Context, complexity entity.QuestComplexity,
) ([]entity.Quest, error) {
	result := []entity.Quest{}
	err := xcontext.DB(ctx).
		Where("complexity=?", complexity).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
