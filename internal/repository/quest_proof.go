package repository

import (
	"context"
	"errors"

	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type QuestProofRepository interface {
	Create(ctx context.Context, proof *entity.QuestProof) error
	GetByID(ctx context.Context, id string) (*entity.QuestProof, error)
	UpdateStatus(ctx context.Context, id string, from, to entity.ProofStatus) error
	IncreaseBeliefCount(ctx context.Context, id string, delta int) error
	GetFeed(ctx context.Context, excludedUserID string, offset, limit int) ([]entity.QuestProof, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.QuestProof, error)
	GetPendingByStatus(ctx context.Context, status entity.ProofStatus, offset, limit int) ([]entity.QuestProof, error)
}

type questProofRepository struct{}

func NewQuestProofRepository() *questProofRepository {
	return &questProofRepository{}
}

func (r *questProofRepository) Create(ctx context.Context, proof *entity.QuestProof) error {
	return xcontext.DB(ctx).Create(proof).Error
}

func (r *questProofRepository) GetByID(ctx context.Context, id string) (*entity.QuestProof, error) {
	result := &entity.QuestProof{}
	if err := xcontext.DB(ctx).Where("id=?", id).Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateStatus moves the proof from one status to another. The source
// status is part of the predicate so concurrent transitions cannot both
// succeed.
func (r *questProofRepository) UpdateStatus(
	ctx context.Context, id string, from, to entity.ProofStatus,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.QuestProof{}).
		Where("id=? AND status=?", id, from).
		Update("status", to)
	if err := tx.Error; err != nil {
		return err
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	return nil
}

// IncreaseBeliefCount adjusts the cached counter. A negative delta never
// drives the counter below zero.
func (r *questProofRepository) IncreaseBeliefCount(ctx context.Context, id string, delta int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.QuestProof{}).
		Where("id=? AND belief_count+? >= 0", id, delta).
		Update("belief_count", gorm.Expr("belief_count+?", delta))
	if err := tx.Error; err != nil {
		return err
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	return nil
}

func (r *questProofRepository) GetFeed(
	ctx context.Context, excludedUserID string, offset, limit int,
) ([]entity.QuestProof, error) {
	result := []entity.QuestProof{}
	err := xcontext.DB(ctx).
		Where("status=? AND user_id<>?", entity.ProofPending, excludedUserID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questProofRepository) GetByUserID(ctx context.Context, userID string) ([]entity.QuestProof, error) {
	result := []entity.QuestProof{}
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questProofRepository) GetPendingByStatus(
	ctx context.Context, status entity.ProofStatus, offset, limit int,
) ([]entity.QuestProof, error) {
	result := []entity.QuestProof{}
	err := xcontext.DB(ctx).
		Where("status=?", status).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
