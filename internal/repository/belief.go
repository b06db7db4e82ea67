package repository

import (
	"context"
	"errors"

	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type BeliefRepository interface {
	Create(ctx context.Context, belief *entity.Belief) error
	Get(ctx context.Context, userID, proofID string) (*entity.Belief, error)
	Delete(ctx context.Context, userID, proofID string) error
	Count(ctx context.Context, proofID string) (int64, error)
	GetByProofIDs(ctx context.Context, userID string, proofIDs []string) ([]entity.Belief, error)
}

type beliefRepository struct{}

func NewBeliefRepository() *beliefRepository {
	return &beliefRepository{}
}

func (r *beliefRepository) Create(ctx context.Context, belief *entity.Belief) error {
	return xcontext.DB(ctx).Create(belief).Error
}

func (r *beliefRepository) Get(ctx context.Context, userID, proofID string) (*entity.Belief, error) {
	result := &entity.Belief{}
	err := xcontext.DB(ctx).
		Where("user_id=? AND proof_id=?", userID, proofID).
		Take(result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *beliefRepository) Delete(ctx context.Context, userID, proofID string) error {
	tx := xcontext.DB(ctx).
		Where("user_id=? AND proof_id=?", userID, proofID).
		Delete(&entity.Belief{})
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

func (r *beliefRepository) Count(ctx context.Context, proofID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Belief{}).
		Where("proof_id=?", proofID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// GetByProofIDs returns the beliefs the user gave among the proofs. It
// is used to mark believed proofs in the feed.
func (r *beliefRepository) GetByProofIDs(
	ctx context.Context, userID string, proofIDs []string,
) ([]entity.Belief, error) {
	result := []entity.Belief{}
	err := xcontext.DB(ctx).
		Where("user_id=? AND proof_id IN (?)", userID, proofIDs).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
