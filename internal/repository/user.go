package repository

import (
	"context"

	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	AddXP(ctx context.Context, userID string, xp uint64) error
	GetTopXP(ctx context.Context, limit int) ([]entity.User, error)
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return xcontext.DB(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	result := &entity.User{}
	if err := xcontext.DB(ctx).Where("id=?", id).Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	result := []entity.User{}
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*entity.User, error) {
	result := &entity.User{}
	if err := xcontext.DB(ctx).Where("name=?", name).Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// AddXP accumulates experience and recomputes the level in the same
// update so concurrent awards never lose points.
func (r *userRepository) AddXP(ctx context.Context, userID string, xp uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", userID).
		Updates(map[string]any{
			"xp":    gorm.Expr("xp+?", xp),
			"level": gorm.Expr("(xp+?)/?+1", xp, entity.XPPerLevel),
		})
	if err := tx.Error; err != nil {
		return err
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) GetTopXP(ctx context.Context, limit int) ([]entity.User, error) {
	result := []entity.User{}
	err := xcontext.DB(ctx).
		Order("xp DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
