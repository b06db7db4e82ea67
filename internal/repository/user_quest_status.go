package repository

import (
	"context"
	"errors"

	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserQuestStatusRepository interface {
	Create(ctx context.Context, status *entity.UserQuestStatus) error
	CreateList(ctx context.Context, statuses []*entity.UserQuestStatus) error
	Get(ctx context.Context, userID, questID, date string) (*entity.UserQuestStatus, error)
	GetByUserAndDate(ctx context.Context, userID, date string) ([]entity.UserQuestStatus, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.UserQuestStatus, error)
	GetLatest(ctx context.Context, userID, questID string) (*entity.UserQuestStatus, error)
	UpdateStatus(ctx context.Context, userID, questID, date string, from, to entity.UserQuestStatusType) error
	SetCompleted(ctx context.Context, userID, questID, date string) (bool, error)
}

type userQuestStatusRepository struct{}

func NewUserQuestStatusRepository() *userQuestStatusRepository {
	return &userQuestStatusRepository{}
}

func (r *userQuestStatusRepository) Create(ctx context.Context, status *entity.UserQuestStatus) error {
	return xcontext.DB(ctx).Create(status).Error
}

func (r *userQuestStatusRepository) CreateList(ctx context.Context, statuses []*entity.UserQuestStatus) error {
	return xcontext.DB(ctx).Create(statuses).Error
}

func (r *userQuestStatusRepository) Get(
	ctx context.Context, userID, questID, date string,
) (*entity.UserQuestStatus, error) {
	result := &entity.UserQuestStatus{}
	err := xcontext.DB(ctx).
		Where("user_id=? AND quest_id=? AND assigned_date=?", userID, questID, date).
		Take(result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userQuestStatusRepository) GetByUserAndDate(
	ctx context.Context, userID, date string,
) ([]entity.UserQuestStatus, error) {
	result := []entity.UserQuestStatus{}
	err := xcontext.DB(ctx).
		Where("user_id=? AND assigned_date=?", userID, date).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetByUserID returns every assignment of the user across all days,
// newest day first.
func (r *userQuestStatusRepository) GetByUserID(
	ctx context.Context, userID string,
) ([]entity.UserQuestStatus, error) {
	result := []entity.UserQuestStatus{}
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("assigned_date DESC, created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetLatest returns the most recent assignment of the quest to the
// user, regardless of the day.
func (r *userQuestStatusRepository) GetLatest(
	ctx context.Context, userID, questID string,
) (*entity.UserQuestStatus, error) {
	result := &entity.UserQuestStatus{}
	err := xcontext.DB(ctx).
		Where("user_id=? AND quest_id=?", userID, questID).
		Order("assigned_date DESC").
		Take(result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userQuestStatusRepository) UpdateStatus(
	ctx context.Context, userID, questID, date string,
	from, to entity.UserQuestStatusType,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.UserQuestStatus{}).
		Where("user_id=? AND quest_id=? AND assigned_date=? AND status=?", userID, questID, date, from).
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

// SetCompleted marks the assignment done. It reports false without an
// error if the row was already completed, so callers can award the
// reward exactly once.
func (r *userQuestStatusRepository) SetCompleted(
	ctx context.Context, userID, questID, date string,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.UserQuestStatus{}).
		Where("user_id=? AND quest_id=? AND assigned_date=? AND status<>?",
			userID, questID, date, entity.StatusCompleted).
		Updates(map[string]any{
			"status":       entity.StatusCompleted,
			"is_completed": true,
		})
	if err := tx.Error; err != nil {
		return false, err
	}

	return tx.RowsAffected > 0, nil
}
