package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/internal/repository"
	"github.com/questbelief/backend/pkg/xcontext"
	"github.com/questbelief/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const xpLeaderboardKey = "leaderboard:xp"

// questCompleter marks a quest assignment completed and awards the
// experience reward. Both the moderation and the consensus path funnel
// through it so the reward is granted exactly once per assignment.
type questCompleter struct {
	userRepo    repository.UserRepository
	statusRepo  repository.UserQuestStatusRepository
	redisClient xredis.Client
}

func newQuestCompleter(
	userRepo repository.UserRepository,
	statusRepo repository.UserQuestStatusRepository,
	redisClient xredis.Client,
) *questCompleter {
	return &questCompleter{
		userRepo:    userRepo,
		statusRepo:  statusRepo,
		redisClient: redisClient,
	}
}

// Complete finishes the user's latest assignment of the quest. It
// reports false without an error when the assignment was already
// completed, so no reward is duplicated.
func (c *questCompleter) Complete(
	ctx context.Context, userID string, quest *entity.Quest,
) (bool, error) {
	status, err := c.statusRepo.GetLatest(ctx, userID, quest.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	return c.completeAt(ctx, userID, quest, status.AssignedDate)
}

func (c *questCompleter) completeAt(
	ctx context.Context, userID string, quest *entity.Quest, date string,
) (bool, error) {
	done, err := c.statusRepo.SetCompleted(ctx, userID, quest.ID, date)
	if err != nil {
		return false, err
	}

	if !done {
		return false, nil
	}

	if err := c.userRepo.AddXP(ctx, userID, quest.XPReward); err != nil {
		return false, fmt.Errorf("cannot award xp: %w", err)
	}

	// The leaderboard is a cache over users.xp and is rebuilt on read
	// when missing, so a redis failure must not abort the completion.
	if c.redisClient != nil {
		err := c.redisClient.ZIncrBy(ctx, xpLeaderboardKey, int64(quest.XPReward), userID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update leaderboard of %s: %v", userID, err)
		}
	}

	return true, nil
}

// seedLeaderboard fills the sorted set from the users table. Used when
// the redis key is missing.
func seedLeaderboard(
	ctx context.Context, redisClient xredis.Client, users []entity.User,
) error {
	for _, user := range users {
		err := redisClient.ZAdd(ctx, xpLeaderboardKey, redis.Z{
			Score:  float64(user.XP),
			Member: user.ID,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
