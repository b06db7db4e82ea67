package domain

import (
	"context"

	mathUtil "github.com/pkg/math"
	"github.com/questbelief/backend/internal/model"
	"github.com/questbelief/backend/internal/repository"
	"github.com/questbelief/backend/pkg/errorx"
	"github.com/questbelief/backend/pkg/xcontext"
	"github.com/questbelief/backend/pkg/xredis"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50
	leaderboardSeedSize     = 1000
)

type StatisticDomain interface {
	GetLeaderboard(ctx context.Context, req *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
}

type statisticDomain struct {
	userRepo    repository.UserRepository
	redisClient xredis.Client
}

func NewStatisticDomain(
	userRepo repository.UserRepository,
	redisClient xredis.Client,
) *statisticDomain {
	return &statisticDomain{
		userRepo:    userRepo,
		redisClient: redisClient,
	}
}

// GetLeaderboard reads the XP sorted set. A missing key is rebuilt
// from the users table before reading, so redis can be flushed at any
// time.
func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	offset := mathUtil.Max(req.Offset, 0)
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	limit = mathUtil.Min(limit, maxLeaderboardLimit)

	exist, err := d.redisClient.Exist(ctx, xpLeaderboardKey)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check leaderboard key: %v", err)
		return nil, errorx.Unknown
	}

	if !exist {
		users, err := d.userRepo.GetTopXP(ctx, leaderboardSeedSize)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load users for leaderboard: %v", err)
			return nil, errorx.Unknown
		}

		if err := seedLeaderboard(ctx, d.redisClient, users); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot seed leaderboard: %v", err)
			return nil, errorx.Unknown
		}
	}

	records, err := d.redisClient.ZRevRangeWithScores(ctx, xpLeaderboardKey, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot range leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	userIDs := []string{}
	for _, record := range records {
		userIDs = append(userIDs, record.Member.(string))
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard users: %v", err)
		return nil, errorx.Unknown
	}

	usersByID := map[string]model.User{}
	for i := range users {
		usersByID[users[i].ID] = model.ConvertUser(&users[i])
	}

	leaderboard := []model.UserStatistic{}
	for i, record := range records {
		user, ok := usersByID[record.Member.(string)]
		if !ok {
			continue
		}

		leaderboard = append(leaderboard, model.UserStatistic{
			User:        user,
			Value:       int(record.Score),
			CurrentRank: offset + i + 1,
		})
	}

	return &model.GetLeaderboardResponse{Leaderboard: leaderboard}, nil
}
