package testutil

import (
	"context"
	"time"

	"github.com/questbelief/backend/config"
	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/internal/model"
	"github.com/questbelief/backend/pkg/authenticator"
	"github.com/questbelief/backend/pkg/logger"
	"github.com/questbelief/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env: "testing",
		Auth: config.AuthConfigs{
			AccessTokenName: "access_token",
			TokenSecret:     "secret",
			TokenExpiration: time.Minute,
		},
		Quest: config.QuestConfigs{
			DailyEasyQuests:   2,
			DailyMediumQuests: 2,
			DailyHardQuests:   1,
		},
		File: config.FileConfigs{
			UploadURLExpiration:   time.Hour,
			DownloadURLExpiration: time.Hour,
			MaxPhotosPerProof:     5,
			MaxVoicesPerProof:     2,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.TokenExpiration))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}
