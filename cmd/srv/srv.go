package main

import (
	"context"

	"github.com/questbelief/backend/config"
	"github.com/questbelief/backend/internal/common"
	"github.com/questbelief/backend/internal/domain"
	"github.com/questbelief/backend/internal/repository"
	"github.com/questbelief/backend/pkg/logger"
	"github.com/questbelief/backend/pkg/randutil"
	"github.com/questbelief/backend/pkg/router"
	"github.com/questbelief/backend/pkg/storage"
	"github.com/questbelief/backend/pkg/xcontext"
	"github.com/questbelief/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"net/http"
	"time"
)

type srv struct {
	app *cli.App

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB
	storage storage.Storage
	redis   xredis.Client

	userRepo       repository.UserRepository
	questRepo      repository.QuestRepository
	questProofRepo repository.QuestProofRepository
	beliefRepo     repository.BeliefRepository
	statusRepo     repository.UserQuestStatusRepository

	userDomain       domain.UserDomain
	questDomain      domain.QuestDomain
	dailyQuestDomain domain.DailyQuestDomain
	questProofDomain domain.QuestProofDomain
	statusDomain     domain.UserQuestStatusDomain
	statisticDomain  domain.StatisticDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	var err error
	s.configs, err = config.Load()
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadStorage() {
	s.storage = storage.NewS3Storage(s.configs.Storage)
}

func (s *srv) loadRedis(ctx context.Context) {
	var err error
	s.redis, err = xredis.NewClient(ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.questRepo = repository.NewQuestRepository()
	s.questProofRepo = repository.NewQuestProofRepository()
	s.beliefRepo = repository.NewBeliefRepository()
	s.statusRepo = repository.NewUserQuestStatusRepository()
}

func (s *srv) loadDomains() {
	roleVerifier := common.NewGlobalRoleVerifier(s.userRepo)
	rng := randutil.NewLockedRand(time.Now().UnixNano())

	s.userDomain = domain.NewUserDomain(s.userRepo)
	s.questDomain = domain.NewQuestDomain(s.questRepo, roleVerifier)
	s.dailyQuestDomain = domain.NewDailyQuestDomain(s.questRepo, s.statusRepo, rng)
	s.questProofDomain = domain.NewQuestProofDomain(
		s.questProofRepo, s.questRepo, s.userRepo, s.beliefRepo, s.statusRepo,
		s.storage, roleVerifier, s.redis)
	s.statusDomain = domain.NewUserQuestStatusDomain(
		s.questRepo, s.userRepo, s.statusRepo, s.redis)
	s.statisticDomain = domain.NewStatisticDomain(s.userRepo, s.redis)
}

// baseContext carries the collaborators the non-api commands need to
// reach the database through xcontext.
func (s *srv) baseContext() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithDB(ctx, s.db)
	return ctx
}
