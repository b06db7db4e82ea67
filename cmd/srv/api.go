package main

import (
	"fmt"
	"net/http"

	"github.com/questbelief/backend/internal/middleware"
	"github.com/questbelief/backend/migration"
	"github.com/questbelief/backend/pkg/router"

	"github.com/urfave/cli/v2"
)

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "questbelief"
	app.Usage = "Gamified quest tracker backend"
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Category:    "Api",
			Description: `Starts the main service with all http apis.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Apply database migrations",
			Category:    "Ops",
			Description: `Applies the embedded sql migrations to the configured database.`,
		},
		{
			Action:      server.startSeed,
			Name:        "seed",
			Usage:       "Seed the quest catalog",
			Category:    "Ops",
			Description: `Loads the embedded quest catalog, skipping titles that already exist.`,
		},
	}

	s.app = app
}

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadStorage()
	s.loadRedis(s.baseContext())
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", s.configs.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on port %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) startMigrate(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	return migration.Migrate(s.baseContext())
}

func (s *srv) startSeed(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	return migration.SeedQuests(s.baseContext())
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())
	s.router.Before(middleware.WithAuthVerifier())

	// Public API
	publicRouter := s.router.Branch()
	{
		router.POST(publicRouter, "/register", s.userDomain.Register)
		router.GET(publicRouter, "/getQuests", s.questDomain.GetList)
		router.GET(publicRouter, "/getQuest", s.questDomain.Get)
		router.GET(publicRouter, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
	}

	// These following APIs need authentication.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		// User API
		router.GET(authRouter, "/getUser", s.userDomain.GetUser)

		// Daily quest API
		router.GET(authRouter, "/getDailyQuests", s.dailyQuestDomain.GetDailyQuests)
		router.GET(authRouter, "/getJournal", s.dailyQuestDomain.GetJournal)
		router.GET(authRouter, "/getQuestStatus", s.dailyQuestDomain.GetQuestStatus)
		router.POST(authRouter, "/completeQuest", s.statusDomain.Complete)

		// Proof API
		router.POST(authRouter, "/initProofSubmission", s.questProofDomain.Init)
		router.POST(authRouter, "/confirmProofSubmission", s.questProofDomain.Confirm)
		router.POST(authRouter, "/reviewProof", s.questProofDomain.Review)
		router.POST(authRouter, "/toggleBelief", s.questProofDomain.ToggleBelief)
		router.GET(authRouter, "/getProof", s.questProofDomain.Get)
		router.GET(authRouter, "/getProofFeed", s.questProofDomain.GetFeed)
		router.GET(authRouter, "/getProofHistory", s.questProofDomain.GetHistory)

		// Admin API
		router.POST(authRouter, "/createQuest", s.questDomain.Create)
	}
}
