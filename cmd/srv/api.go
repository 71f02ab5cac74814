package main

import (
	"fmt"
	"net/http"

	"github.com/plumehq/backend/internal/middleware"
	"github.com/plumehq/backend/pkg/router"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(ct *cli.Context) error {
	s.loadConfig(ct)
	s.loadLogger()
	s.loadDatabase()
	s.loadRedis(s.baseContext())
	s.loadRepos()
	s.loadEngine()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", s.configs.ApiServer.Host, s.configs.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting api server on port %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	s.logger.Infof("Api server stopped")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())
	s.router.Before(middleware.WithAuthentication())

	// Public API
	router.POST(s.router, "/register", s.userDomain.Register)
	router.POST(s.router, "/login", s.userDomain.Login)
	router.GET(s.router, "/getLeaderboard", s.growthDomain.GetLeaderboard)

	// These APIs need an authenticated user.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		router.GET(authRouter, "/getMe", s.userDomain.GetMe)

		router.POST(authRouter, "/createPost", s.postDomain.CreatePost)
		router.POST(authRouter, "/likePost", s.postDomain.AddLike)
		router.POST(authRouter, "/bookmarkPost", s.postDomain.AddBookmark)

		router.GET(authRouter, "/getSummary", s.growthDomain.GetSummary)
		router.GET(authRouter, "/getAchievements", s.growthDomain.GetAchievements)

		router.GET(authRouter, "/getQuests", s.questDomain.GetActiveQuests)
		router.POST(authRouter, "/claimReward", s.questDomain.ClaimReward)
	}

	// Management API
	adminRouter := s.router.Branch()
	adminRouter.Before(middleware.NewOnlyAdmin(s.userRepo).Middleware())
	{
		router.POST(adminRouter, "/createCategory", s.postDomain.CreateCategory)
		router.POST(adminRouter, "/createQuestTemplate", s.questDomain.CreateTemplate)
		router.POST(adminRouter, "/createCampaign", s.questDomain.CreateCampaign)
		router.POST(adminRouter, "/backfillAchievements", s.growthDomain.BackfillAchievements)
	}
}
