package main

import (
	"context"
	"net/http"
	"os"

	"github.com/plumehq/backend/config"
	"github.com/plumehq/backend/internal/domain"
	"github.com/plumehq/backend/internal/domain/gamify"
	"github.com/plumehq/backend/internal/repository"
	"github.com/plumehq/backend/pkg/logger"
	"github.com/plumehq/backend/pkg/router"
	"github.com/plumehq/backend/pkg/xcontext"
	"github.com/plumehq/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient xredis.Client

	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	postRepo     repository.PostRepository
	likeRepo     repository.LikeRepository
	bookmarkRepo repository.BookmarkRepository
	growthRepo   repository.UserGrowthRepository
	xpRepo       repository.XPEntryRepository
	templateRepo repository.QuestTemplateRepository
	campaignRepo repository.CampaignRepository
	stateRepo    repository.UserQuestStateRepository

	engine *gamify.Engine

	userDomain   domain.UserDomain
	postDomain   domain.PostDomain
	growthDomain domain.GrowthDomain
	questDomain  domain.QuestDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(ct *cli.Context) {
	configs, err := config.Load(ct.String("config"))
	if err != nil {
		panic(err)
	}

	s.configs = &configs
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

func (s *srv) loadRedis(ctx context.Context) {
	redisClient, err := xredis.NewClient(ctx)
	if err != nil {
		s.logger.Warnf("Cannot connect to redis, leaderboard is db-only: %v", err)
		return
	}

	s.redisClient = redisClient
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.categoryRepo = repository.NewCategoryRepository()
	s.postRepo = repository.NewPostRepository()
	s.likeRepo = repository.NewLikeRepository()
	s.bookmarkRepo = repository.NewBookmarkRepository()
	s.growthRepo = repository.NewUserGrowthRepository()
	s.xpRepo = repository.NewXPEntryRepository()
	s.templateRepo = repository.NewQuestTemplateRepository()
	s.campaignRepo = repository.NewCampaignRepository()
	s.stateRepo = repository.NewUserQuestStateRepository()
}

func (s *srv) loadEngine() {
	s.engine = gamify.NewEngine(
		s.userRepo, s.growthRepo, s.xpRepo, s.postRepo, s.likeRepo,
		s.bookmarkRepo, s.templateRepo, s.stateRepo, s.redisClient,
	)
}

func (s *srv) loadDomains() {
	s.userDomain = domain.NewUserDomain(s.userRepo)
	s.postDomain = domain.NewPostDomain(
		s.postRepo, s.categoryRepo, s.likeRepo, s.bookmarkRepo, s.engine)
	s.growthDomain = domain.NewGrowthDomain(
		s.growthRepo, s.xpRepo, s.postRepo, s.userRepo, s.engine, s.redisClient)
	s.questDomain = domain.NewQuestDomain(s.campaignRepo, s.templateRepo, s.engine)
}

// baseContext builds the service context used outside of the request
// path, for the migrate command and startup checks.
func (s *srv) baseContext() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, *s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithDB(ctx, s.db)
	return ctx
}

func configFlagValue() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	return "config.toml"
}
