package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/facepass-lab/backend/config"
	"github.com/facepass-lab/backend/internal/domain"
	"github.com/facepass-lab/backend/internal/domain/statistic"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/authenticator"
	"github.com/facepass-lab/backend/pkg/dateutil"
	"github.com/facepass-lab/backend/pkg/kafka"
	"github.com/facepass-lab/backend/pkg/logger"
	"github.com/facepass-lab/backend/pkg/pubsub"
	"github.com/facepass-lab/backend/pkg/recognition"
	"github.com/facepass-lab/backend/pkg/router"
	"github.com/facepass-lab/backend/pkg/session"
	"github.com/facepass-lab/backend/pkg/storage"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/facepass-lab/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	redisClient  xredis.Client
	publisher    pubsub.Publisher
	oracle       recognition.Oracle
	storage      storage.Storage
	clock        dateutil.Clock
	leaderboard  statistic.Leaderboard
	sessionStore *session.Store

	identityRepo       repository.IdentityRepository
	companionLinkRepo  repository.CompanionLinkRepository
	contestRepo        repository.ContestRepository
	participationRepo  repository.ParticipationRepository
	triviaRepo         repository.TriviaRepository
	triviaResponseRepo repository.TriviaResponseRepository

	sessionDomain    domain.SessionDomain
	identityDomain   domain.IdentityDomain
	companionDomain  domain.CompanionDomain
	contestDomain    domain.ContestDomain
	triviaDomain     domain.TriviaDomain
	rankingDomain    domain.RankingDomain
	healthDomain     domain.HealthDomain
	collectionDomain domain.CollectionDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	return nil
}

func (s *srv) loadLogger() {
	cfg := xcontext.Configs(s.ctx)
	level := logger.ParseLevel(cfg.LogLevel)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLoggerWithWriter(level, os.Stdout, cfg.Env != "local"))
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.ConnectionString(),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  false,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		panic(err)
	}

	return db
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Error
	}
}

func (s *srv) loadRedisClient() {
	addr := xcontext.Configs(s.ctx).Redis.Addr
	if addr == "" {
		xcontext.Logger(s.ctx).Warnf("Redis is not configured, sessions are not tracked and leaderboard is not cached")
		s.redisClient = xredis.NewNoopClient()
		return
	}

	var err error
	s.redisClient, err = xredis.NewClient(s.ctx, xcontext.Configs(s.ctx).Redis)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	if cfg.Addr == "" {
		xcontext.Logger(s.ctx).Warnf("Kafka is not configured, award events are dropped")
		s.publisher = pubsub.NewNoopPublisher()
		return
	}

	var err error
	s.publisher, err = kafka.NewPublisher("facepass-api", strings.Split(cfg.Addr, ","))
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadOracle() {
	cfg := xcontext.Configs(s.ctx).Rekognition

	var err error
	s.oracle, err = recognition.New(cfg)
	if err != nil {
		panic(err)
	}

	if !s.oracle.Enabled() {
		xcontext.Logger(s.ctx).Warnf("Face recognition is disabled, photo requests will be refused")
	}
}

func (s *srv) loadStorage() {
	var err error
	s.storage, err = storage.NewS3Storage(xcontext.Configs(s.ctx).Storage)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadSessionStore() {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Session.Secret == "" {
		xcontext.Logger(s.ctx).Warnf("Session secret is empty, session cookies are disabled")
		return
	}

	s.sessionStore = session.NewCookieStore(
		cfg.Session.Name, cfg.Auth.Session.Expiration.Duration, []byte(cfg.Session.Secret))
}

func (s *srv) loadRepos() {
	s.clock = repository.NewDBClock()
	s.identityRepo = repository.NewIdentityRepository()
	s.companionLinkRepo = repository.NewCompanionLinkRepository()
	s.contestRepo = repository.NewContestRepository()
	s.participationRepo = repository.NewParticipationRepository()
	s.triviaRepo = repository.NewTriviaRepository()
	s.triviaResponseRepo = repository.NewTriviaResponseRepository()
}

func (s *srv) loadLeaderboard() {
	s.leaderboard = statistic.New(
		s.identityRepo,
		s.companionLinkRepo,
		s.participationRepo,
		s.triviaResponseRepo,
		s.redisClient,
	)
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)

	tokenEngine := authenticator.NewTokenEngine[domain.SessionClaims](
		cfg.Auth.TokenSecret, cfg.Auth.Session.Expiration.Duration)
	s.sessionDomain = domain.NewSessionDomain(tokenEngine, s.redisClient)

	s.identityDomain = domain.NewIdentityDomain(
		s.identityRepo, s.companionLinkRepo, s.participationRepo, s.triviaResponseRepo,
		s.oracle, s.storage, s.sessionDomain)
	s.companionDomain = domain.NewCompanionDomain(
		s.identityRepo, s.companionLinkRepo, s.oracle, s.storage, s.sessionDomain)
	s.contestDomain = domain.NewContestDomain(
		s.contestRepo, s.participationRepo, s.identityRepo, s.companionLinkRepo,
		s.oracle, s.storage, s.sessionDomain, s.leaderboard, s.publisher, s.clock)
	s.triviaDomain = domain.NewTriviaDomain(
		s.triviaRepo, s.triviaResponseRepo, s.identityRepo, s.companionLinkRepo,
		s.sessionDomain, s.leaderboard, s.publisher, s.clock)
	s.rankingDomain = domain.NewRankingDomain(
		s.identityRepo, s.companionLinkRepo, s.participationRepo, s.triviaResponseRepo,
		s.leaderboard)
	s.healthDomain = domain.NewHealthDomain(s.oracle, s.clock)
}
