package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/facepass-lab/backend/internal/middleware"
	"github.com/facepass-lab/backend/pkg/prometheus"
	"github.com/facepass-lab/backend/pkg/router"
	"github.com/facepass-lab/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Auth.TokenSecret == "" {
		return errors.New("token secret is required")
	}

	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.loadRedisClient()
	s.loadPublisher()
	defer func() {
		if err := s.publisher.Stop(s.ctx); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot stop publisher: %v", err)
		}
	}()
	s.loadOracle()
	s.loadStorage()
	s.loadSessionStore()
	s.loadRepos()
	s.loadLeaderboard()
	s.loadDomains()

	rateLimiter := middleware.NewRateLimiter(
		cfg.RateLimit.PhotoRequestsPerMinute, cfg.RateLimit.PhotoBurst)
	defer rateLimiter.Stop()
	s.loadRouter(rateLimiter)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ApiServer.Host, cfg.ApiServer.Port),
		Handler:           s.router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on %s", s.server.Addr)

	var err error
	if cfg.ApiServer.Cert != "" && cfg.ApiServer.Key != "" {
		err = s.server.ListenAndServeTLS(cfg.ApiServer.Cert, cfg.ApiServer.Key)
	} else {
		err = s.server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter(rateLimiter *middleware.RateLimiter) {
	cfg := xcontext.Configs(s.ctx)

	s.router = router.New(xcontext.DB(s.ctx), cfg, xcontext.Logger(s.ctx))
	s.router.Use(middleware.AllowCors(cfg.ApiServer.AllowedOrigins))
	s.router.Before(middleware.WithStartTime())
	s.router.Before(middleware.LoadSession(s.sessionStore))
	s.router.After(middleware.SaveSession(s.sessionStore))
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	s.router.Handle("/metrics", prometheus.NewHandler(cfg.Env))

	// Every request of these APIs goes through the face oracle.
	photoRouter := s.router.Branch()
	photoRouter.Before(rateLimiter.Middleware())
	{
		router.POST(photoRouter, "/enroll", s.identityDomain.Enroll)
		router.POST(photoRouter, "/identify", s.identityDomain.Identify)
		router.POST(photoRouter, "/getProfileByPhoto", s.identityDomain.GetProfileByPhoto)
		router.POST(photoRouter, "/linkCompanion", s.companionDomain.Link)
		router.POST(photoRouter, "/participate", s.contestDomain.Participate)
	}

	// Session API.
	router.GET(s.router, "/getProfile", s.identityDomain.GetProfileBySession)
	router.GET(s.router, "/validateSession", s.sessionDomain.ValidateSession)
	router.GET(s.router, "/getActiveTrivia", s.triviaDomain.GetActive)
	router.POST(s.router, "/answerTrivia", s.triviaDomain.Answer)

	// Public API.
	router.GET(s.router, "/health", s.healthDomain.Check)
	router.GET(s.router, "/validateEmployeeCode", s.identityDomain.ValidateEmployeeCode)
	router.GET(s.router, "/getCompanion", s.companionDomain.Get)
	router.GET(s.router, "/getContest", s.contestDomain.Get)
	router.GET(s.router, "/getListContest", s.contestDomain.GetList)
	router.GET(s.router, "/getContestParticipants", s.contestDomain.GetParticipants)
	router.GET(s.router, "/getListTrivia", s.triviaDomain.GetList)
	router.GET(s.router, "/getTriviaParticipants", s.triviaDomain.GetParticipants)
	router.GET(s.router, "/getLeaderboard", s.rankingDomain.GetLeaderboard)
	router.GET(s.router, "/getHistory", s.rankingDomain.GetHistory)
	router.GET(s.router, "/getAuditList", s.rankingDomain.GetAuditList)
}
