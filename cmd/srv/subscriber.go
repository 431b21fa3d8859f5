package main

import (
	"errors"
	"os/signal"
	"strings"
	"syscall"

	"github.com/facepass-lab/backend/internal/domain/statistic"
	"github.com/facepass-lab/backend/pkg/kafka"
	"github.com/facepass-lab/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(*cli.Context) error {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Kafka.Addr == "" {
		return errors.New("kafka address is required")
	}

	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.loadRedisClient()
	s.loadRepos()
	s.loadLeaderboard()

	handler := statistic.NewPointAwardedHandler(s.leaderboard)
	subscriber, err := kafka.NewSubscriber(
		cfg.Kafka.GroupID,
		strings.Split(cfg.Kafka.Addr, ","),
		[]string{cfg.Kafka.Topic},
		handler.Subscribe,
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	xcontext.Logger(s.ctx).Infof("Subscribing to topic %s", cfg.Kafka.Topic)
	if err := subscriber.Subscribe(ctx); err != nil {
		return err
	}

	return subscriber.Stop(ctx)
}
