package testutil

import (
	"context"
	"time"

	"github.com/facepass-lab/backend/config"
	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/pkg/logger"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		panic(err)
	}

	// Every connection to :memory: opens its own empty database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Default()
	cfg.Auth.TokenSecret = "secret"
	cfg.Session.Secret = "session-secret"
	cfg.Storage.Bucket = "facepass-test"
	cfg.Rekognition.CollectionID = "facepass-test"
	cfg.File.MaxSize = 1024 * 1024

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
