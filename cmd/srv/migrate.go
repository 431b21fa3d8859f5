package main

import (
	"github.com/facepass-lab/backend/migration"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())

	switch {
	case cctx.Bool("auto"):
		return migration.AutoMigrate(s.ctx)
	case cctx.Bool("down"):
		return migration.Rollback(s.ctx)
	default:
		return migration.Migrate(s.ctx)
	}
}
