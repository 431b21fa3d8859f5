package migration

import (
	"context"
	"embed"
	"errors"

	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed mysql/*.sql
var mysqlFS embed.FS

func newMigrator(ctx context.Context) (*migrate.Migrate, error) {
	db, err := xcontext.DB(ctx).DB()
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(mysqlFS, "mysql")
	if err != nil {
		return nil, err
	}

	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return nil, err
	}

	return migrate.NewWithInstance(
		"iofs", source, xcontext.Configs(ctx).Database.Database, driver)
}

// Migrate applies every pending versioned migration to the MySQL database in
// ctx. An up to date schema is not an error.
func Migrate(ctx context.Context) error {
	m, err := newMigrator(ctx)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	xcontext.Logger(ctx).Infof("Database schema at version %d (dirty=%t)", version, dirty)

	return nil
}

// Rollback reverts the last applied migration.
func Rollback(ctx context.Context) error {
	m, err := newMigrator(ctx)
	if err != nil {
		return err
	}

	return m.Steps(-1)
}

// AutoMigrate creates the schema from the entities. It is meant for local
// development against a scratch database.
func AutoMigrate(ctx context.Context) error {
	return entity.MigrateTable(ctx)
}
