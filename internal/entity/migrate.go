package entity

import (
	"context"

	"github.com/facepass-lab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Identity{},
		&CompanionLink{},
		&Contest{},
		&Participation{},
		&Trivia{},
		&TriviaQuestion{},
		&TriviaResponse{},
	)
}
