package domain

import (
	"context"

	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/pkg/dateutil"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/recognition"
	"github.com/facepass-lab/backend/pkg/xcontext"
)

type HealthDomain interface {
	Check(context.Context, *model.HealthRequest) (*model.HealthResponse, error)
}

type healthDomain struct {
	oracle recognition.Oracle
	clock  dateutil.Clock
}

func NewHealthDomain(oracle recognition.Oracle, clock dateutil.Clock) *healthDomain {
	return &healthDomain{oracle: oracle, clock: clock}
}

// Check reports the database clock, which proves the database is reachable.
func (d *healthDomain) Check(ctx context.Context, req *model.HealthRequest) (*model.HealthResponse, error) {
	now, err := d.clock.Now(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reach database: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Database is unavailable")
	}

	return &model.HealthResponse{
		Status:        "ok",
		OracleEnabled: d.oracle.Enabled(),
		ServerTime:    model.FormatTime(now),
	}, nil
}
