package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/dateutil"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/recognition"
	"github.com/facepass-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type brokenClock struct{}

func (brokenClock) Now(context.Context) (time.Time, error) {
	return time.Time{}, errors.New("connection refused")
}

func Test_healthDomain_Check(t *testing.T) {
	ctx := testutil.MockContext()

	resp, err := NewHealthDomain(testutil.NewMockOracle(), repository.NewDBClock()).
		Check(ctx, &model.HealthRequest{})
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Status)
	require.True(t, resp.OracleEnabled)
	require.NotEmpty(t, resp.ServerTime)

	resp, err = NewHealthDomain(recognition.NewDisabledOracle(), dateutil.NewFixedClock(testutil.FixtureNow)).
		Check(ctx, &model.HealthRequest{})
	require.NoError(t, err)
	require.False(t, resp.OracleEnabled)
	require.Equal(t, model.FormatTime(testutil.FixtureNow), resp.ServerTime)

	_, err = NewHealthDomain(testutil.NewMockOracle(), brokenClock{}).Check(ctx, &model.HealthRequest{})
	requireErrorCode(t, err, errorx.Unavailable)
}
