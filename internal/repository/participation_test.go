package repository_test

import (
	"database/sql"
	"testing"

	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newParticipation(id, identityID, contestID string, points uint64) *entity.Participation {
	return &entity.Participation{
		Base:          entity.Base{ID: id},
		IdentityID:    identityID,
		ContestID:     contestID,
		PointsAwarded: points,
		AwardedAt:     testutil.FixtureNow,
	}
}

func Test_participationRepository_Create(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	participationRepo := repository.NewParticipationRepository()

	err := participationRepo.Create(ctx,
		newParticipation("p1", testutil.Identity1.ID, testutil.ContestOnce.ID, 100))
	require.NoError(t, err)

	err = participationRepo.Create(ctx,
		newParticipation("p2", testutil.Identity1.ID, testutil.ContestOnce.ID, 100))
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = participationRepo.Create(ctx,
		newParticipation("p3", testutil.Identity2.ID, testutil.ContestOnce.ID, 100))
	require.NoError(t, err)

	total, err := participationRepo.CountByContestID(ctx, testutil.ContestOnce.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
}

func Test_participationRepository_WinnerSlot(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	participationRepo := repository.NewParticipationRepository()
	slot := sql.NullString{String: testutil.ContestSingle.ID, Valid: true}

	winner := newParticipation("p1", testutil.Identity2.ID, testutil.ContestSingle.ID, 100)
	winner.WinnerSlot = slot
	require.NoError(t, participationRepo.Create(ctx, winner))

	// A different identity still collides on the slot.
	loser := newParticipation("p2", testutil.Identity1.ID, testutil.ContestSingle.ID, 100)
	loser.WinnerSlot = slot
	require.ErrorIs(t, participationRepo.Create(ctx, loser), gorm.ErrDuplicatedKey)

	result, err := participationRepo.GetWinner(ctx, testutil.ContestSingle.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity2.ID, result.IdentityID)
	require.Equal(t, testutil.Identity2.DisplayName, result.Identity.DisplayName)

	_, err = participationRepo.GetWinner(ctx, testutil.ContestOnce.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_participationRepository_Accumulate(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	participationRepo := repository.NewParticipationRepository()
	ids := []string{"p1", "p2", "p3"}
	for _, id := range ids {
		err := participationRepo.Accumulate(ctx,
			newParticipation(id, testutil.Identity2.ID, testutil.ContestUnlimited.ID, 10))
		require.NoError(t, err)
	}

	result, err := participationRepo.Get(ctx, testutil.Identity2.ID, testutil.ContestUnlimited.ID)
	require.NoError(t, err)
	require.Equal(t, "p1", result.ID)
	require.Equal(t, uint64(30), result.PointsAwarded)

	counts, err := participationRepo.CountByIdentityIDs(ctx, []string{testutil.Identity2.ID})
	require.NoError(t, err)
	require.Equal(t, []repository.ParticipationCount{
		{IdentityID: testutil.Identity2.ID, Count: 1, Points: 30},
	}, counts)
}
