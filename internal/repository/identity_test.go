package repository_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_identityRepository_IncreasePoint(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertIdentities(ctx)

	identityRepo := repository.NewIdentityRepository()
	require.NoError(t, identityRepo.IncreasePoint(ctx, testutil.Identity1.ID, 10))
	require.NoError(t, identityRepo.IncreasePoint(ctx, testutil.Identity1.ID, 15))

	identity, err := identityRepo.GetByID(ctx, testutil.Identity1.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(25), identity.PointBalance)

	err = identityRepo.IncreasePoint(ctx, "unknown", 10)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_identityRepository_Duplicated(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertIdentities(ctx)

	identityRepo := repository.NewIdentityRepository()
	err := identityRepo.Create(ctx, &entity.Identity{
		Base:         entity.Base{ID: "identity4"},
		BiometricRef: "face4",
		DisplayName:  "Mallory",
		Email:        sql.NullString{String: testutil.Identity1.Email.String, Valid: true},
		EnrolledAt:   time.Now(),
	})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = identityRepo.Create(ctx, &entity.Identity{
		Base:         entity.Base{ID: "identity4"},
		BiometricRef: testutil.Identity2.BiometricRef,
		DisplayName:  "Mallory",
		EnrolledAt:   time.Now(),
	})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Missing contact data never collides.
	err = identityRepo.Create(ctx, &entity.Identity{
		Base:         entity.Base{ID: "identity4"},
		BiometricRef: "face4",
		DisplayName:  "Mallory",
		EnrolledAt:   time.Now(),
	})
	require.NoError(t, err)
}

func Test_identityRepository_Lookup(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertIdentities(ctx)

	identityRepo := repository.NewIdentityRepository()

	identity, err := identityRepo.GetByBiometricRef(ctx, testutil.Identity2.BiometricRef)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity2.ID, identity.ID)

	identity, err = identityRepo.GetByEmployeeCode(ctx, testutil.Identity1.EmployeeCode.String)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity1.ID, identity.ID)

	_, err = identityRepo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	refs, err := identityRepo.GetExistingBiometricRefs(ctx, []string{"face1", "face3", "face9"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"face1", "face3"}, refs)

	require.NoError(t, identityRepo.MarkCompanion(ctx, testutil.Identity2.ID))
	identity, err = identityRepo.GetByID(ctx, testutil.Identity2.ID)
	require.NoError(t, err)
	require.True(t, identity.IsCompanion)
}

func Test_identityRepository_GetLeaderboard(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertIdentities(ctx)

	identityRepo := repository.NewIdentityRepository()
	require.NoError(t, identityRepo.IncreasePoint(ctx, testutil.Identity2.ID, 5))
	require.NoError(t, identityRepo.IncreasePoint(ctx, testutil.Identity1.ID, 5))

	identities, err := identityRepo.GetLeaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, identities, 2)
	require.Equal(t, testutil.Identity1.ID, identities[0].ID)
	require.Equal(t, testutil.Identity2.ID, identities[1].ID)

	stat, err := identityRepo.Statistic(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), stat.TotalIdentities)
	require.Equal(t, uint64(10), stat.TotalPoints)
	require.Equal(t, uint64(5), stat.MaxPoints)
	require.InDelta(t, 3.33, stat.AveragePoints, 0.01)
}
