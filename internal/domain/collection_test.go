package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/facepass-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_collectionDomain_CleanupFaces(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	s := newSuite()
	result := s.Oracle.Index(testutil.SamplePhoto(9), "", 2)
	orphans := []string{result.Faces[0].FaceID, result.Faces[1].FaceID}

	collectionDomain := NewCollectionDomain(s.IdentityRepo, s.Oracle, s.Storage)

	cleanup, err := collectionDomain.CleanupFaces(ctx, true)
	require.NoError(t, err)
	require.Equal(t, 5, cleanup.Scanned)
	require.ElementsMatch(t, orphans, cleanup.Orphans)
	require.Equal(t, 0, cleanup.Deleted)
	require.Equal(t, 5, s.Oracle.FaceCount())

	cleanup, err = collectionDomain.CleanupFaces(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 2, cleanup.Deleted)
	require.Equal(t, 3, s.Oracle.FaceCount())

	// Faces of enrolled identities are never touched.
	identity, err := collectionDomain.identityRepo.GetByBiometricRef(ctx, testutil.Identity1.BiometricRef)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity1.ID, identity.ID)
}

func Test_collectionDomain_Verify(t *testing.T) {
	ctx := testutil.MockContext()

	s := newSuite()
	collectionDomain := NewCollectionDomain(s.IdentityRepo, s.Oracle, s.Storage)

	status, err := collectionDomain.Verify(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), status.FaceCount)
	require.Equal(t, "facepass-test", status.Bucket)

	created, err := collectionDomain.Setup(ctx)
	require.NoError(t, err)
	require.False(t, created)

	s.Storage.CheckBucketFunc = func(ctx context.Context, bucket string) error {
		return errors.New("no such bucket")
	}
	_, err = collectionDomain.Verify(ctx)
	require.Error(t, err)
}
