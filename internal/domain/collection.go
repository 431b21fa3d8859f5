package domain

import (
	"context"

	"github.com/facepass-lab/backend/internal/common"
	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/recognition"
	"github.com/facepass-lab/backend/pkg/storage"
	"github.com/facepass-lab/backend/pkg/xcontext"
)

// CollectionDomain holds the operator tasks around the face collection. They
// run from the command line, not over HTTP.
type CollectionDomain interface {
	Setup(ctx context.Context) (bool, error)
	Verify(ctx context.Context) (*model.CollectionStatus, error)
	CleanupFaces(ctx context.Context, dryRun bool) (*model.CleanupFacesResult, error)
}

// maxDeleteFaces bounds the face ids sent in one delete call.
const maxDeleteFaces = 1000

type collectionDomain struct {
	identityRepo repository.IdentityRepository
	oracle       recognition.Oracle
	storage      storage.Storage
}

func NewCollectionDomain(
	identityRepo repository.IdentityRepository,
	oracle recognition.Oracle,
	storage storage.Storage,
) *collectionDomain {
	return &collectionDomain{
		identityRepo: identityRepo,
		oracle:       oracle,
		storage:      storage,
	}
}

// Setup creates the collection if it is missing. It reports whether the
// collection was created.
func (d *collectionDomain) Setup(ctx context.Context) (bool, error) {
	created, err := d.oracle.EnsureCollection(ctx)
	if err != nil {
		return false, err
	}

	if created {
		xcontext.Logger(ctx).Infof("Created face collection %s",
			xcontext.Configs(ctx).Rekognition.CollectionID)
	}

	return created, nil
}

func (d *collectionDomain) Verify(ctx context.Context) (*model.CollectionStatus, error) {
	info, err := d.oracle.DescribeCollection(ctx)
	if err != nil {
		return nil, err
	}

	bucket := xcontext.Configs(ctx).Storage.Bucket
	if err := d.storage.CheckBucket(ctx, bucket); err != nil {
		return nil, err
	}

	return &model.CollectionStatus{
		CollectionID: info.ID,
		FaceCount:    info.FaceCount,
		CreatedAt:    model.FormatTime(info.CreatedAt),
		Bucket:       bucket,
	}, nil
}

// CleanupFaces deletes faces of the collection that no identity refers to.
// Such faces are left behind when an enrollment fails after indexing.
func (d *collectionDomain) CleanupFaces(
	ctx context.Context, dryRun bool,
) (*model.CleanupFacesResult, error) {
	result := &model.CleanupFacesResult{Orphans: []string{}}

	err := d.oracle.ListFaces(ctx, func(faces []recognition.Face) error {
		refs := make([]string, 0, len(faces))
		for _, face := range faces {
			refs = append(refs, face.FaceID)
		}
		result.Scanned += len(refs)

		existing, err := d.identityRepo.GetExistingBiometricRefs(ctx, refs)
		if err != nil {
			return err
		}

		known := map[string]bool{}
		for _, ref := range existing {
			known[ref] = true
		}

		orphans := []string{}
		for _, ref := range refs {
			if !known[ref] {
				orphans = append(orphans, ref)
			}
		}
		result.Orphans = append(result.Orphans, orphans...)

		if dryRun || len(orphans) == 0 {
			return nil
		}

		for len(orphans) > 0 {
			batch := common.Batch(&orphans, maxDeleteFaces)
			if err := d.oracle.DeleteFaces(ctx, batch...); err != nil {
				return err
			}
			result.Deleted += len(batch)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	xcontext.Logger(ctx).Infof("Scanned %d faces, %d orphans, %d deleted",
		result.Scanned, len(result.Orphans), result.Deleted)

	return result, nil
}
