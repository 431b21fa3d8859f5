package domain

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/facepass-lab/backend/internal/common"
	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/dateutil"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/recognition"
	"github.com/facepass-lab/backend/pkg/storage"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errNotRegistered = errors.New("face is not registered")

type identityProfile struct {
	DisplayName  string
	Email        string
	Phone        string
	EmployeeCode string
}

// enrollment is an identity whose face is already indexed and whose photo is
// already stored, but which is not persisted yet.
type enrollment struct {
	identity *entity.Identity
	faceIDs  []string
	files    []string
}

// faceResolver binds the recognition oracle to the identity directory.
type faceResolver struct {
	identityRepo repository.IdentityRepository
	oracle       recognition.Oracle
	storage      storage.Storage
}

func newFaceResolver(
	identityRepo repository.IdentityRepository,
	oracle recognition.Oracle,
	storage storage.Storage,
) *faceResolver {
	return &faceResolver{
		identityRepo: identityRepo,
		oracle:       oracle,
		storage:      storage,
	}
}

// validateProfile normalizes the profile and rejects duplicated contact data
// before the oracle is involved.
func (r *faceResolver) validateProfile(ctx context.Context, profile *identityProfile) error {
	profile.DisplayName = strings.TrimSpace(profile.DisplayName)
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	profile.Phone = strings.TrimSpace(profile.Phone)
	profile.EmployeeCode = strings.TrimSpace(profile.EmployeeCode)

	if profile.DisplayName == "" {
		return errorx.New(errorx.BadRequest, "Display name is required")
	}

	if len(profile.DisplayName) > 255 {
		return errorx.New(errorx.BadRequest, "Display name is too long")
	}

	if profile.Email != "" {
		if _, err := mail.ParseAddress(profile.Email); err != nil {
			return errorx.New(errorx.BadRequest, "Invalid email")
		}

		_, err := r.identityRepo.GetByEmail(ctx, profile.Email)
		if err == nil {
			return errorx.New(errorx.AlreadyExists, "Email is already registered")
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get identity by email: %v", err)
			return errorx.Unknown
		}
	}

	if profile.EmployeeCode != "" {
		_, err := r.identityRepo.GetByEmployeeCode(ctx, profile.EmployeeCode)
		if err == nil {
			return errorx.New(errorx.AlreadyExists, "Employee code is already registered")
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get identity by employee code: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}

// prepare indexes the face of photo and stores the photo. The caller must
// either persist the returned identity or discard the enrollment.
func (r *faceResolver) prepare(
	ctx context.Context, photo *common.Photo, profile identityProfile,
) (*enrollment, error) {
	if !r.oracle.Enabled() {
		return nil, oracleError(ctx, "index", recognition.ErrDisabled)
	}

	identityID := uuid.NewString()
	result, err := r.oracle.IndexFaces(ctx, photo.Data, identityID)
	if err != nil {
		return nil, oracleError(ctx, "index", err)
	}
	countOracleRequest("index", "ok")

	e := &enrollment{}
	for _, face := range result.Faces {
		e.faceIDs = append(e.faceIDs, face.FaceID)
	}

	if result.Detected() == 0 {
		return nil, errorx.New(errorx.NoFaceDetected, "No face detected in the photo")
	}

	if result.Detected() > 1 {
		r.discard(ctx, e)
		return nil, errorx.New(errorx.MultipleFacesDetected,
			"Detected %d faces, the photo must contain only one", result.Detected())
	}

	stored, err := common.StorePhoto(ctx, r.storage, photo, identityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store photo: %v", err)
		r.discard(ctx, e)
		return nil, errorx.Unknown
	}
	e.files = stored.FileNames()

	e.identity = &entity.Identity{
		Base:         entity.Base{ID: identityID},
		BiometricRef: e.faceIDs[0],
		DisplayName:  profile.DisplayName,
		Email:        toNullString(profile.Email),
		Phone:        toNullString(profile.Phone),
		EmployeeCode: toNullString(profile.EmployeeCode),
		PhotoRef:     stored.Photo.URL,
		ThumbnailRef: stored.Thumbnail.URL,
		EnrolledAt:   dateutil.Truncate(time.Now()),
	}

	return e, nil
}

// discard removes every external record created by prepare.
func (r *faceResolver) discard(ctx context.Context, e *enrollment) {
	if len(e.faceIDs) > 0 {
		if err := r.oracle.DeleteFaces(ctx, e.faceIDs...); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete faces %v: %v", e.faceIDs, err)
		}
	}

	if len(e.files) > 0 {
		bucket := xcontext.Configs(ctx).Storage.Bucket
		if err := r.storage.Delete(ctx, bucket, e.files...); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete photos %v: %v", e.files, err)
		}
	}
}

// identify returns the identity whose face matches photo, or errNotRegistered.
// It never mutates anything.
func (r *faceResolver) identify(
	ctx context.Context, photo *common.Photo,
) (*entity.Identity, float64, error) {
	if !r.oracle.Enabled() {
		return nil, 0, oracleError(ctx, "search", recognition.ErrDisabled)
	}

	threshold := xcontext.Configs(ctx).Rekognition.MatchThreshold
	match, err := r.oracle.SearchFace(ctx, photo.Data, threshold)
	if err != nil {
		if errors.Is(err, recognition.ErrNoMatch) {
			countOracleRequest("search", "no_match")
			return nil, 0, errNotRegistered
		}

		return nil, 0, oracleError(ctx, "search", err)
	}
	countOracleRequest("search", "ok")

	identity, err := r.identityRepo.GetByBiometricRef(ctx, match.FaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Warnf("Face %s is unknown to the directory", match.FaceID)
			return nil, 0, errNotRegistered
		}

		xcontext.Logger(ctx).Errorf("Cannot get identity by biometric ref: %v", err)
		return nil, 0, errorx.Unknown
	}

	return identity, match.Similarity, nil
}

func oracleError(ctx context.Context, operation string, err error) error {
	switch {
	case errors.Is(err, recognition.ErrDisabled):
		countOracleRequest(operation, "disabled")
		return errorx.New(errorx.ServiceUnavailable, "Face recognition is not configured")
	case errors.Is(err, recognition.ErrNoFaceInImage):
		countOracleRequest(operation, "no_face")
		return errorx.New(errorx.NoFaceDetected, "No face detected in the photo")
	case errors.Is(err, recognition.ErrInvalidImageFormat):
		countOracleRequest(operation, "invalid_image")
		return errorx.New(errorx.InvalidImageFormat, "Invalid image format")
	case errors.Is(err, recognition.ErrImageTooLarge):
		countOracleRequest(operation, "image_too_large")
		return errorx.New(errorx.ImageTooLarge, "Image is too large")
	}

	countOracleRequest(operation, "unavailable")
	xcontext.Logger(ctx).Errorf("Face recognition failed on %s: %v", operation, err)
	return errorx.New(errorx.OracleUnavailable, "Face recognition is temporarily unavailable")
}

func countOracleRequest(operation, result string) {
	common.PromCounters[common.OracleRequestTotal].WithLabelValues(operation, result).Inc()
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
