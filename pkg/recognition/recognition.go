package recognition

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoMatch            = errors.New("no matching face")
	ErrNoFaceInImage      = errors.New("no face in image")
	ErrInvalidImageFormat = errors.New("invalid image format")
	ErrImageTooLarge      = errors.New("image too large")
	ErrUnavailable        = errors.New("face recognition unavailable")
	ErrDisabled           = errors.New("face recognition disabled")
	ErrCollectionNotFound = errors.New("face collection not found")
)

type Face struct {
	FaceID     string
	ExternalID string
	Confidence float64
}

type IndexResult struct {
	// Faces are the records created in the collection.
	Faces []Face

	// ExtraFaces counts faces detected but not indexed because the image had
	// more faces than allowed.
	ExtraFaces int
}

// Detected returns the number of faces seen in the image.
func (r IndexResult) Detected() int {
	return len(r.Faces) + r.ExtraFaces
}

type Match struct {
	FaceID     string
	Similarity float64
}

type CollectionInfo struct {
	ID        string
	ARN       string
	FaceCount int64
	CreatedAt time.Time
}

// Oracle identifies faces against one collection. Implementations return
// ErrNoMatch only when a face was found in the image but matched nobody;
// transient failures are wrapped in ErrUnavailable.
type Oracle interface {
	Enabled() bool
	IndexFaces(ctx context.Context, image []byte, externalID string) (*IndexResult, error)
	SearchFace(ctx context.Context, image []byte, threshold float64) (*Match, error)
	DeleteFaces(ctx context.Context, faceIDs ...string) error

	EnsureCollection(ctx context.Context) (bool, error)
	DescribeCollection(ctx context.Context) (*CollectionInfo, error)
	ListFaces(ctx context.Context, fn func([]Face) error) error
}
