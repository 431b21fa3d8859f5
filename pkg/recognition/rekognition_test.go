package recognition

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"
	"github.com/facepass-lab/backend/config"
	"github.com/stretchr/testify/require"
)

type mockRekognition struct {
	rekognitioniface.RekognitionAPI

	indexFacesFunc   func(*rekognition.IndexFacesInput) (*rekognition.IndexFacesOutput, error)
	searchFacesFunc  func(*rekognition.SearchFacesByImageInput) (*rekognition.SearchFacesByImageOutput, error)
	deleteFacesFunc  func(*rekognition.DeleteFacesInput) (*rekognition.DeleteFacesOutput, error)
	createCollection func(*rekognition.CreateCollectionInput) (*rekognition.CreateCollectionOutput, error)
	listFacesPages   []*rekognition.ListFacesOutput
}

func (m *mockRekognition) IndexFacesWithContext(
	_ aws.Context, in *rekognition.IndexFacesInput, _ ...request.Option,
) (*rekognition.IndexFacesOutput, error) {
	return m.indexFacesFunc(in)
}

func (m *mockRekognition) SearchFacesByImageWithContext(
	_ aws.Context, in *rekognition.SearchFacesByImageInput, _ ...request.Option,
) (*rekognition.SearchFacesByImageOutput, error) {
	return m.searchFacesFunc(in)
}

func (m *mockRekognition) DeleteFacesWithContext(
	_ aws.Context, in *rekognition.DeleteFacesInput, _ ...request.Option,
) (*rekognition.DeleteFacesOutput, error) {
	return m.deleteFacesFunc(in)
}

func (m *mockRekognition) CreateCollectionWithContext(
	_ aws.Context, in *rekognition.CreateCollectionInput, _ ...request.Option,
) (*rekognition.CreateCollectionOutput, error) {
	return m.createCollection(in)
}

func (m *mockRekognition) ListFacesPagesWithContext(
	_ aws.Context, _ *rekognition.ListFacesInput,
	fn func(*rekognition.ListFacesOutput, bool) bool, _ ...request.Option,
) error {
	for i, page := range m.listFacesPages {
		if !fn(page, i == len(m.listFacesPages)-1) {
			return nil
		}
	}

	return nil
}

func testConfigs() config.RekognitionConfigs {
	return config.RekognitionConfigs{
		Enabled:       true,
		CollectionID:  "faces",
		MaxFaces:      5,
		QualityFilter: "AUTO",
	}
}

func TestIndexFacesCountsExtraFaces(t *testing.T) {
	client := &mockRekognition{
		indexFacesFunc: func(in *rekognition.IndexFacesInput) (*rekognition.IndexFacesOutput, error) {
			require.Equal(t, "faces", aws.StringValue(in.CollectionId))
			require.Equal(t, "ext-1", aws.StringValue(in.ExternalImageId))
			return &rekognition.IndexFacesOutput{
				FaceRecords: []*rekognition.FaceRecord{
					{Face: &rekognition.Face{FaceId: aws.String("f1"), Confidence: aws.Float64(99.5)}},
				},
				UnindexedFaces: []*rekognition.UnindexedFace{
					{Reasons: aws.StringSlice([]string{rekognition.ReasonExceedsMaxFaces})},
					{Reasons: aws.StringSlice([]string{rekognition.ReasonLowBrightness})},
				},
			}, nil
		},
	}

	oracle := NewRekognitionOracle(client, testConfigs())
	result, err := oracle.IndexFaces(context.Background(), []byte("img"), "ext-1")
	require.NoError(t, err)
	require.Equal(t, []Face{{FaceID: "f1", Confidence: 99.5}}, result.Faces)
	require.Equal(t, 1, result.ExtraFaces)
	require.Equal(t, 2, result.Detected())
}

func TestSearchFace(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		client := &mockRekognition{
			searchFacesFunc: func(in *rekognition.SearchFacesByImageInput) (*rekognition.SearchFacesByImageOutput, error) {
				require.Equal(t, 90.0, aws.Float64Value(in.FaceMatchThreshold))
				return &rekognition.SearchFacesByImageOutput{
					FaceMatches: []*rekognition.FaceMatch{
						{Face: &rekognition.Face{FaceId: aws.String("f1")}, Similarity: aws.Float64(97.3)},
					},
				}, nil
			},
		}

		match, err := NewRekognitionOracle(client, testConfigs()).SearchFace(context.Background(), []byte("img"), 90)
		require.NoError(t, err)
		require.Equal(t, &Match{FaceID: "f1", Similarity: 97.3}, match)
	})

	t.Run("no match", func(t *testing.T) {
		client := &mockRekognition{
			searchFacesFunc: func(*rekognition.SearchFacesByImageInput) (*rekognition.SearchFacesByImageOutput, error) {
				return &rekognition.SearchFacesByImageOutput{}, nil
			},
		}

		_, err := NewRekognitionOracle(client, testConfigs()).SearchFace(context.Background(), []byte("img"), 90)
		require.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("no face is not a mismatch", func(t *testing.T) {
		client := &mockRekognition{
			searchFacesFunc: func(*rekognition.SearchFacesByImageInput) (*rekognition.SearchFacesByImageOutput, error) {
				return nil, awserr.New(rekognition.ErrCodeInvalidParameterException,
					"There are no faces in the image. Should be at least 1.", nil)
			},
		}

		_, err := NewRekognitionOracle(client, testConfigs()).SearchFace(context.Background(), []byte("img"), 90)
		require.ErrorIs(t, err, ErrNoFaceInImage)
		require.False(t, errors.Is(err, ErrNoMatch))
	})

	t.Run("transient failure", func(t *testing.T) {
		client := &mockRekognition{
			searchFacesFunc: func(*rekognition.SearchFacesByImageInput) (*rekognition.SearchFacesByImageOutput, error) {
				return nil, awserr.New(rekognition.ErrCodeThrottlingException, "slow down", nil)
			},
		}

		_, err := NewRekognitionOracle(client, testConfigs()).SearchFace(context.Background(), []byte("img"), 90)
		require.ErrorIs(t, err, ErrUnavailable)
		require.False(t, errors.Is(err, ErrNoMatch))
	})
}

func TestTranslateImageErrors(t *testing.T) {
	require.ErrorIs(t,
		translateError(awserr.New(rekognition.ErrCodeImageTooLargeException, "", nil)), ErrImageTooLarge)
	require.ErrorIs(t,
		translateError(awserr.New(rekognition.ErrCodeInvalidImageFormatException, "", nil)), ErrInvalidImageFormat)
	require.ErrorIs(t,
		translateError(awserr.New(rekognition.ErrCodeInvalidParameterException,
			"There are no faces in the image. Should be at least 1.", nil)), ErrNoFaceInImage)

	// A misconfigured request is not the user's fault.
	err := translateError(awserr.New(rekognition.ErrCodeInvalidParameterException,
		"1 validation error detected: Value '120.0' at 'faceMatchThreshold' failed to satisfy constraint", nil))
	require.ErrorIs(t, err, ErrUnavailable)
	require.False(t, errors.Is(err, ErrNoFaceInImage))
}

func TestEnsureCollection(t *testing.T) {
	client := &mockRekognition{
		createCollection: func(*rekognition.CreateCollectionInput) (*rekognition.CreateCollectionOutput, error) {
			return nil, awserr.New(rekognition.ErrCodeResourceAlreadyExistsException, "exists", nil)
		},
	}

	created, err := NewRekognitionOracle(client, testConfigs()).EnsureCollection(context.Background())
	require.NoError(t, err)
	require.False(t, created)
}

func TestListFaces(t *testing.T) {
	client := &mockRekognition{
		listFacesPages: []*rekognition.ListFacesOutput{
			{Faces: []*rekognition.Face{{FaceId: aws.String("f1")}, {FaceId: aws.String("f2")}}},
			{Faces: []*rekognition.Face{{FaceId: aws.String("f3")}}},
		},
	}

	var ids []string
	err := NewRekognitionOracle(client, testConfigs()).ListFaces(context.Background(), func(faces []Face) error {
		for _, f := range faces {
			ids = append(ids, f.FaceID)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"f1", "f2", "f3"}, ids)
}

func TestDisabledOracle(t *testing.T) {
	oracle, err := New(config.RekognitionConfigs{Enabled: false})
	require.NoError(t, err)
	require.False(t, oracle.Enabled())

	_, err = oracle.SearchFace(context.Background(), []byte("img"), 90)
	require.ErrorIs(t, err, ErrDisabled)

	_, err = oracle.IndexFaces(context.Background(), []byte("img"), "x")
	require.ErrorIs(t, err, ErrDisabled)
}
