package recognition

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"
	"github.com/facepass-lab/backend/config"
)

const listFacesPageSize = 1000

type rekognitionOracle struct {
	client rekognitioniface.RekognitionAPI
	cfg    config.RekognitionConfigs
}

// New picks the oracle once at startup: Rekognition when enabled, otherwise
// one that answers every call with ErrDisabled.
func New(cfg config.RekognitionConfigs) (Oracle, error) {
	if !cfg.Enabled {
		return NewDisabledOracle(), nil
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, err
	}

	return NewRekognitionOracle(rekognition.New(sess), cfg), nil
}

func NewRekognitionOracle(client rekognitioniface.RekognitionAPI, cfg config.RekognitionConfigs) *rekognitionOracle {
	return &rekognitionOracle{client: client, cfg: cfg}
}

func (o *rekognitionOracle) Enabled() bool {
	return true
}

func (o *rekognitionOracle) IndexFaces(
	ctx context.Context, image []byte, externalID string,
) (*IndexResult, error) {
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	out, err := o.client.IndexFacesWithContext(ctx, &rekognition.IndexFacesInput{
		CollectionId:        aws.String(o.cfg.CollectionID),
		Image:               &rekognition.Image{Bytes: image},
		ExternalImageId:     aws.String(externalID),
		MaxFaces:            aws.Int64(o.cfg.MaxFaces),
		QualityFilter:       aws.String(o.cfg.QualityFilter),
		DetectionAttributes: []*string{aws.String(rekognition.AttributeDefault)},
	})
	if err != nil {
		return nil, translateError(err)
	}

	result := &IndexResult{}
	for _, record := range out.FaceRecords {
		if record.Face == nil {
			continue
		}

		result.Faces = append(result.Faces, Face{
			FaceID:     aws.StringValue(record.Face.FaceId),
			ExternalID: aws.StringValue(record.Face.ExternalImageId),
			Confidence: aws.Float64Value(record.Face.Confidence),
		})
	}

	for _, unindexed := range out.UnindexedFaces {
		for _, reason := range unindexed.Reasons {
			if aws.StringValue(reason) == rekognition.ReasonExceedsMaxFaces {
				result.ExtraFaces++
				break
			}
		}
	}

	return result, nil
}

func (o *rekognitionOracle) SearchFace(
	ctx context.Context, image []byte, threshold float64,
) (*Match, error) {
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	out, err := o.client.SearchFacesByImageWithContext(ctx, &rekognition.SearchFacesByImageInput{
		CollectionId:       aws.String(o.cfg.CollectionID),
		Image:              &rekognition.Image{Bytes: image},
		FaceMatchThreshold: aws.Float64(threshold),
		MaxFaces:           aws.Int64(1),
		QualityFilter:      aws.String(o.cfg.QualityFilter),
	})
	if err != nil {
		return nil, translateError(err)
	}

	if len(out.FaceMatches) == 0 || out.FaceMatches[0].Face == nil {
		return nil, ErrNoMatch
	}

	return &Match{
		FaceID:     aws.StringValue(out.FaceMatches[0].Face.FaceId),
		Similarity: aws.Float64Value(out.FaceMatches[0].Similarity),
	}, nil
}

func (o *rekognitionOracle) DeleteFaces(ctx context.Context, faceIDs ...string) error {
	if len(faceIDs) == 0 {
		return nil
	}

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	_, err := o.client.DeleteFacesWithContext(ctx, &rekognition.DeleteFacesInput{
		CollectionId: aws.String(o.cfg.CollectionID),
		FaceIds:      aws.StringSlice(faceIDs),
	})
	if err != nil {
		return translateError(err)
	}

	return nil
}

func (o *rekognitionOracle) EnsureCollection(ctx context.Context) (bool, error) {
	_, err := o.client.CreateCollectionWithContext(ctx, &rekognition.CreateCollectionInput{
		CollectionId: aws.String(o.cfg.CollectionID),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == rekognition.ErrCodeResourceAlreadyExistsException {
			return false, nil
		}

		return false, translateError(err)
	}

	return true, nil
}

func (o *rekognitionOracle) DescribeCollection(ctx context.Context) (*CollectionInfo, error) {
	out, err := o.client.DescribeCollectionWithContext(ctx, &rekognition.DescribeCollectionInput{
		CollectionId: aws.String(o.cfg.CollectionID),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == rekognition.ErrCodeResourceNotFoundException {
			return nil, ErrCollectionNotFound
		}

		return nil, translateError(err)
	}

	return &CollectionInfo{
		ID:        o.cfg.CollectionID,
		ARN:       aws.StringValue(out.CollectionARN),
		FaceCount: aws.Int64Value(out.FaceCount),
		CreatedAt: aws.TimeValue(out.CreationTimestamp).UTC(),
	}, nil
}

func (o *rekognitionOracle) ListFaces(ctx context.Context, fn func([]Face) error) error {
	var fnErr error
	err := o.client.ListFacesPagesWithContext(ctx, &rekognition.ListFacesInput{
		CollectionId: aws.String(o.cfg.CollectionID),
		MaxResults:   aws.Int64(listFacesPageSize),
	}, func(page *rekognition.ListFacesOutput, lastPage bool) bool {
		faces := make([]Face, 0, len(page.Faces))
		for _, f := range page.Faces {
			faces = append(faces, Face{
				FaceID:     aws.StringValue(f.FaceId),
				ExternalID: aws.StringValue(f.ExternalImageId),
				Confidence: aws.Float64Value(f.Confidence),
			})
		}

		if fnErr = fn(faces); fnErr != nil {
			return false
		}

		return !lastPage
	})
	if fnErr != nil {
		return fnErr
	}

	if err != nil {
		return translateError(err)
	}

	return nil
}

func (o *rekognitionOracle) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.Timeout.Duration <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, o.cfg.Timeout.Duration)
}

func translateError(err error) error {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case rekognition.ErrCodeInvalidImageFormatException:
			return ErrInvalidImageFormat
		case rekognition.ErrCodeImageTooLargeException:
			return ErrImageTooLarge
		case rekognition.ErrCodeInvalidParameterException:
			// The same code covers a bad threshold or collection id, only the
			// message tells an image without a face apart.
			if strings.Contains(strings.ToLower(aerr.Message()), "no faces") {
				return ErrNoFaceInImage
			}
		}
	}

	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
