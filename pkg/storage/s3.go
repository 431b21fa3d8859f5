package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/facepass-lab/backend/config"
	"github.com/google/uuid"
)

type s3Storage struct {
	client   s3iface.S3API
	uploader *s3manager.Uploader
	cfg      config.S3Configs
}

func NewS3Storage(cfg config.S3Configs) (*s3Storage, error) {
	awsCfg := &aws.Config{
		Region:     aws.String(cfg.Region),
		DisableSSL: aws.Bool(cfg.SSLDisabled),
	}

	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, err
	}

	client := s3.New(sess)
	return &s3Storage{
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
		cfg:      cfg,
	}, nil
}

func (s *s3Storage) generateUploadURL(object *UploadObject) *StoredObject {
	fileName := fmt.Sprintf("%s-%s", uuid.NewString(), object.FileName)
	if object.Prefix != "" {
		fileName = fmt.Sprintf("%s/%s", strings.Trim(object.Prefix, "/"), fileName)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", object.Bucket, s.cfg.Region, fileName)
	if s.cfg.PublicEndpoint != "" {
		url = fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.PublicEndpoint, "/"), object.Bucket, fileName)
	}

	return &StoredObject{URL: url, Key: fileName}
}

func (s *s3Storage) Upload(ctx context.Context, object *UploadObject) (*StoredObject, error) {
	resp := s.generateUploadURL(object)
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(object.Bucket),
		Key:         aws.String(resp.Key),
		Body:        bytes.NewReader(object.Data),
		ContentType: aws.String(object.Mime),
	})
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w, bucket %s, key %s", err, object.Bucket, resp.Key)
	}

	return resp, nil
}

func (s *s3Storage) BulkUpload(ctx context.Context, objects []*UploadObject) ([]*StoredObject, error) {
	bObjects := make([]s3manager.BatchUploadObject, 0, len(objects))
	out := make([]*StoredObject, 0, len(objects))
	for _, o := range objects {
		resp := s.generateUploadURL(o)
		bObjects = append(bObjects, s3manager.BatchUploadObject{
			Object: &s3manager.UploadInput{
				Bucket:      aws.String(o.Bucket),
				Key:         aws.String(resp.Key),
				Body:        bytes.NewReader(o.Data),
				ContentType: aws.String(o.Mime),
			},
		})
		out = append(out, resp)
	}

	if err := s.uploader.UploadWithIterator(ctx, &s3manager.UploadObjectsIterator{
		Objects: bObjects,
	}); err != nil {
		return nil, err
	}

	return out, nil
}

func (s *s3Storage) Delete(ctx context.Context, bucket string, fileNames ...string) error {
	if len(fileNames) == 0 {
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(fileNames))
	for _, name := range fileNames {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(name)})
	}

	_, err := s.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &s3.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	return err
}

func (s *s3Storage) CheckBucket(ctx context.Context, bucket string) error {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	return err
}
