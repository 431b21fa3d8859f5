package testutil

import (
	"context"

	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/storage"
)

type MockStorage struct {
	UploadFunc      func(context.Context, *storage.UploadObject) (*storage.StoredObject, error)
	BulkUploadFunc  func(context.Context, []*storage.UploadObject) ([]*storage.StoredObject, error)
	DeleteFunc      func(context.Context, string, ...string) error
	CheckBucketFunc func(context.Context, string) error
}

func (m *MockStorage) Upload(
	ctx context.Context, obj *storage.UploadObject,
) (*storage.StoredObject, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, obj)
	}

	return nil, errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockStorage) BulkUpload(
	ctx context.Context, objs []*storage.UploadObject,
) ([]*storage.StoredObject, error) {
	if m.BulkUploadFunc != nil {
		return m.BulkUploadFunc(ctx, objs)
	}

	return nil, errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockStorage) Delete(ctx context.Context, bucket string, fileNames ...string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, bucket, fileNames...)
	}

	return nil
}

func (m *MockStorage) CheckBucket(ctx context.Context, bucket string) error {
	if m.CheckBucketFunc != nil {
		return m.CheckBucketFunc(ctx, bucket)
	}

	return nil
}

// NewMemoryStorage accepts every upload and answers with a fake url.
func NewMemoryStorage() *MockStorage {
	return &MockStorage{
		BulkUploadFunc: func(
			ctx context.Context, objs []*storage.UploadObject,
		) ([]*storage.StoredObject, error) {
			result := []*storage.StoredObject{}
			for _, obj := range objs {
				fileName := obj.Prefix + "/" + obj.FileName
				result = append(result, &storage.StoredObject{
					URL: "https://storage.test/" + obj.Bucket + "/" + fileName,
					Key: fileName,
				})
			}

			return result, nil
		},
	}
}
