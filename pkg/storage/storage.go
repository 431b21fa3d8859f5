package storage

import "context"

// Storage keeps enrollment photos. Keys are generated by the implementation,
// so uploading the same object twice yields two distinct keys.
type Storage interface {
	Upload(context.Context, *UploadObject) (*StoredObject, error)
	BulkUpload(context.Context, []*UploadObject) ([]*StoredObject, error)
	Delete(ctx context.Context, bucket string, keys ...string) error
	CheckBucket(ctx context.Context, bucket string) error
}

type UploadObject struct {
	Bucket   string
	Prefix   string
	FileName string
	Mime     string
	Data     []byte
}

// StoredObject locates an uploaded object. URL is what gets persisted on the
// identity; Key is what Delete takes back.
type StoredObject struct {
	URL string
	Key string
}
