package port

import (
	"context"
	"io"
)

// UploadInput encapsulates the parameters needed to store an object.
type UploadInput struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// Object is an opened stored object. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// ObjectStorage abstracts document storage. Keys are slash-separated paths
// relative to the storage root, e.g. "documents/<client>/<file>".
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Open(ctx context.Context, key string) (*Object, error)
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Copy(ctx context.Context, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error
	GetPresignedURL(ctx context.Context, key string, expirySeconds int64) (string, error)
}
