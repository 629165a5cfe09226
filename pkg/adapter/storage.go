package adapter

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// Storage is the interface for image memory content kept in an object
// store. Image records only hold a reference; the bytes are fetched when
// the content needs to be embedded.
type Storage interface {
	// Get opens the object stored under key for reading
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Put returns a writer to store an object under key
	Put(ctx context.Context, key string) (io.WriteCloser, error)
	// Bucket returns the bucket this client is bound to
	Bucket() string
}

// storageClient implements Storage using Cloud Storage
type storageClient struct {
	bucketName string
	client     *storage.Client
}

// NewStorage creates a new Cloud Storage client for the given bucket
func NewStorage(ctx context.Context, bucketName string) (Storage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &storageClient{
		bucketName: bucketName,
		client:     client,
	}, nil
}

func (s *storageClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj := s.client.Bucket(s.bucketName).Object(key)
	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read from storage", goerr.V("key", key))
	}

	return reader, nil
}

func (s *storageClient) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	obj := s.client.Bucket(s.bucketName).Object(key)
	return obj.NewWriter(ctx), nil
}

func (s *storageClient) Bucket() string {
	return s.bucketName
}

// ParseStorageRef splits a gs://bucket/object URI into bucket and object
// names. The second return value is false when the ref is not a Cloud
// Storage URI.
func ParseStorageRef(ref string) (bucket, object string, ok bool) {
	const scheme = "gs://"
	if !strings.HasPrefix(ref, scheme) {
		return "", "", false
	}
	rest := strings.TrimPrefix(ref, scheme)
	bucket, object, found := strings.Cut(rest, "/")
	if !found || bucket == "" || object == "" {
		return "", "", false
	}
	return bucket, object, true
}
