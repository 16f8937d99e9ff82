package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	gcs "cloud.google.com/go/storage"
	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// GCS persists signature images to a Google Cloud Storage bucket
type GCS struct {
	client *gcs.Client
	bucket string
	prefix string
}

var _ interfaces.SignatureStore = &GCS{}

// NewGCS creates a signature store backed by a GCS bucket
func NewGCS(ctx context.Context, bucket, prefix string) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("storage bucket name is required")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}
	return &GCS{client: client, bucket: bucket, prefix: prefix}, nil
}

// Put writes the signature image and returns its object path
func (s *GCS) Put(ctx context.Context, formID, responseID, fieldID, mediaType string, data []byte) (string, error) {
	object := objectName(s.prefix, formID, responseID, fieldID, mediaType)

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = mediaType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write signature object", goerr.V("object", object))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize signature object", goerr.V("object", object))
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, object), nil
}

// Close releases the underlying client
func (s *GCS) Close() error {
	return s.client.Close()
}

// Local persists signature images to a directory on disk; intended for
// development and tests.
type Local struct {
	dir string
}

var _ interfaces.SignatureStore = &Local{}

// NewLocal creates a signature store rooted at dir
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		return nil, goerr.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage directory", goerr.V("dir", dir))
	}
	return &Local{dir: dir}, nil
}

// Put writes the signature image and returns its file path
func (l *Local) Put(ctx context.Context, formID, responseID, fieldID, mediaType string, data []byte) (string, error) {
	object := objectName("", formID, responseID, fieldID, mediaType)
	path := filepath.Join(l.dir, filepath.FromSlash(object))

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", goerr.Wrap(err, "failed to create signature directory", goerr.V("path", path))
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", goerr.Wrap(err, "failed to write signature file", goerr.V("path", path))
	}
	return path, nil
}

func objectName(prefix, formID, responseID, fieldID, mediaType string) string {
	ext := ".png"
	switch mediaType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/svg+xml":
		ext = ".svg"
	}
	name := fmt.Sprintf("signatures/%s/%s/%s%s", formID, responseID, fieldID, ext)
	if prefix != "" {
		return prefix + "/" + name
	}
	return name
}
