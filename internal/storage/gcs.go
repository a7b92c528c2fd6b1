package storage

import (
	"context"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"
)

// GCSStore keeps CV bytes in a Cloud Storage bucket. The stored path is
// "gs://bucket/object" so delete can resolve it without guessing.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSStore{client: c, bucket: bucket}, nil
}

func (s *GCSStore) Close() error { return s.client.Close() }

func (s *GCSStore) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	obj := s.client.Bucket(s.bucket).Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return "gs://" + s.bucket + "/" + objectName, nil
}

func (s *GCSStore) ReadAll(ctx context.Context, storedPath string) ([]byte, error) {
	object := strings.TrimPrefix(storedPath, "gs://"+s.bucket+"/")
	r, err := s.client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *GCSStore) Delete(ctx context.Context, storedPath string) error {
	object := strings.TrimPrefix(storedPath, "gs://"+s.bucket+"/")
	err := s.client.Bucket(s.bucket).Object(object).Delete(ctx)
	if err == gcs.ErrObjectNotExist {
		return nil
	}
	return err
}
