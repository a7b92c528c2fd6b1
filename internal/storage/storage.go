package storage

import (
	"context"
	"io"
)

type Uploader interface {
	// Upload writes the object and returns its canonical stored path. The path
	// is recorded on the CV record and is the only location tried on delete.
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

type Deleter interface {
	Delete(ctx context.Context, storedPath string) error
}

type Reader interface {
	ReadAll(ctx context.Context, storedPath string) ([]byte, error)
}

type Store interface {
	Uploader
	Deleter
	Reader
}
