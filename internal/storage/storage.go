// Package storage abstracts where uploaded listing media and support
// photos live. The default backend writes to a local directory served
// under /uploads; an S3 backend is selected with STORAGE_DRIVER=s3.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// IStorage defines the operations handlers and background tasks need.
// Save returns the public path stored on the document; Open reads a
// previously saved object back and Put overwrites it in place (used by
// the image normalization worker).
type IStorage interface {
	Save(ctx context.Context, folder, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, storedPath string) (io.ReadCloser, error)
	Put(ctx context.Context, storedPath string, r io.Reader) error
	Delete(ctx context.Context, storedPath string) error
}

// objectKey builds a collision-free key for an upload, keeping the
// original extension so content type can be inferred later.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)
}
