// Package storage persists uploaded media and hands back the reference
// (display name, storage key, location URL) the stores keep on posts and
// comments. The backend is a deployment-time choice: local disk or S3.
package storage

import (
	"context"
	"io"
	"path/filepath"

	"github.com/asafto/kdog-server/pkg/utils"
)

type File struct {
	Name     string // original file name as uploaded
	Key      string // storage key, "<rand>__<name>"
	Location string // URL the blob can be fetched from
}

type BlobStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (*File, error)
	// Open returns the blob contents and its content type.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

// newKey prefixes the (path-stripped) upload name with a random token so two
// uploads of the same file never collide.
func newKey(name string) string {
	return utils.NewID()[:12] + "__" + filepath.Base(name)
}
