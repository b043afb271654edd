package assets

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store is the binary asset collaborator: put-by-name returning a stable
// retrievable URI, delete-by-reference. No versioning.
type Store interface {
	Put(ctx context.Context, name string, content io.Reader) (string, error)
	Delete(ctx context.Context, uri string) error
}

// Upload carries one incoming image file.
type Upload struct {
	Filename string
	Content  io.Reader
}

// ObjectName derives a storage name from the current time plus a random
// component. Collisions are possible in theory, negligible in practice.
func ObjectName(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("products/%d_%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}
