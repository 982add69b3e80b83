package service

import (
	"context"
	"io"
)

// ArchiveStorage keeps opaque files such as backup snapshots.
type ArchiveStorage interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
