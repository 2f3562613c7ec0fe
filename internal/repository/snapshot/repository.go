package snapshot

import (
	"context"
)

// Repository stores serialized cart snapshots under string keys. Get returns
// domain.ErrNotFound for keys that were never written.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}
