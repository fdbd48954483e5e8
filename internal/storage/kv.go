package storage

import (
	"context"
	"errors"
)

// Keys of the durable client state slots.
const (
	KeyCart              = "cart"
	KeyPendingOrder      = "pendingOrder"
	KeyAccessToken       = "ACCESS_TOKEN"
	KeyRefreshToken      = "REFRESH_TOKEN"
	KeyRefreshTokenAdmin = "REFRESH_TOKEN_ADMIN"
)

var ErrNotFound = errors.New("key not found")

// KV is the durable key-value slot behind the cart snapshot, the pending
// order and the session tokens. Values are opaque bytes (JSON or raw token
// strings); callers own the encoding.
type KV interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Watcher is implemented by backends that can signal writes made by another
// process or tab sharing the same slots. The returned channel carries the
// changed key and is closed when ctx ends.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}
