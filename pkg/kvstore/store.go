package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned when a logical key has no stored value.
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Store is the session-scoped key-value surface the storefront persists
// through: one JSON document per logical key, last write wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
