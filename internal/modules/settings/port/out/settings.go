package out

import "context"

// Store is the slice of a device key-value store that settings need.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// NamedStore labels a store with its backend for logging.
type NamedStore struct {
	Name  string
	Store Store
}
