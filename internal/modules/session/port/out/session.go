package out

import "context"

// KVStore is the byte-oriented device store behind a session repository.
// Set must replace the value of a key atomically: a failed Set leaves the
// previous value readable.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
