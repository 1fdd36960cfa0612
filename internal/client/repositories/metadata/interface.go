// Package metadata is the client's small key-value store. The CLI keeps the
// last authenticated session in it.
package metadata

import (
	"context"
)

type Repository interface {
	// Get reports found=false, with no error, when key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for an absent key.
	Delete(ctx context.Context, key string) error
}
