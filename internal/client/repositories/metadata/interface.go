// Package metadata persists small key-value client state (the auth token,
// the last-known user snapshot, the selected store id) in the local database.
package metadata

import (
	"context"
)

// Well-known keys. The session store is the only writer of KeyToken and
// KeyUser; the tenant context is the only writer of KeyCurrentStoreID.
const (
	KeyToken          = "token"
	KeyUser           = "user"
	KeyCurrentStoreID = "current_store_id"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
