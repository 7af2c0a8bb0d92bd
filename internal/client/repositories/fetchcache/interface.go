// Package fetchcache persists time-bounded cached fetch results in the local
// database. Entries are keyed by a structured cache key rendered to a string
// and carry the resource name and store id so that all entries scoped to a
// store can be invalidated together when the active store changes.
package fetchcache

import (
	"context"
	"time"
)

// Entry is one cached fetch result.
type Entry struct {
	Key       string
	Resource  string
	StoreID   int64
	Payload   []byte
	FetchedAt time.Time
	TTL       time.Duration
}

// Valid reports whether the entry is still fresh at the given instant.
func (e *Entry) Valid(now time.Time) bool {
	return now.Sub(e.FetchedAt) < e.TTL
}

type Repository interface {
	// Get returns the entry for key if it exists and is still valid at now.
	// An expired entry is purged and reported as absent (nil, nil).
	Get(ctx context.Context, key string, now time.Time) (*Entry, error)
	// Put inserts or overwrites the entry for its key.
	Put(ctx context.Context, e *Entry) error
	// Delete removes the entry for key. Absent keys are not an error.
	Delete(ctx context.Context, key string) error
	// DeleteByStore removes every entry scoped to the given store.
	DeleteByStore(ctx context.Context, storeID int64) error
	// Clear removes all entries.
	Clear(ctx context.Context) error
}
