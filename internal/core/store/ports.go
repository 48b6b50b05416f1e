package store

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Fetch when the collection has no document under the key.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the port to the remote document tree.
// Collections are addressed by slash-joined paths (see Path) and hold
// documents keyed by provider-generated strings.
type DocumentStore interface {
	// Put writes doc under key in collection, replacing any previous value.
	Put(ctx context.Context, collection, key string, doc []byte) error

	// Create writes doc under key only if the key is absent.
	// It reports whether the document was written.
	Create(ctx context.Context, collection, key string, doc []byte) (bool, error)

	// Fetch reads a single document. Returns ErrNotFound if it does not exist.
	Fetch(ctx context.Context, collection, key string) ([]byte, error)

	// List returns every document of a collection keyed by document key.
	// A missing collection yields an empty map.
	List(ctx context.Context, collection string) (map[string][]byte, error)

	// ListMany lists several collections in one round trip.
	// The result is index-aligned with collections.
	ListMany(ctx context.Context, collections []string) ([]map[string][]byte, error)

	// Remove deletes key from collection and drops the given child collections.
	// Removing a missing key is not an error.
	Remove(ctx context.Context, collection, key string, children ...string) error

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}

// Path joins segments into a collection path, e.g. Path("users", uid, "orders").
func Path(segments ...string) string {
	return strings.Join(segments, "/")
}
