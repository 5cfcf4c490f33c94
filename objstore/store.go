package objstore

import "context"

// Store is the object storage interface the manifest layer persists
// through. Objects are immutable blobs addressed by key; keys may contain
// '/' separators, which the List prefix respects but the store does not
// otherwise interpret.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Put writes data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the object stored under key. Missing keys fail with an
	// error satisfying errors.Is(err, errs.ErrObjectNotFound).
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object under key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// List returns the keys starting with prefix, in lexicographic order.
	List(ctx context.Context, prefix string) ([]string, error)
}
