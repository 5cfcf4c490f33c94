package objstore

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle is a Store decorator that limits the aggregate operation rate
// against the wrapped store. Every operation first waits for a limiter
// token, honoring context cancellation, then delegates.
//
// Useful in front of remote backends with request quotas, and in tests
// that need a slow store.
type Throttle struct {
	inner   Store
	limiter *rate.Limiter
}

var _ Store = (*Throttle)(nil)

// NewThrottle wraps inner with an operation rate limit of limit
// operations per second and the given burst size.
func NewThrottle(inner Store, limit rate.Limit, burst int) *Throttle {
	return &Throttle{
		inner:   inner,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Put writes data under key, replacing any existing object.
func (t *Throttle) Put(ctx context.Context, key string, data []byte) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	return t.inner.Put(ctx, key, data)
}

// Get returns the object stored under key.
func (t *Throttle) Get(ctx context.Context, key string) ([]byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return t.inner.Get(ctx, key)
}

// Delete removes the object under key, if present.
func (t *Throttle) Delete(ctx context.Context, key string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	return t.inner.Delete(ctx, key)
}

// Exists reports whether an object is stored under key.
func (t *Throttle) Exists(ctx context.Context, key string) (bool, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return false, err
	}

	return t.inner.Exists(ctx, key)
}

// List returns the keys starting with prefix, in lexicographic order.
func (t *Throttle) List(ctx context.Context, prefix string) ([]string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return t.inner.List(ctx, prefix)
}
