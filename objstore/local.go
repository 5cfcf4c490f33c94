package objstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/catlasdb/catlas/errs"
)

// lockRetryDelay is the poll interval while waiting for the write lock
// held by another process.
const lockRetryDelay = 25 * time.Millisecond

// Local is a Store that keeps one file per object under a root directory.
// Key '/' separators become directories.
//
// Writes go through a temp file and an atomic rename, so readers always
// see a complete object. Writers across processes are serialized by an
// advisory file lock in the root directory.
type Local struct {
	root string
	lock *flock.Flock
}

var _ Store = (*Local)(nil)

// NewLocal creates a store rooted at dir, creating the directory if
// needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create object store root: %w", err)
	}

	return &Local{
		root: dir,
		lock: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

// Root returns the store's root directory.
func (l *Local) Root() string {
	return l.root
}

// filePath maps an object key to its path under the root. Keys that are
// empty, rooted, or escape the root via ".." are rejected.
func (l *Local) filePath(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean("/"+key) != "/"+key {
		return "", fmt.Errorf("invalid object key %q", key)
	}

	return filepath.Join(l.root, filepath.FromSlash(key)), nil
}

// Put writes data under key, replacing any existing object.
func (l *Local) Put(ctx context.Context, key string, data []byte) error {
	target, err := l.filePath(key)
	if err != nil {
		return err
	}

	locked, err := l.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire store lock: not acquired")
	}
	defer func() { _ = l.lock.Unlock() }()

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())

		return err
	}

	return nil
}

// Get returns the object stored under key.
func (l *Local) Get(_ context.Context, key string) ([]byte, error) {
	target, err := l.filePath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", errs.ErrObjectNotFound, key)
	}

	return data, err
}

// Delete removes the object under key, if present.
func (l *Local) Delete(ctx context.Context, key string) error {
	target, err := l.filePath(key)
	if err != nil {
		return err
	}

	locked, err := l.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire store lock: not acquired")
	}
	defer func() { _ = l.lock.Unlock() }()

	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// Exists reports whether an object is stored under key.
func (l *Local) Exists(_ context.Context, key string) (bool, error) {
	target, err := l.filePath(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return info.Mode().IsRegular(), nil
}

// List returns the keys starting with prefix, in lexicographic order.
// Lock and temp files are never listed.
func (l *Local) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	return keys, nil
}
