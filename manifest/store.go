package manifest

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/catlasdb/catlas/columnar"
	"github.com/catlasdb/catlas/errs"
	"github.com/catlasdb/catlas/format"
	"github.com/catlasdb/catlas/internal/options"
	"github.com/catlasdb/catlas/objstore"
)

// defaultFetchConcurrency bounds FetchMany when no option overrides it.
const defaultFetchConcurrency = 4

// Store persists manifest tables to an object store.
//
// Tables are written as compressed envelopes under content-addressed keys:
// the object id is derived from the envelope bytes, so identical manifests
// share one object and a loaded envelope can be trusted to match its id.
type Store struct {
	backend objstore.Store
	logger  *slog.Logger

	prefix      string
	compression format.CompressionType
	fetchLimit  int
	indexKind   RowIndexKind
}

// storeConfig holds the settings resolved from store options.
type storeConfig struct {
	logger      *slog.Logger
	prefix      string
	compression format.CompressionType
	fetchLimit  int
	indexKind   RowIndexKind
}

// StoreOption represents a functional option for configuring a Store.
type StoreOption = options.Option[*storeConfig]

// WithStoreLogger sets the structured logger for store operations. The
// default discards all output; pass a logger to see stores and loads.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return options.NoError(func(c *storeConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithStoreCompression sets the envelope compression for Put. The default
// is Zstd.
func WithStoreCompression(compression format.CompressionType) StoreOption {
	return options.New(func(c *storeConfig) error {
		if !compression.IsValid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidCompressionType, compression)
		}
		c.compression = compression

		return nil
	})
}

// WithFetchConcurrency bounds the number of concurrent loads FetchMany
// issues. The default is 4.
func WithFetchConcurrency(n int) StoreOption {
	return options.New(func(c *storeConfig) error {
		if n < 1 {
			return fmt.Errorf("fetch concurrency must be at least 1, got %d", n)
		}
		c.fetchLimit = n

		return nil
	})
}

// WithKeyPrefix sets a string prepended verbatim to every object key,
// e.g. "snapshots/manifests/".
func WithKeyPrefix(prefix string) StoreOption {
	return options.NoError(func(c *storeConfig) {
		c.prefix = prefix
	})
}

// WithStoreRowIndex selects the row index kind for tables the store
// loads. The default is IndexHash.
func WithStoreRowIndex(kind RowIndexKind) StoreOption {
	return options.New(func(c *storeConfig) error {
		if !kind.isValid() {
			return fmt.Errorf("%w: unknown row index kind %d", errs.ErrInvalidSchema, kind)
		}
		c.indexKind = kind

		return nil
	})
}

// NewStore creates a manifest store over the given object store backend.
func NewStore(backend objstore.Store, opts ...StoreOption) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("nil object store backend")
	}

	cfg := &storeConfig{
		logger:      slog.New(slog.DiscardHandler),
		compression: format.CompressionZstd,
		fetchLimit:  defaultFetchConcurrency,
		indexKind:   IndexHash,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Store{
		backend:     backend,
		logger:      cfg.logger,
		prefix:      cfg.prefix,
		compression: cfg.compression,
		fetchLimit:  cfg.fetchLimit,
		indexKind:   cfg.indexKind,
	}, nil
}

func (s *Store) objectKey(id format.ObjectID) string {
	return s.prefix + id.String()
}

// Put encodes the table to an envelope, derives its content-addressed id
// and writes it to the backend.
//
// Returns:
//   - ManifestRef: Ref covering the table's full region, with extents
//     computed from its coordinates
//   - error: Encoding or backend failures
func (s *Store) Put(ctx context.Context, table *Table) (ManifestRef, error) {
	if table == nil {
		return ManifestRef{}, fmt.Errorf("nil manifest table")
	}

	data, err := columnar.EncodeBatch(table.Batch(), columnar.WithCompression(s.compression))
	if err != nil {
		return ManifestRef{}, fmt.Errorf("encode manifest: %w", err)
	}

	id := format.ObjectIDFromContent(data)
	key := s.objectKey(id)
	if err := s.backend.Put(ctx, key, data); err != nil {
		return ManifestRef{}, fmt.Errorf("store manifest %s: %w", id, err)
	}

	s.logger.DebugContext(ctx, "manifest stored",
		"id", id.String(),
		"key", key,
		"rows", table.NumRows(),
		"bytes", len(data),
	)

	return ManifestRef{
		ID:      id,
		Region:  table.Region(),
		Flags:   format.RefFlagNone,
		Extents: table.Extents(),
	}, nil
}

// Get loads, decodes and validates the manifest stored under id.
//
// Returns:
//   - *Table: Decoded manifest table
//   - error: errs.ErrObjectNotFound if no object has that id; envelope or
//     schema errors if the object is not a manifest
func (s *Store) Get(ctx context.Context, id format.ObjectID) (*Table, error) {
	data, err := s.backend.Get(ctx, s.objectKey(id))
	if err != nil {
		return nil, err
	}

	batch, err := columnar.DecodeBatch(data)
	if err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", id, err)
	}
	table, err := FromBatch(batch, WithRowIndex(s.indexKind))
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", id, err)
	}

	s.logger.DebugContext(ctx, "manifest loaded",
		"id", id.String(),
		"rows", table.NumRows(),
	)

	return table, nil
}

// OpenRef loads the manifest a ref points to and validates the ref's
// region against the loaded row count. A stale ref whose region exceeds
// the manifest fails with errs.ErrRegionOutOfBounds.
func (s *Store) OpenRef(ctx context.Context, ref ManifestRef) (*Table, error) {
	table, err := s.Get(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	if err := ref.Validate(table.NumRows()); err != nil {
		s.logger.WarnContext(ctx, "stale manifest ref",
			"id", ref.ID.String(),
			"from", ref.Region.From,
			"to", ref.Region.To,
			"rows", table.NumRows(),
		)

		return nil, err
	}

	return table, nil
}

// FetchMany opens all refs with bounded concurrency and returns the
// tables in ref order. The first failure cancels the remaining loads and
// is returned.
func (s *Store) FetchMany(ctx context.Context, refs []ManifestRef) ([]*Table, error) {
	tables := make([]*Table, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchLimit)
	for i, ref := range refs {
		g.Go(func() error {
			table, err := s.OpenRef(ctx, ref)
			if err != nil {
				return err
			}
			tables[i] = table

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return tables, nil
}

// Delete removes the manifest stored under id. Deleting a missing id is
// not an error.
func (s *Store) Delete(ctx context.Context, id format.ObjectID) error {
	if err := s.backend.Delete(ctx, s.objectKey(id)); err != nil {
		return fmt.Errorf("delete manifest %s: %w", id, err)
	}

	s.logger.DebugContext(ctx, "manifest deleted", "id", id.String())

	return nil
}
