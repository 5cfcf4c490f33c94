package manifest

import (
	"fmt"
	"iter"

	"github.com/catlasdb/catlas/columnar"
	"github.com/catlasdb/catlas/errs"
	"github.com/catlasdb/catlas/format"
	"github.com/catlasdb/catlas/internal/options"
)

// Table is a sealed manifest: an immutable columnar batch of chunk records
// plus a derived lookup index.
//
// Tables are produced by Build or FromBatch and never change afterwards.
// All operations are safe for unsynchronized concurrent readers; scan state
// is per call.
type Table struct {
	batch *columnar.Batch
	rows  int

	nodeIDs  *columnar.Uint32Array
	coords   *columnar.BinaryArray
	offsets  *columnar.Uint64Array
	lengths  *columnar.Uint64Array
	inline   *columnar.BinaryArray
	chunkIDs *columnar.FixedBinaryArray
	paths    *columnar.StringArray

	index rowIndex
}

// tableConfig holds the settings resolved from table options.
type tableConfig struct {
	indexKind RowIndexKind
}

// TableOption represents a functional option for configuring table
// construction, accepted by Build and FromBatch.
type TableOption = options.Option[*tableConfig]

// WithRowIndex selects the lookup index built for the table. The default
// is IndexHash.
func WithRowIndex(kind RowIndexKind) TableOption {
	return options.New(func(c *tableConfig) error {
		if !kind.isValid() {
			return fmt.Errorf("%w: unknown row index kind %d", errs.ErrInvalidSchema, kind)
		}
		c.indexKind = kind

		return nil
	})
}

// FromBatch wraps an existing columnar batch as a manifest table.
//
// The batch must conform to Schema() exactly: same column names, order,
// types, nullability and widths. Values in the reserved extra column are
// tolerated and ignored.
//
// Parameters:
//   - batch: Sealed batch to wrap
//   - opts: Optional table settings (row index kind)
//
// Returns:
//   - *Table: Manifest view over the batch
//   - error: errs.ErrInvalidSchema if the batch schema does not match
func FromBatch(batch *columnar.Batch, opts ...TableOption) (*Table, error) {
	cfg := &tableConfig{indexKind: IndexHash}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return newTable(batch, cfg)
}

func newTable(batch *columnar.Batch, cfg *tableConfig) (*Table, error) {
	if batch == nil {
		return nil, fmt.Errorf("%w: nil batch", errs.ErrInvalidSchema)
	}
	if !batch.Schema().Equal(tableSchema) {
		return nil, fmt.Errorf("%w: batch schema does not match the manifest schema", errs.ErrInvalidSchema)
	}

	t := &Table{
		batch:    batch,
		rows:     batch.NumRows(),
		nodeIDs:  batch.Column(colNodeID).(*columnar.Uint32Array),
		coords:   batch.Column(colCoords).(*columnar.BinaryArray),
		offsets:  batch.Column(colOffset).(*columnar.Uint64Array),
		lengths:  batch.Column(colLength).(*columnar.Uint64Array),
		inline:   batch.Column(colInlineData).(*columnar.BinaryArray),
		chunkIDs: batch.Column(colChunkID).(*columnar.FixedBinaryArray),
		paths:    batch.Column(colVirtualPath).(*columnar.StringArray),
	}
	t.index = newRowIndex(cfg.indexKind, t)

	return t, nil
}

// NumRows returns the number of chunk records in the table.
func (t *Table) NumRows() int {
	return t.rows
}

// Region returns the full row region [0, NumRows()).
func (t *Table) Region() format.TableRegion {
	return format.Region(0, format.TableOffset(t.rows))
}

// Batch returns the underlying columnar batch. The batch is shared and
// must not be modified.
func (t *Table) Batch() *columnar.Batch {
	return t.batch
}

// FindRow searches the rows of region, in row order, for the first row
// whose encoded coordinates equal coords.
//
// An ill-formed region (from > to, or to beyond the row count) finds
// nothing; bounds problems are not distinguishable from absence here
// because region scoping is a normal lookup input.
//
// Parameters:
//   - coords: Chunk coordinates to look up
//   - region: Half-open row interval to search
//
// Returns:
//   - format.TableOffset: Absolute row offset of the first match
//   - bool: Whether a match was found
func (t *Table) FindRow(coords format.ChunkIndices, region format.TableRegion) (format.TableOffset, bool) {
	if !region.WellFormed(t.rows) {
		return 0, false
	}

	return t.index.findRow(coords.Bytes(), region)
}

// DecodeRow reconstructs the chunk record at the given absolute row offset.
//
// The payload variant is resolved from the nullable variant columns under
// the mutual-exclusion rule: exactly one of inline_data, virtual_path and
// chunk_id must be non-null, and the offset column must be null exactly
// when the row is inline. Rows violating the rule decode to an error, never
// to a guessed variant.
//
// Parameters:
//   - offset: Absolute row offset
//
// Returns:
//   - ChunkInfo: Decoded chunk record
//   - error: errs.ErrRegionOutOfBounds if offset is not below the row
//     count, errs.ErrMalformedRow if the row violates the variant rule
func (t *Table) DecodeRow(offset format.TableOffset) (ChunkInfo, error) {
	if int(offset) >= t.rows {
		return ChunkInfo{}, fmt.Errorf("%w: row %d of a %d-row table", errs.ErrRegionOutOfBounds, offset, t.rows)
	}

	i := int(offset)
	info := ChunkInfo{
		NodeID: format.NodeID(t.nodeIDs.Value(i)),
		Coords: format.IndicesFromBytes(t.coords.Value(i)),
	}

	hasInline := !t.inline.IsNull(i)
	hasPath := !t.paths.IsNull(i)
	hasChunkID := !t.chunkIDs.IsNull(i)
	hasOffset := !t.offsets.IsNull(i)

	variants := 0
	for _, present := range [...]bool{hasInline, hasPath, hasChunkID} {
		if present {
			variants++
		}
	}
	if variants != 1 {
		return ChunkInfo{}, fmt.Errorf("%w: row %d has %d variant columns set, want exactly 1",
			errs.ErrMalformedRow, offset, variants)
	}

	length := t.lengths.Value(i)
	switch {
	case hasInline:
		if hasOffset {
			return ChunkInfo{}, fmt.Errorf("%w: row %d is inline but carries an offset", errs.ErrMalformedRow, offset)
		}
		info.Payload = InlinePayload(t.inline.Value(i))
	case hasPath:
		if !hasOffset {
			return ChunkInfo{}, fmt.Errorf("%w: row %d is virtual but has no offset", errs.ErrMalformedRow, offset)
		}
		info.Payload = VirtualPayload(t.paths.Value(i), t.offsets.Value(i), length)
	default:
		if !hasOffset {
			return ChunkInfo{}, fmt.Errorf("%w: row %d is a chunk ref but has no offset", errs.ErrMalformedRow, offset)
		}
		id, err := format.ObjectIDFromBytes(t.chunkIDs.Value(i))
		if err != nil {
			return ChunkInfo{}, fmt.Errorf("%w: row %d chunk id: %v", errs.ErrMalformedRow, offset, err)
		}
		info.Payload = RefPayload(id, t.offsets.Value(i), length)
	}

	return info, nil
}

// GetChunkInfo looks up coords within region and decodes the matching row.
//
// Returns:
//   - ChunkInfo: Decoded chunk record when found
//   - bool: Whether a row was found and decoded
//   - error: Decode errors from the matched row; nil when no row matches
func (t *Table) GetChunkInfo(coords format.ChunkIndices, region format.TableRegion) (ChunkInfo, bool, error) {
	offset, found := t.FindRow(coords, region)
	if !found {
		return ChunkInfo{}, false, nil
	}

	info, err := t.DecodeRow(offset)
	if err != nil {
		return ChunkInfo{}, false, err
	}

	return info, true, nil
}

// All iterates every chunk record in ascending row order.
//
// Each call returns an independent, restartable sequence. A malformed row
// yields its decode error for that position and iteration continues with
// the next row.
func (t *Table) All() iter.Seq2[ChunkInfo, error] {
	return t.Range(0, format.TableOffset(t.rows))
}

// Range iterates the chunk records of [from, to) in ascending row order.
//
// An ill-formed range (from > to, or to beyond the row count) yields a
// single errs.ErrRegionOutOfBounds element; nothing is clamped. Per-row
// decode failures yield an error element for that row and iteration
// continues.
func (t *Table) Range(from, to format.TableOffset) iter.Seq2[ChunkInfo, error] {
	return func(yield func(ChunkInfo, error) bool) {
		region := format.Region(from, to)
		if !region.WellFormed(t.rows) {
			yield(ChunkInfo{}, fmt.Errorf("%w: range [%d, %d) over a %d-row table",
				errs.ErrRegionOutOfBounds, from, to, t.rows))

			return
		}

		for offset := from; offset < to; offset++ {
			if !yield(t.DecodeRow(offset)) {
				return
			}
		}
	}
}
