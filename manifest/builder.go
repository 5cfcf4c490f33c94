package manifest

import (
	"context"
	"fmt"
	"iter"

	"github.com/catlasdb/catlas/columnar"
	"github.com/catlasdb/catlas/errs"
	"github.com/catlasdb/catlas/format"
	"github.com/catlasdb/catlas/internal/options"
)

// Build consumes a fallible sequence of chunk records and seals them into a
// manifest table. Construction is all or nothing: the first failure aborts
// the build, discards everything accumulated so far, and is returned to the
// caller.
//
// Records land in the table in arrival order, which fixes their row
// offsets. The sequence is pulled lazily, so a failing source stops being
// consumed at the failing element.
//
// Parameters:
//   - ctx: Cancels the build between records
//   - records: Source sequence; an error element aborts the build
//   - opts: Optional table settings (row index kind)
//
// Returns:
//   - *Table: Sealed manifest table
//   - error: ctx.Err() on cancellation, errs.ErrSourceFailure wrapping the
//     source error, or errs.ErrMalformedRow for a record with no payload
func Build(ctx context.Context, records iter.Seq2[ChunkInfo, error], opts ...TableOption) (*Table, error) {
	cfg := &tableConfig{indexKind: IndexHash}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	nodeIDs := columnar.NewUint32Builder()
	coords := columnar.NewBinaryBuilder()
	offsets := columnar.NewUint64Builder()
	lengths := columnar.NewUint64Builder()
	inline := columnar.NewBinaryBuilder()
	chunkIDs := columnar.NewFixedBinaryBuilder(format.ObjectIDSize)
	paths := columnar.NewStringBuilder()
	extra := columnar.NewStringBuilder()

	row := 0
	for info, err := range records {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrSourceFailure, err)
		}

		nodeIDs.Append(uint32(info.NodeID))
		coords.Append(info.Coords.Bytes())
		lengths.Append(info.Payload.Length())

		switch info.Payload.Kind() {
		case PayloadInline:
			data, _ := info.Payload.Inline()
			offsets.AppendNull()
			inline.Append(data)
			chunkIDs.AppendNull()
			paths.AppendNull()
		case PayloadVirtual:
			location, offset, _, _ := info.Payload.Virtual()
			offsets.Append(offset)
			inline.AppendNull()
			chunkIDs.AppendNull()
			paths.Append(location)
		case PayloadRef:
			id, offset, _, _ := info.Payload.Ref()
			offsets.Append(offset)
			inline.AppendNull()
			chunkIDs.Append(id.Bytes())
			paths.AppendNull()
		default:
			return nil, fmt.Errorf("%w: record %d has no payload variant", errs.ErrMalformedRow, row)
		}

		extra.AppendNull()
		row++
	}
	if cerr := ctx.Err(); cerr != nil {
		return nil, cerr
	}

	coordArr, err := coords.Build()
	if err != nil {
		return nil, err
	}
	inlineArr, err := inline.Build()
	if err != nil {
		return nil, err
	}
	chunkIDArr, err := chunkIDs.Build()
	if err != nil {
		return nil, err
	}
	pathArr, err := paths.Build()
	if err != nil {
		return nil, err
	}
	extraArr, err := extra.Build()
	if err != nil {
		return nil, err
	}

	batch, err := columnar.NewBatch(tableSchema, []columnar.Array{
		nodeIDs.Build(),
		coordArr,
		offsets.Build(),
		lengths.Build(),
		inlineArr,
		chunkIDArr,
		pathArr,
		extraArr,
	})
	if err != nil {
		return nil, err
	}

	return newTable(batch, cfg)
}

// RecordSeq adapts a fixed set of chunk records into the fallible sequence
// shape Build consumes. Handy for in-memory sources and tests.
func RecordSeq(infos ...ChunkInfo) iter.Seq2[ChunkInfo, error] {
	return func(yield func(ChunkInfo, error) bool) {
		for _, info := range infos {
			if !yield(info, nil) {
				return
			}
		}
	}
}
