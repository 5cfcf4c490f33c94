package manifest

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catlasdb/catlas/errs"
	"github.com/catlasdb/catlas/format"
)

func TestBuild_Empty(t *testing.T) {
	table, err := Build(context.Background(), RecordSeq())
	require.NoError(t, err)
	require.Zero(t, table.NumRows())

	_, found := table.FindRow(format.ChunkIndices{0}, table.Region())
	require.False(t, found)

	count := 0
	for range table.All() {
		count++
	}
	require.Zero(t, count)
}

func TestBuild_ArrivalOrderFixesRows(t *testing.T) {
	records := fixtureRecords()
	table, err := Build(context.Background(), RecordSeq(records...))
	require.NoError(t, err)

	for i, want := range records {
		info, derr := table.DecodeRow(format.TableOffset(i))
		require.NoError(t, derr)
		requireChunkInfoEqual(t, want, info)
	}
}

func TestBuild_VariantFidelity(t *testing.T) {
	records := []ChunkInfo{
		{
			NodeID:  7,
			Coords:  format.ChunkIndices{3, 1},
			Payload: InlinePayload([]byte{0xDE, 0xAD}),
		},
		{
			NodeID:  7,
			Coords:  format.ChunkIndices{3, 2},
			Payload: RefPayload(format.ObjectIDFromContent([]byte("seg")), 8192, 4096),
		},
		{
			NodeID:  8,
			Coords:  format.ChunkIndices{0, 0},
			Payload: VirtualPayload("gs://bucket/older.zarr/c/0.0", 0, 65536),
		},
	}

	table, err := Build(context.Background(), RecordSeq(records...))
	require.NoError(t, err)

	for i, want := range records {
		info, derr := table.DecodeRow(format.TableOffset(i))
		require.NoError(t, derr)
		requireChunkInfoEqual(t, want, info)
	}
}

// failAfter yields n good records, then one error element.
func failAfter(records []ChunkInfo, n int, failure error) iter.Seq2[ChunkInfo, error] {
	return func(yield func(ChunkInfo, error) bool) {
		for _, info := range records[:n] {
			if !yield(info, nil) {
				return
			}
		}
		yield(ChunkInfo{}, failure)
	}
}

func TestBuild_ShortCircuitsOnSourceFailure(t *testing.T) {
	records := fixtureRecords()
	cause := errors.New("fetch refused")

	pulled := 0
	src := func(yield func(ChunkInfo, error) bool) {
		for i, info := range records {
			pulled++
			if i == 2 {
				yield(ChunkInfo{}, cause)

				return
			}
			if !yield(info, nil) {
				return
			}
		}
	}

	table, err := Build(context.Background(), src)
	require.Nil(t, table)
	require.ErrorIs(t, err, errs.ErrSourceFailure)
	require.ErrorIs(t, err, cause)
	require.Equal(t, 3, pulled, "source must not be pulled past the failing element")
}

func TestBuild_FailAfterHelper(t *testing.T) {
	table, err := Build(context.Background(), failAfter(fixtureRecords(), 2, errors.New("boom")))
	require.Nil(t, table)
	require.ErrorIs(t, err, errs.ErrSourceFailure)
}

func TestBuild_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	records := fixtureRecords()

	src := func(yield func(ChunkInfo, error) bool) {
		for i, info := range records {
			if i == 2 {
				cancel()
			}
			if !yield(info, nil) {
				return
			}
		}
	}

	table, err := Build(ctx, src)
	require.Nil(t, table)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuild_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table, err := Build(ctx, RecordSeq(fixtureRecords()...))
	require.Nil(t, table)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuild_RejectsPayloadlessRecord(t *testing.T) {
	records := []ChunkInfo{
		{NodeID: 1, Coords: format.ChunkIndices{0}, Payload: InlinePayload([]byte("ok"))},
		{NodeID: 1, Coords: format.ChunkIndices{1}},
	}

	table, err := Build(context.Background(), RecordSeq(records...))
	require.Nil(t, table)
	require.ErrorIs(t, err, errs.ErrMalformedRow)
}

func TestBuild_InvalidOptionFailsBeforeConsuming(t *testing.T) {
	pulled := 0
	src := func(yield func(ChunkInfo, error) bool) {
		pulled++
		yield(fixtureRecords()[0], nil)
	}

	_, err := Build(context.Background(), src, WithRowIndex(RowIndexKind(42)))
	require.Error(t, err)
	require.Zero(t, pulled)
}

func TestRecordSeq_EarlyStop(t *testing.T) {
	records := fixtureRecords()

	count := 0
	for info, err := range RecordSeq(records...) {
		require.NoError(t, err)
		require.Equal(t, PayloadRef, info.Payload.Kind())
		count++
		if count == 2 {
			break
		}
	}
	require.Equal(t, 2, count)
}
