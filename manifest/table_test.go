package manifest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catlasdb/catlas/columnar"
	"github.com/catlasdb/catlas/errs"
	"github.com/catlasdb/catlas/format"
)

// fixtureRecords returns the five-record reference fixture:
//
//	row 0  node 1  (0,0,0)  Ref
//	row 1  node 1  (0,0,1)  Ref
//	row 2  node 1  (1,0,1)  Ref
//	row 3  node 2  (0,0,0)  Inline "hello"
//	row 4  node 2  (0,0,0)  Virtual "s3://foo.bar" offset 99 length 100
func fixtureRecords() []ChunkInfo {
	return []ChunkInfo{
		{
			NodeID:  1,
			Coords:  format.ChunkIndices{0, 0, 0},
			Payload: RefPayload(format.ObjectIDFromContent([]byte("chunk-0")), 0, 100),
		},
		{
			NodeID:  1,
			Coords:  format.ChunkIndices{0, 0, 1},
			Payload: RefPayload(format.ObjectIDFromContent([]byte("chunk-1")), 100, 100),
		},
		{
			NodeID:  1,
			Coords:  format.ChunkIndices{1, 0, 1},
			Payload: RefPayload(format.ObjectIDFromContent([]byte("chunk-2")), 200, 100),
		},
		{
			NodeID:  2,
			Coords:  format.ChunkIndices{0, 0, 0},
			Payload: InlinePayload([]byte("hello")),
		},
		{
			NodeID:  2,
			Coords:  format.ChunkIndices{0, 0, 0},
			Payload: VirtualPayload("s3://foo.bar", 99, 100),
		},
	}
}

func buildFixtureTable(t *testing.T, opts ...TableOption) *Table {
	t.Helper()

	table, err := Build(context.Background(), RecordSeq(fixtureRecords()...), opts...)
	require.NoError(t, err)
	require.Equal(t, 5, table.NumRows())

	return table
}

// requireChunkInfoEqual compares a decoded record against the original,
// including every payload field.
func requireChunkInfoEqual(t *testing.T, want, got ChunkInfo) {
	t.Helper()

	require.Equal(t, want.NodeID, got.NodeID)
	require.True(t, want.Coords.Equal(got.Coords), "coords %s != %s", got.Coords, want.Coords)
	require.Equal(t, want.Payload.Kind(), got.Payload.Kind())
	require.Equal(t, want.Payload, got.Payload)
}

// indexKinds runs the subtest once per lookup index implementation; both
// must answer identically.
func indexKinds(t *testing.T, fn func(t *testing.T, kind RowIndexKind)) {
	t.Helper()

	for _, kind := range []RowIndexKind{IndexHash, IndexScan} {
		t.Run(kind.String()+" index", func(t *testing.T) {
			fn(t, kind)
		})
	}
}

func TestGetChunkInfo_RegionScoping(t *testing.T) {
	records := fixtureRecords()

	indexKinds(t, func(t *testing.T, kind RowIndexKind) {
		table := buildFixtureTable(t, WithRowIndex(kind))

		c000 := format.ChunkIndices{0, 0, 0}
		c001 := format.ChunkIndices{0, 0, 1}
		c101 := format.ChunkIndices{1, 0, 1}

		t.Run("region excludes row 0", func(t *testing.T) {
			_, found, err := table.GetChunkInfo(c000, format.Region(1, 3))
			require.NoError(t, err)
			require.False(t, found)
		})

		t.Run("first ref found in full prefix", func(t *testing.T) {
			info, found, err := table.GetChunkInfo(c000, format.Region(0, 3))
			require.NoError(t, err)
			require.True(t, found)
			requireChunkInfoEqual(t, records[0], info)
		})

		t.Run("second ref found from row 1", func(t *testing.T) {
			info, found, err := table.GetChunkInfo(c001, format.Region(1, 3))
			require.NoError(t, err)
			require.True(t, found)
			requireChunkInfoEqual(t, records[1], info)
		})

		t.Run("ill-formed region finds nothing", func(t *testing.T) {
			_, found, err := table.GetChunkInfo(c101, format.Region(4, 3))
			require.NoError(t, err)
			require.False(t, found)
		})

		t.Run("inline record", func(t *testing.T) {
			info, found, err := table.GetChunkInfo(c000, format.Region(3, 4))
			require.NoError(t, err)
			require.True(t, found)
			requireChunkInfoEqual(t, records[3], info)
		})

		t.Run("virtual record", func(t *testing.T) {
			info, found, err := table.GetChunkInfo(c000, format.Region(4, 5))
			require.NoError(t, err)
			require.True(t, found)
			requireChunkInfoEqual(t, records[4], info)
		})
	})
}

func TestFindRow(t *testing.T) {
	indexKinds(t, func(t *testing.T, kind RowIndexKind) {
		table := buildFixtureTable(t, WithRowIndex(kind))
		c000 := format.ChunkIndices{0, 0, 0}

		t.Run("first match in row order wins", func(t *testing.T) {
			offset, found := table.FindRow(c000, table.Region())
			require.True(t, found)
			require.Equal(t, format.TableOffset(0), offset)
		})

		t.Run("region restricts candidates", func(t *testing.T) {
			offset, found := table.FindRow(c000, format.Region(1, 4))
			require.True(t, found)
			require.Equal(t, format.TableOffset(3), offset)
		})

		t.Run("absent coordinates", func(t *testing.T) {
			_, found := table.FindRow(format.ChunkIndices{9, 9, 9}, table.Region())
			require.False(t, found)
		})

		t.Run("region beyond row count finds nothing", func(t *testing.T) {
			_, found := table.FindRow(c000, format.Region(0, 6))
			require.False(t, found)
		})

		t.Run("from greater than to finds nothing", func(t *testing.T) {
			_, found := table.FindRow(c000, format.Region(4, 3))
			require.False(t, found)
		})

		t.Run("empty region finds nothing", func(t *testing.T) {
			_, found := table.FindRow(c000, format.Region(2, 2))
			require.False(t, found)
		})

		t.Run("rank mismatch finds nothing", func(t *testing.T) {
			_, found := table.FindRow(format.ChunkIndices{0, 0}, table.Region())
			require.False(t, found)
		})
	})
}

func TestDecodeRow(t *testing.T) {
	records := fixtureRecords()
	table := buildFixtureTable(t)

	t.Run("all rows round trip", func(t *testing.T) {
		for i, want := range records {
			info, err := table.DecodeRow(format.TableOffset(i))
			require.NoError(t, err)
			requireChunkInfoEqual(t, want, info)
		}
	})

	t.Run("offset beyond rows", func(t *testing.T) {
		_, err := table.DecodeRow(5)
		require.ErrorIs(t, err, errs.ErrRegionOutOfBounds)
	})
}

func TestTable_All(t *testing.T) {
	records := fixtureRecords()
	table := buildFixtureTable(t)

	var got []ChunkInfo
	for info, err := range table.All() {
		require.NoError(t, err)
		got = append(got, info)
	}
	require.Len(t, got, len(records))
	for i, want := range records {
		requireChunkInfoEqual(t, want, got[i])
	}

	t.Run("sequence restarts", func(t *testing.T) {
		count := 0
		for range table.All() {
			count++
		}
		require.Equal(t, len(records), count)
	})

	t.Run("early break", func(t *testing.T) {
		count := 0
		for _, err := range table.All() {
			require.NoError(t, err)
			count++
			if count == 2 {
				break
			}
		}
		require.Equal(t, 2, count)
	})
}

func TestTable_Range(t *testing.T) {
	records := fixtureRecords()
	table := buildFixtureTable(t)

	t.Run("subrange in order", func(t *testing.T) {
		var got []ChunkInfo
		for info, err := range table.Range(1, 4) {
			require.NoError(t, err)
			got = append(got, info)
		}
		require.Len(t, got, 3)
		for i, want := range records[1:4] {
			requireChunkInfoEqual(t, want, got[i])
		}
	})

	t.Run("empty range", func(t *testing.T) {
		count := 0
		for range table.Range(2, 2) {
			count++
		}
		require.Zero(t, count)
	})

	t.Run("ill-formed range yields one error", func(t *testing.T) {
		var rowErrs []error
		for _, err := range table.Range(4, 3) {
			rowErrs = append(rowErrs, err)
		}
		require.Len(t, rowErrs, 1)
		require.ErrorIs(t, rowErrs[0], errs.ErrRegionOutOfBounds)
	})

	t.Run("range beyond rows yields one error", func(t *testing.T) {
		var rowErrs []error
		for _, err := range table.Range(0, 6) {
			rowErrs = append(rowErrs, err)
		}
		require.Len(t, rowErrs, 1)
		require.ErrorIs(t, rowErrs[0], errs.ErrRegionOutOfBounds)
	})
}

func TestFromBatch(t *testing.T) {
	t.Run("round trip through batch", func(t *testing.T) {
		table := buildFixtureTable(t)

		again, err := FromBatch(table.Batch())
		require.NoError(t, err)
		require.Equal(t, table.NumRows(), again.NumRows())

		info, found, err := again.GetChunkInfo(format.ChunkIndices{0, 0, 1}, again.Region())
		require.NoError(t, err)
		require.True(t, found)
		requireChunkInfoEqual(t, fixtureRecords()[1], info)
	})

	t.Run("nil batch", func(t *testing.T) {
		_, err := FromBatch(nil)
		require.ErrorIs(t, err, errs.ErrInvalidSchema)
	})

	t.Run("wrong schema", func(t *testing.T) {
		ids := columnar.NewUint32Builder()
		ids.Append(1)
		schema := columnar.MustSchema([]columnar.Field{{Name: "id", Type: columnar.TypeUint32}})
		batch, err := columnar.NewBatch(schema, []columnar.Array{ids.Build()})
		require.NoError(t, err)

		_, err = FromBatch(batch)
		require.ErrorIs(t, err, errs.ErrInvalidSchema)
	})

	t.Run("invalid index kind", func(t *testing.T) {
		table := buildFixtureTable(t)

		_, err := FromBatch(table.Batch(), WithRowIndex(RowIndexKind(9)))
		require.Error(t, err)
	})
}

func TestTable_Region(t *testing.T) {
	table := buildFixtureTable(t)
	require.Equal(t, format.Region(0, 5), table.Region())

	empty, err := Build(context.Background(), RecordSeq())
	require.NoError(t, err)
	require.Equal(t, format.Region(0, 0), empty.Region())
}

// malformedBatch hand-assembles rows that violate the payload rule, which
// the builder itself can never produce.
//
//	row 0  no variant column set
//	row 1  inline and virtual both set
//	row 2  inline with a spurious offset
//	row 3  virtual without an offset
//	row 4  valid inline row
func malformedBatch(t *testing.T) *columnar.Batch {
	t.Helper()

	nodeIDs := columnar.NewUint32Builder()
	coords := columnar.NewBinaryBuilder()
	offsets := columnar.NewUint64Builder()
	lengths := columnar.NewUint64Builder()
	inline := columnar.NewBinaryBuilder()
	chunkIDs := columnar.NewFixedBinaryBuilder(format.ObjectIDSize)
	paths := columnar.NewStringBuilder()
	extra := columnar.NewStringBuilder()

	for i := range 5 {
		nodeIDs.Append(uint32(i))
		coords.Append(format.ChunkIndices{uint64(i)}.Bytes())
		lengths.Append(4)
		chunkIDs.AppendNull()
		extra.AppendNull()
	}

	// Row 0: nothing set.
	offsets.AppendNull()
	inline.AppendNull()
	paths.AppendNull()
	// Row 1: two variants at once.
	offsets.Append(7)
	inline.Append([]byte("data"))
	paths.Append("s3://x")
	// Row 2: inline with offset.
	offsets.Append(7)
	inline.Append([]byte("data"))
	paths.AppendNull()
	// Row 3: virtual missing offset.
	offsets.AppendNull()
	inline.AppendNull()
	paths.Append("s3://x")
	// Row 4: well-formed inline.
	offsets.AppendNull()
	inline.Append([]byte("data"))
	paths.AppendNull()

	coordArr, err := coords.Build()
	require.NoError(t, err)
	inlineArr, err := inline.Build()
	require.NoError(t, err)
	chunkIDArr, err := chunkIDs.Build()
	require.NoError(t, err)
	pathArr, err := paths.Build()
	require.NoError(t, err)
	extraArr, err := extra.Build()
	require.NoError(t, err)
	batch, err := columnar.NewBatch(Schema(), []columnar.Array{
		nodeIDs.Build(), coordArr, offsets.Build(), lengths.Build(),
		inlineArr, chunkIDArr, pathArr, extraArr,
	})
	require.NoError(t, err)

	return batch
}

func TestDecodeRow_Malformed(t *testing.T) {
	table, err := FromBatch(malformedBatch(t))
	require.NoError(t, err)

	for _, row := range []format.TableOffset{0, 1, 2, 3} {
		_, derr := table.DecodeRow(row)
		require.ErrorIs(t, derr, errs.ErrMalformedRow, "row %d", row)
	}

	info, err := table.DecodeRow(4)
	require.NoError(t, err)
	require.Equal(t, PayloadInline, info.Payload.Kind())
}

func TestRange_MalformedRowsContinue(t *testing.T) {
	table, err := FromBatch(malformedBatch(t))
	require.NoError(t, err)

	var decoded, failed int
	for _, rowErr := range table.All() {
		if rowErr != nil {
			require.ErrorIs(t, rowErr, errs.ErrMalformedRow)
			failed++

			continue
		}
		decoded++
	}
	require.Equal(t, 4, failed)
	require.Equal(t, 1, decoded)
}

func TestGetChunkInfo_MalformedRowSurfaces(t *testing.T) {
	table, err := FromBatch(malformedBatch(t))
	require.NoError(t, err)

	// Row 1's coords are unique, so the lookup lands on a malformed row.
	_, found, err := table.GetChunkInfo(format.ChunkIndices{1}, table.Region())
	require.ErrorIs(t, err, errs.ErrMalformedRow)
	require.False(t, found)
}

func TestTable_ConcurrentReaders(t *testing.T) {
	table := buildFixtureTable(t)
	records := fixtureRecords()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				info, found, err := table.GetChunkInfo(format.ChunkIndices{0, 0, 1}, table.Region())
				if err != nil || !found || info.NodeID != records[1].NodeID {
					t.Error("concurrent lookup mismatch")

					return
				}
				for _, iterErr := range table.All() {
					if iterErr != nil {
						t.Error("concurrent iteration error")

						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

// =============================================================================
// Benchmarks
// =============================================================================

func benchRecords(n int) []ChunkInfo {
	records := make([]ChunkInfo, 0, n)
	id := format.ObjectIDFromContent([]byte("bench-chunk"))

	for i := range n {
		records = append(records, ChunkInfo{
			NodeID:  format.NodeID(i % 8),
			Coords:  format.ChunkIndices{uint64(i) % 64, uint64(i) / 64},
			Payload: RefPayload(id, uint64(i)*4096, 4096),
		})
	}

	return records
}

func buildBenchTable(b *testing.B, n int, kind RowIndexKind) *Table {
	b.Helper()

	table, err := Build(context.Background(), RecordSeq(benchRecords(n)...), WithRowIndex(kind))
	if err != nil {
		b.Fatal(err)
	}

	return table
}

func BenchmarkFindRow(b *testing.B) {
	const rows = 4096

	for _, kind := range []RowIndexKind{IndexHash, IndexScan} {
		b.Run(kind.String(), func(b *testing.B) {
			table := buildBenchTable(b, rows, kind)
			region := table.Region()
			coords := format.ChunkIndices{63, 63}

			b.ReportAllocs()
			for b.Loop() {
				if _, ok := table.FindRow(coords, region); !ok {
					b.Fatal("probe missed")
				}
			}
		})
	}
}

func BenchmarkDecodeRow(b *testing.B) {
	table := buildBenchTable(b, 4096, IndexHash)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := table.DecodeRow(2048); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuild(b *testing.B) {
	records := benchRecords(4096)
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Build(ctx, RecordSeq(records...)); err != nil {
			b.Fatal(err)
		}
	}
}
