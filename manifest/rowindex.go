package manifest

import (
	"bytes"

	"github.com/catlasdb/catlas/columnar"
	"github.com/catlasdb/catlas/format"
	"github.com/catlasdb/catlas/internal/hash"
)

// RowIndexKind selects the coordinate lookup structure a table builds at
// construction time.
type RowIndexKind uint8

const (
	// IndexHash builds a hash map from encoded coordinates to row offsets.
	// Lookups cost O(1) plus a byte-level verification of candidates. This
	// is the default.
	IndexHash RowIndexKind = iota

	// IndexScan keeps no auxiliary structure and answers lookups with a
	// linear scan of the region. Cheapest to build; suited to tables that
	// are decoded once and probed rarely.
	IndexScan
)

func (k RowIndexKind) isValid() bool {
	return k == IndexHash || k == IndexScan
}

func (k RowIndexKind) String() string {
	switch k {
	case IndexHash:
		return "hash"
	case IndexScan:
		return "scan"
	default:
		return "unknown"
	}
}

// rowIndex answers coordinate lookups scoped to a row region. The region is
// known to be well-formed by the time an index is consulted.
type rowIndex interface {
	findRow(coords []byte, region format.TableRegion) (format.TableOffset, bool)
}

func newRowIndex(kind RowIndexKind, t *Table) rowIndex {
	if kind == IndexScan {
		return &scanIndex{coords: t.coords}
	}

	idx := &hashIndex{coords: t.coords, rows: make(map[uint64][]format.TableOffset, t.rows)}
	for i := range t.rows {
		key := hash.CoordKey(t.coords.Value(i))
		idx.rows[key] = append(idx.rows[key], format.TableOffset(i))
	}

	return idx
}

// scanIndex compares encoded coordinates row by row across the region.
type scanIndex struct {
	coords *columnar.BinaryArray
}

func (s *scanIndex) findRow(coords []byte, region format.TableRegion) (format.TableOffset, bool) {
	for offset := region.From; offset < region.To; offset++ {
		if bytes.Equal(s.coords.Value(int(offset)), coords) {
			return offset, true
		}
	}

	return 0, false
}

// hashIndex maps coordinate hashes to the ascending row offsets that carry
// them. Candidates are verified byte for byte, so hash collisions cost a
// comparison but never a wrong answer.
type hashIndex struct {
	coords *columnar.BinaryArray
	rows   map[uint64][]format.TableOffset
}

func (h *hashIndex) findRow(coords []byte, region format.TableRegion) (format.TableOffset, bool) {
	for _, offset := range h.rows[hash.CoordKey(coords)] {
		if !region.Contains(offset) {
			continue
		}
		if bytes.Equal(h.coords.Value(int(offset)), coords) {
			return offset, true
		}
	}

	return 0, false
}
