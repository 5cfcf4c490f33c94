package manifest

import (
	"fmt"
	"math"

	"github.com/catlasdb/catlas/endian"
	"github.com/catlasdb/catlas/errs"
	"github.com/catlasdb/catlas/format"
)

// refEngine is the byte order of the reference codec. Refs are encoded
// big-endian regardless of host order.
var refEngine = endian.GetBigEndianEngine()

// refHeaderSize is the fixed prefix of an encoded reference: object id,
// region bounds, flags and extent count.
const refHeaderSize = format.ObjectIDSize + 4 + 4 + 1 + 2

// ManifestExtents is the bounding coordinate set a manifest region covers.
// For a table it is the pair {mins, maxs}: the per-dimension minimum and
// maximum over every coordinate in the region. Callers use it for coarse
// pruning before loading the table.
type ManifestExtents []format.ChunkIndices

// Equal reports whether both extent sets have the same entries.
func (e ManifestExtents) Equal(other ManifestExtents) bool {
	if len(e) != len(other) {
		return false
	}
	for i := range e {
		if !e[i].Equal(other[i]) {
			return false
		}
	}

	return true
}

// ManifestRef is the handle a snapshot holds to a stored manifest: the
// object id of the backing table, the row region to consult within it, a
// reserved flags bitset and the bounding extents of that region.
//
// A ref is an immutable value and does not itself hold table data. Its
// region cannot be validated without the manifest's row count; readers must
// call Validate after loading the table.
type ManifestRef struct {
	ID      format.ObjectID
	Region  format.TableRegion
	Flags   format.RefFlags
	Extents ManifestExtents
}

// Validate checks the ref's region against the row count of the loaded
// manifest. A stale or corrupt ref whose region is ill-formed for that
// count fails with errs.ErrRegionOutOfBounds.
func (r ManifestRef) Validate(rowCount int) error {
	if !r.Region.WellFormed(rowCount) {
		return fmt.Errorf("%w: ref region [%d, %d) over a %d-row manifest",
			errs.ErrRegionOutOfBounds, r.Region.From, r.Region.To, rowCount)
	}

	return nil
}

// MarshalBinary encodes the ref for persistence.
//
// Layout, big-endian throughout:
//
//	object id            16 bytes
//	region from, to      uint32 each
//	flags                1 byte
//	extent count         uint16
//	per extent: rank     uint16, then rank 8-byte coordinates
func (r ManifestRef) MarshalBinary() ([]byte, error) {
	if len(r.Extents) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d extents exceed the encodable maximum", errs.ErrInvalidEncoding, len(r.Extents))
	}

	size := refHeaderSize
	for _, ext := range r.Extents {
		if ext.Rank() > math.MaxUint16 {
			return nil, fmt.Errorf("%w: extent rank %d exceeds the encodable maximum", errs.ErrInvalidEncoding, ext.Rank())
		}
		size += 2 + format.EncodedLen(ext.Rank())
	}

	out := make([]byte, 0, size)
	out = append(out, r.ID.Bytes()...)
	out = refEngine.AppendUint32(out, uint32(r.Region.From))
	out = refEngine.AppendUint32(out, uint32(r.Region.To))
	out = append(out, byte(r.Flags))
	out = refEngine.AppendUint16(out, uint16(len(r.Extents)))
	for _, ext := range r.Extents {
		out = refEngine.AppendUint16(out, uint16(ext.Rank()))
		out = ext.AppendTo(out)
	}

	return out, nil
}

// UnmarshalBinary decodes a ref produced by MarshalBinary. Truncated input,
// trailing bytes, or extent payloads that do not match their declared rank
// fail with errs.ErrInvalidEncoding. The decoded region is not range
// checked here; Validate covers that once the manifest is loaded.
func (r *ManifestRef) UnmarshalBinary(data []byte) error {
	if len(data) < refHeaderSize {
		return fmt.Errorf("%w: ref needs at least %d bytes, got %d", errs.ErrInvalidEncoding, refHeaderSize, len(data))
	}

	id, err := format.ObjectIDFromBytes(data[:format.ObjectIDSize])
	if err != nil {
		return err
	}

	pos := format.ObjectIDSize
	from := refEngine.Uint32(data[pos:])
	to := refEngine.Uint32(data[pos+4:])
	flags := format.RefFlags(data[pos+8])
	count := int(refEngine.Uint16(data[pos+9:]))
	pos = refHeaderSize

	var extents ManifestExtents
	if count > 0 {
		extents = make(ManifestExtents, 0, count)
	}
	for i := 0; i < count; i++ {
		if len(data)-pos < 2 {
			return fmt.Errorf("%w: ref truncated in extent %d", errs.ErrInvalidEncoding, i)
		}
		rank := int(refEngine.Uint16(data[pos:]))
		pos += 2

		width := format.EncodedLen(rank)
		if len(data)-pos < width {
			return fmt.Errorf("%w: ref truncated in extent %d", errs.ErrInvalidEncoding, i)
		}
		ext, err := format.IndicesFromBytesChecked(rank, data[pos:pos+width])
		if err != nil {
			return err
		}
		extents = append(extents, ext)
		pos += width
	}
	if pos != len(data) {
		return fmt.Errorf("%w: %d trailing bytes after ref", errs.ErrInvalidEncoding, len(data)-pos)
	}

	r.ID = id
	r.Region = format.Region(format.TableOffset(from), format.TableOffset(to))
	r.Flags = flags
	r.Extents = extents

	return nil
}

// Extents computes the bounding coordinate set of the table: one entry of
// per-dimension minimums and one of per-dimension maximums, spanning the
// highest rank present. Rows of lower rank contribute only to the
// dimensions they have. An empty table has nil extents.
func (t *Table) Extents() ManifestExtents {
	rank := 0
	for i := range t.rows {
		if r := len(t.coords.Value(i)) / format.CoordWidth; r > rank {
			rank = r
		}
	}
	if rank == 0 {
		return nil
	}

	mins := make(format.ChunkIndices, rank)
	maxs := make(format.ChunkIndices, rank)
	for d := range rank {
		mins[d] = math.MaxUint64
	}
	for i := range t.rows {
		coords := format.IndicesFromBytes(t.coords.Value(i))
		for d, v := range coords {
			if v < mins[d] {
				mins[d] = v
			}
			if v > maxs[d] {
				maxs[d] = v
			}
		}
	}

	return ManifestExtents{mins, maxs}
}
