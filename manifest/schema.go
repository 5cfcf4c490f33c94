package manifest

import (
	"github.com/catlasdb/catlas/columnar"
	"github.com/catlasdb/catlas/format"
)

// Manifest column names. The set and order are load-bearing: envelopes
// written by one version must decode under another.
const (
	ColNodeID      = "node_id"
	ColCoords      = "coords"
	ColOffset      = "offset"
	ColLength      = "length"
	ColInlineData  = "inline_data"
	ColChunkID     = "chunk_id"
	ColVirtualPath = "virtual_path"
	ColExtra       = "extra"
)

// Column positions within the manifest schema.
const (
	colNodeID = iota
	colCoords
	colOffset
	colLength
	colInlineData
	colChunkID
	colVirtualPath
	colExtra
	numColumns
)

var tableSchema = columnar.MustSchema([]columnar.Field{
	{Name: ColNodeID, Type: columnar.TypeUint32},
	{Name: ColCoords, Type: columnar.TypeBinary},
	{Name: ColOffset, Type: columnar.TypeUint64, Nullable: true},
	{Name: ColLength, Type: columnar.TypeUint64},
	{Name: ColInlineData, Type: columnar.TypeBinary, Nullable: true},
	{Name: ColChunkID, Type: columnar.TypeFixedBinary, Nullable: true, Width: format.ObjectIDSize},
	{Name: ColVirtualPath, Type: columnar.TypeString, Nullable: true},
	{Name: ColExtra, Type: columnar.TypeString, Nullable: true},
})

// Schema returns the canonical manifest table schema:
//
//	node_id       uint32            NOT NULL  owning array node
//	coords        binary            NOT NULL  encoded chunk coordinates
//	offset        uint64            NULL      byte offset, absent for inline
//	length        uint64            NOT NULL  chunk byte length
//	inline_data   binary            NULL      chunk bytes if inline
//	chunk_id      fixed binary(16)  NULL      object id if ref
//	virtual_path  string            NULL      external location if virtual
//	extra         string            NULL      reserved, always null
//
// The returned schema is shared and must not be modified. The extra column
// is a forward-compatibility slot: rows are written with it null and
// readers never interpret it.
func Schema() *columnar.Schema {
	return tableSchema
}
