package manifest

import (
	"github.com/catlasdb/catlas/format"
)

// PayloadKind identifies the active variant of a ChunkPayload.
type PayloadKind uint8

const (
	// PayloadInvalid is the zero value; a ChunkPayload of this kind carries
	// no chunk location and is rejected by the builder.
	PayloadInvalid PayloadKind = iota

	// PayloadInline means the chunk bytes are embedded in the manifest row.
	PayloadInline

	// PayloadVirtual means the chunk is a byte range inside an object the
	// engine does not own.
	PayloadVirtual

	// PayloadRef means the chunk lives in the engine's own
	// content-addressed object store.
	PayloadRef
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadInline:
		return "inline"
	case PayloadVirtual:
		return "virtual"
	case PayloadRef:
		return "ref"
	default:
		return "invalid"
	}
}

// ChunkPayload describes where a chunk's bytes live. Exactly one variant is
// active per value; the constructors are the only way to obtain a non-zero
// payload, so an over-filled payload is unrepresentable.
//
// The zero value has kind PayloadInvalid and is not a usable payload.
type ChunkPayload struct {
	kind     PayloadKind
	data     []byte
	location string
	id       format.ObjectID
	offset   uint64
	length   uint64
}

// InlinePayload embeds the chunk bytes directly. The manifest row records
// the byte length; there is no offset.
func InlinePayload(data []byte) ChunkPayload {
	return ChunkPayload{kind: PayloadInline, data: data, length: uint64(len(data))}
}

// VirtualPayload references length bytes at offset inside an
// externally-owned object identified by an opaque location string, such as
// a URI. The engine does not validate the location or own the object's
// lifecycle.
func VirtualPayload(location string, offset, length uint64) ChunkPayload {
	return ChunkPayload{kind: PayloadVirtual, location: location, offset: offset, length: length}
}

// RefPayload references length bytes at offset inside the object store
// entry identified by id.
func RefPayload(id format.ObjectID, offset, length uint64) ChunkPayload {
	return ChunkPayload{kind: PayloadRef, id: id, offset: offset, length: length}
}

// Kind returns the active variant.
func (p ChunkPayload) Kind() PayloadKind {
	return p.kind
}

// Length returns the chunk's byte length regardless of variant.
func (p ChunkPayload) Length() uint64 {
	return p.length
}

// Inline returns the embedded bytes when the payload is inline.
// The returned slice is shared and must not be modified.
func (p ChunkPayload) Inline() (data []byte, ok bool) {
	if p.kind != PayloadInline {
		return nil, false
	}

	return p.data, true
}

// Virtual returns the external location and byte range when the payload is
// virtual.
func (p ChunkPayload) Virtual() (location string, offset, length uint64, ok bool) {
	if p.kind != PayloadVirtual {
		return "", 0, 0, false
	}

	return p.location, p.offset, p.length, true
}

// Ref returns the object id and byte range when the payload is a chunk
// reference.
func (p ChunkPayload) Ref() (id format.ObjectID, offset, length uint64, ok bool) {
	if p.kind != PayloadRef {
		return format.ObjectID{}, 0, 0, false
	}

	return p.id, p.offset, p.length, true
}

// ChunkInfo is one logical chunk record: the owning array node, the chunk's
// coordinates and its payload. It is the unit consumed by Build and
// produced by lookups.
type ChunkInfo struct {
	NodeID  format.NodeID
	Coords  format.ChunkIndices
	Payload ChunkPayload
}
