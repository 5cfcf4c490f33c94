package format

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/catlasdb/catlas/errs"
)

// ObjectIDSize is the fixed byte width of an ObjectID. It matches the width
// of the chunk_id column in the manifest schema.
const ObjectIDSize = 16

// ObjectID identifies an object in the engine's own store: a manifest
// envelope, or a content-addressed chunk referenced by a Ref payload.
//
// The zero value is reserved and never produced by the constructors.
// ObjectID is comparable; two ids are equal iff their bytes are equal.
type ObjectID [ObjectIDSize]byte

// NewObjectID returns a random ObjectID.
func NewObjectID() ObjectID {
	return ObjectID(uuid.New())
}

// ObjectIDFromContent derives an ObjectID from payload bytes, as the
// truncated BLAKE3 hash of the content. The same bytes always derive the
// same id, which makes stores using it content-addressed.
func ObjectIDFromContent(data []byte) ObjectID {
	sum := blake3.Sum256(data)

	var id ObjectID
	copy(id[:], sum[:ObjectIDSize])

	return id
}

// ObjectIDFromBytes reconstructs an ObjectID from its byte representation.
//
// Returns errs.ErrInvalidEncoding if b is not exactly ObjectIDSize bytes.
func ObjectIDFromBytes(b []byte) (ObjectID, error) {
	if len(b) != ObjectIDSize {
		return ObjectID{}, fmt.Errorf("%w: object id must be %d bytes, got %d", errs.ErrInvalidEncoding, ObjectIDSize, len(b))
	}

	var id ObjectID
	copy(id[:], b)

	return id, nil
}

// Bytes returns the id's byte representation.
func (id ObjectID) Bytes() []byte {
	return id[:]
}

// IsZero reports whether the id is the reserved zero value.
func (id ObjectID) IsZero() bool {
	return id == ObjectID{}
}

// String renders the id in canonical UUID text form.
func (id ObjectID) String() string {
	return uuid.UUID(id).String()
}
