package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catlasdb/catlas/errs"
)

func TestNewObjectID(t *testing.T) {
	seen := make(map[ObjectID]struct{})
	for range 100 {
		id := NewObjectID()
		require.False(t, id.IsZero())

		_, dup := seen[id]
		require.False(t, dup, "random ids must not repeat")
		seen[id] = struct{}{}
	}
}

func TestObjectIDFromContent(t *testing.T) {
	data := []byte("manifest envelope bytes")

	id1 := ObjectIDFromContent(data)
	id2 := ObjectIDFromContent(data)
	require.Equal(t, id1, id2, "content addressing must be deterministic")
	require.False(t, id1.IsZero())

	other := ObjectIDFromContent([]byte("different bytes"))
	require.NotEqual(t, id1, other)
}

func TestObjectIDFromBytes(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		id := NewObjectID()
		decoded, err := ObjectIDFromBytes(id.Bytes())
		require.NoError(t, err)
		require.Equal(t, id, decoded)
	})

	t.Run("short buffer", func(t *testing.T) {
		_, err := ObjectIDFromBytes(make([]byte, ObjectIDSize-1))
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrInvalidEncoding)
	})

	t.Run("long buffer", func(t *testing.T) {
		_, err := ObjectIDFromBytes(make([]byte, ObjectIDSize+1))
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrInvalidEncoding)
	})
}

func TestObjectIDString(t *testing.T) {
	id := NewObjectID()
	text := id.String()
	require.Len(t, text, 36, "canonical UUID form is 36 characters")

	require.Equal(t, "00000000-0000-0000-0000-000000000000", ObjectID{}.String())
}
