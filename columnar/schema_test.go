package columnar

import (
	"testing"

	"github.com/catlasdb/catlas/errs"
	"github.com/stretchr/testify/require"
)

func testFields() []Field {
	return []Field{
		{Name: "id", Type: TypeUint32},
		{Name: "size", Type: TypeUint64, Nullable: true},
		{Name: "payload", Type: TypeBinary, Nullable: true},
		{Name: "digest", Type: TypeFixedBinary, Width: 16},
		{Name: "path", Type: TypeString, Nullable: true},
	}
}

func TestNewSchema(t *testing.T) {
	t.Run("valid fields", func(t *testing.T) {
		schema, err := NewSchema(testFields())
		require.NoError(t, err)
		require.Equal(t, 5, schema.NumFields())
		require.Equal(t, "digest", schema.Field(3).Name)
	})

	t.Run("empty schema rejected", func(t *testing.T) {
		_, err := NewSchema(nil)
		require.ErrorIs(t, err, errs.ErrInvalidSchema)
	})

	t.Run("unnamed field rejected", func(t *testing.T) {
		_, err := NewSchema([]Field{{Type: TypeUint32}})
		require.ErrorIs(t, err, errs.ErrInvalidSchema)
	})

	t.Run("duplicate names rejected", func(t *testing.T) {
		_, err := NewSchema([]Field{
			{Name: "x", Type: TypeUint32},
			{Name: "x", Type: TypeUint64},
		})
		require.ErrorIs(t, err, errs.ErrInvalidSchema)
		require.Contains(t, err.Error(), `"x"`)
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		_, err := NewSchema([]Field{{Name: "x", Type: TypeInvalid}})
		require.ErrorIs(t, err, errs.ErrInvalidSchema)
	})

	t.Run("fixed binary requires width", func(t *testing.T) {
		_, err := NewSchema([]Field{{Name: "x", Type: TypeFixedBinary}})
		require.ErrorIs(t, err, errs.ErrInvalidSchema)
	})

	t.Run("width forbidden on other types", func(t *testing.T) {
		_, err := NewSchema([]Field{{Name: "x", Type: TypeBinary, Width: 4}})
		require.ErrorIs(t, err, errs.ErrInvalidSchema)
	})

	t.Run("oversized width rejected", func(t *testing.T) {
		_, err := NewSchema([]Field{{Name: "x", Type: TypeFixedBinary, Width: 1 << 20}})
		require.ErrorIs(t, err, errs.ErrInvalidSchema)
	})
}

func TestMustSchema(t *testing.T) {
	require.NotPanics(t, func() {
		MustSchema(testFields())
	})
	require.Panics(t, func() {
		MustSchema(nil)
	})
}

func TestSchema_FieldIndex(t *testing.T) {
	schema := MustSchema(testFields())

	i, ok := schema.FieldIndex("payload")
	require.True(t, ok)
	require.Equal(t, 2, i)

	_, ok = schema.FieldIndex("missing")
	require.False(t, ok)
}

func TestSchema_Fields_Copy(t *testing.T) {
	schema := MustSchema(testFields())

	fields := schema.Fields()
	fields[0].Name = "mutated"

	require.Equal(t, "id", schema.Field(0).Name, "Fields() must return a copy")
}

func TestSchema_Equal(t *testing.T) {
	a := MustSchema(testFields())
	b := MustSchema(testFields())

	require.True(t, a.Equal(b))
	require.True(t, a.Equal(a))
	require.False(t, a.Equal(nil))

	shorter := MustSchema(testFields()[:3])
	require.False(t, a.Equal(shorter))

	renamed := testFields()
	renamed[4].Name = "virtual_path"
	require.False(t, a.Equal(MustSchema(renamed)))

	widened := testFields()
	widened[3].Width = 32
	require.False(t, a.Equal(MustSchema(widened)))
}

func TestDataType_String(t *testing.T) {
	cases := map[DataType]string{
		TypeUint32:      "uint32",
		TypeUint64:      "uint64",
		TypeBinary:      "binary",
		TypeFixedBinary: "fixed_binary",
		TypeString:      "string",
		TypeInvalid:     "invalid",
		DataType(0x7F):  "invalid",
	}

	for dataType, want := range cases {
		require.Equal(t, want, dataType.String())
	}
}

func TestDataType_FixedWidth(t *testing.T) {
	require.Equal(t, 4, TypeUint32.FixedWidth())
	require.Equal(t, 8, TypeUint64.FixedWidth())
	require.Equal(t, 0, TypeBinary.FixedWidth())
	require.Equal(t, 0, TypeFixedBinary.FixedWidth())
	require.Equal(t, 0, TypeString.FixedWidth())
}
