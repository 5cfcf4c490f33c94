package columnar

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/catlasdb/catlas/compress"
	"github.com/catlasdb/catlas/endian"
	"github.com/catlasdb/catlas/errs"
	"github.com/catlasdb/catlas/format"
	"github.com/catlasdb/catlas/internal/hash"
	"github.com/catlasdb/catlas/internal/options"
	"github.com/catlasdb/catlas/internal/pool"
	"github.com/catlasdb/catlas/section"
)

// encodeConfig holds the envelope settings resolved from encode options.
type encodeConfig struct {
	flag section.EnvelopeFlag
}

// EncodeOption represents a functional option for configuring EncodeBatch.
type EncodeOption = options.Option[*encodeConfig]

// WithCompression sets the body compression type. The default is zstd.
func WithCompression(compression format.CompressionType) EncodeOption {
	return options.New(func(c *encodeConfig) error {
		if !compression.IsValid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidCompressionType, uint8(compression))
		}
		c.flag.SetCompression(compression)

		return nil
	})
}

// WithLittleEndian sets little-endian byte order for the envelope.
// It is the default option.
func WithLittleEndian() EncodeOption {
	return options.NoError(func(c *encodeConfig) {
		c.flag.WithLittleEndian()
	})
}

// WithBigEndian sets big-endian byte order for the envelope. It rarely
// needs to be used unless interoperability with big-endian consumers is
// required.
func WithBigEndian() EncodeOption {
	return options.NoError(func(c *encodeConfig) {
		c.flag.WithBigEndian()
	})
}

// EncodeBatch serializes a batch into a single self-describing envelope.
//
// The envelope records the schema (names, types, nullability, widths), the
// byte order, the body compression and an xxHash64 checksum, so
// DecodeBatch needs no out-of-band information.
//
// Parameters:
//   - batch: Sealed batch to serialize
//   - opts: Optional envelope settings (compression, byte order)
//
// Returns:
//   - []byte: Encoded envelope
//   - error: Option validation or compression errors
func EncodeBatch(batch *Batch, opts ...EncodeOption) ([]byte, error) {
	if batch == nil {
		return nil, fmt.Errorf("%w: nil batch", errs.ErrInvalidEnvelope)
	}

	cfg := &encodeConfig{flag: section.NewEnvelopeFlag()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	engine := cfg.flag.GetEndianEngine()
	schema := batch.Schema()
	numCols := batch.NumCols()

	body := pool.GetEnvelopeBuffer()
	defer pool.PutEnvelopeBuffer(body)

	entries := make([]section.ColumnEntry, numCols)
	for i := range numCols {
		field := schema.Field(i)
		entry := &entries[i]
		entry.NameHash = hash.NameKey(field.Name)
		entry.DataType = uint8(field.Type)
		entry.Nullable = field.Nullable
		entry.Width = uint16(field.Width)

		if err := appendColumnBody(body, entry, batch.Column(i), engine); err != nil {
			return nil, err
		}
	}

	codec, err := compress.GetCodec(cfg.flag.Compression())
	if err != nil {
		return nil, err
	}
	compressed, err := codec.Compress(body.Bytes())
	if err != nil {
		return nil, err
	}

	names := make([]byte, 0, numCols*12)
	for i := range numCols {
		name := schema.Field(i).Name
		names = binary.AppendUvarint(names, uint64(len(name)))
		names = append(names, name...)
	}

	header := section.Header{
		Flag:        cfg.flag,
		ColumnCount: uint32(numCols),
		RowCount:    uint32(batch.NumRows()),
		NamesLen:    uint32(len(names)),
		BodyLen:     uint32(len(compressed)),
	}

	total := section.HeaderSize + numCols*section.ColumnEntrySize + len(names) + len(compressed)
	out := make([]byte, total)

	pos := section.EntriesOffset
	for i := range entries {
		pos = entries[i].WriteToSlice(out, pos, engine)
	}
	copy(out[pos:], names)
	copy(out[pos+len(names):], compressed)

	// The checksum covers everything after the header exactly as written.
	header.Checksum = hash.Checksum(out[section.HeaderSize:])
	copy(out[:section.HeaderSize], header.Bytes())

	return out, nil
}

// appendColumnBody writes one column's validity, offsets and values
// sections into the body buffer and records their lengths in the entry.
func appendColumnBody(body *pool.ByteBuffer, entry *section.ColumnEntry, col Array, engine endian.EndianEngine) error {
	if valid := columnValidity(col); valid != nil {
		start := body.Len()
		if _, err := valid.WriteTo(body); err != nil {
			return fmt.Errorf("serialize validity bitmap: %w", err)
		}
		entry.ValidityLen = uint32(body.Len() - start)
	}

	switch arr := col.(type) {
	case *Uint32Array:
		start := body.Len()
		for _, v := range arr.values {
			body.B = engine.AppendUint32(body.B, v)
		}
		entry.ValuesLen = uint32(body.Len() - start)
	case *Uint64Array:
		start := body.Len()
		for _, v := range arr.values {
			body.B = engine.AppendUint64(body.B, v)
		}
		entry.ValuesLen = uint32(body.Len() - start)
	case *BinaryArray:
		entry.OffsetsLen = appendOffsets(body, arr.offsets, engine)
		body.MustWrite(arr.values)
		entry.ValuesLen = uint32(len(arr.values))
	case *FixedBinaryArray:
		body.MustWrite(arr.values)
		entry.ValuesLen = uint32(len(arr.values))
	case *StringArray:
		entry.OffsetsLen = appendOffsets(body, arr.offsets, engine)
		body.MustWrite(arr.values)
		entry.ValuesLen = uint32(len(arr.values))
	default:
		return fmt.Errorf("%w: unsupported array type %T", errs.ErrInvalidColumn, col)
	}

	return nil
}

func columnValidity(col Array) *roaring.Bitmap {
	switch arr := col.(type) {
	case *Uint32Array:
		return arr.valid
	case *Uint64Array:
		return arr.valid
	case *BinaryArray:
		return arr.valid
	case *FixedBinaryArray:
		return arr.valid
	case *StringArray:
		return arr.valid
	default:
		return nil
	}
}

func appendOffsets(body *pool.ByteBuffer, offsets []uint32, engine endian.EndianEngine) uint32 {
	start := body.Len()
	for _, off := range offsets {
		body.B = engine.AppendUint32(body.B, off)
	}

	return uint32(body.Len() - start)
}

// DecodeBatch deserializes an envelope produced by EncodeBatch.
//
// The decoded batch may reference data, so callers must not modify the
// input after a successful decode.
//
// Parameters:
//   - data: Complete envelope bytes
//
// Returns:
//   - *Batch: Decoded batch with its schema reconstructed
//   - error: errs.ErrInvalidEnvelope for truncation or structural
//     inconsistencies, errs.ErrChecksumMismatch for corruption, flag
//     validation errors from the header
func DecodeBatch(data []byte) (*Batch, error) {
	header, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	engine := header.GetEndianEngine()
	numCols := int(header.ColumnCount)
	rows := int(header.RowCount)

	expected := int64(section.HeaderSize) +
		int64(numCols)*section.ColumnEntrySize +
		int64(header.NamesLen) + int64(header.BodyLen)
	if int64(len(data)) != expected {
		return nil, fmt.Errorf("%w: envelope is %d bytes, header describes %d",
			errs.ErrInvalidEnvelope, len(data), expected)
	}

	if got := hash.Checksum(data[section.HeaderSize:]); got != header.Checksum {
		return nil, fmt.Errorf("%w: computed %#016x, header records %#016x",
			errs.ErrChecksumMismatch, got, header.Checksum)
	}

	if numCols == 0 {
		return nil, fmt.Errorf("%w: envelope declares no columns", errs.ErrInvalidEnvelope)
	}

	entries := make([]section.ColumnEntry, numCols)
	pos := section.EntriesOffset
	for i := range entries {
		entry, err := section.ParseColumnEntry(data[pos:], engine)
		if err != nil {
			return nil, err
		}
		entries[i] = entry
		pos += section.ColumnEntrySize
	}

	names, err := parseNames(data[pos:pos+int(header.NamesLen)], numCols)
	if err != nil {
		return nil, err
	}
	pos += int(header.NamesLen)

	codec, err := compress.GetCodec(header.Flag.Compression())
	if err != nil {
		return nil, err
	}
	body, err := codec.Decompress(data[pos:])
	if err != nil {
		return nil, fmt.Errorf("%w: decompress body: %v", errs.ErrInvalidEnvelope, err)
	}

	fields := make([]Field, numCols)
	columns := make([]Array, numCols)
	cursor := 0
	for i := range entries {
		field, col, n, err := decodeColumn(&entries[i], names[i], body[cursor:], rows, engine)
		if err != nil {
			return nil, err
		}
		fields[i] = field
		columns[i] = col
		cursor += n
	}
	if cursor != len(body) {
		return nil, fmt.Errorf("%w: body has %d trailing bytes", errs.ErrInvalidEnvelope, len(body)-cursor)
	}

	schema, err := NewSchema(fields)
	if err != nil {
		return nil, err
	}

	return NewBatch(schema, columns)
}

// parseNames decodes the uvarint-prefixed name section.
func parseNames(data []byte, numCols int) ([]string, error) {
	names := make([]string, numCols)
	pos := 0
	for i := range names {
		length, n := binary.Uvarint(data[pos:])
		if n <= 0 || length > uint64(len(data)-pos-n) {
			return nil, fmt.Errorf("%w: truncated name section", errs.ErrInvalidEnvelope)
		}
		pos += n
		names[i] = string(data[pos : pos+int(length)])
		pos += int(length)
	}
	if pos != len(data) {
		return nil, fmt.Errorf("%w: name section has %d trailing bytes", errs.ErrInvalidEnvelope, len(data)-pos)
	}

	return names, nil
}

// decodeColumn reconstructs one column from its entry and body sections.
// It returns the consumed body length.
func decodeColumn(entry *section.ColumnEntry, name string, body []byte, rows int, engine endian.EndianEngine) (Field, Array, int, error) {
	fail := func(msg string, args ...any) (Field, Array, int, error) {
		detail := fmt.Sprintf(msg, args...)

		return Field{}, nil, 0, fmt.Errorf("%w: column %q: %s", errs.ErrInvalidEnvelope, name, detail)
	}

	dataType := DataType(entry.DataType)
	if !dataType.IsValid() {
		return fail("unknown data type %#x", entry.DataType)
	}
	if entry.NameHash != hash.NameKey(name) {
		return fail("name does not match its entry hash")
	}
	if !entry.Nullable && entry.ValidityLen != 0 {
		return fail("non-nullable column carries a validity bitmap")
	}
	if dataType != TypeFixedBinary && entry.Width != 0 {
		return fail("type %s must not declare a width", dataType)
	}

	if entry.BodyLen() > len(body) {
		return fail("body truncated")
	}

	cur := 0
	var valid *roaring.Bitmap
	if entry.ValidityLen > 0 {
		valid = roaring.New()
		n, err := valid.ReadFrom(bytes.NewReader(body[cur : cur+int(entry.ValidityLen)]))
		if err != nil {
			return fail("validity bitmap: %v", err)
		}
		if n != int64(entry.ValidityLen) {
			return fail("validity bitmap consumed %d of %d bytes", n, entry.ValidityLen)
		}
		if !valid.IsEmpty() && int(valid.Maximum()) >= rows {
			return fail("validity bitmap addresses row %d of %d", valid.Maximum(), rows)
		}
		cur += int(entry.ValidityLen)
	}

	var offsets []uint32
	switch dataType {
	case TypeBinary, TypeString:
		wantOffsets := (rows + 1) * 4
		if int(entry.OffsetsLen) != wantOffsets {
			return fail("offsets section must be %d bytes for %d rows, got %d", wantOffsets, rows, entry.OffsetsLen)
		}
		offsets = make([]uint32, rows+1)
		for j := range offsets {
			offsets[j] = engine.Uint32(body[cur+j*4:])
		}
		cur += wantOffsets

		if offsets[0] != 0 {
			return fail("first offset must be zero, got %d", offsets[0])
		}
		for j := 1; j < len(offsets); j++ {
			if offsets[j] < offsets[j-1] {
				return fail("offsets must be non-decreasing")
			}
		}
		if offsets[rows] != entry.ValuesLen {
			return fail("final offset %d does not match values length %d", offsets[rows], entry.ValuesLen)
		}
	default:
		if entry.OffsetsLen != 0 {
			return fail("type %s must not carry offsets", dataType)
		}
	}

	values := body[cur : cur+int(entry.ValuesLen)]
	cur += int(entry.ValuesLen)

	field := Field{Name: name, Type: dataType, Nullable: entry.Nullable, Width: int(entry.Width)}

	var col Array
	switch dataType {
	case TypeUint32:
		if int(entry.ValuesLen) != rows*4 {
			return fail("values section must be %d bytes for %d rows, got %d", rows*4, rows, entry.ValuesLen)
		}
		vals := make([]uint32, rows)
		for j := range vals {
			vals[j] = engine.Uint32(values[j*4:])
		}
		col = newUint32Array(vals, valid)
	case TypeUint64:
		if int(entry.ValuesLen) != rows*8 {
			return fail("values section must be %d bytes for %d rows, got %d", rows*8, rows, entry.ValuesLen)
		}
		vals := make([]uint64, rows)
		for j := range vals {
			vals[j] = engine.Uint64(values[j*8:])
		}
		col = newUint64Array(vals, valid)
	case TypeBinary:
		col = newBinaryArray(values, offsets, valid)
	case TypeFixedBinary:
		if entry.Width < 1 {
			return fail("fixed binary requires a positive width")
		}
		if int(entry.ValuesLen) != rows*int(entry.Width) {
			return fail("values section must be %d bytes for %d rows of width %d, got %d",
				rows*int(entry.Width), rows, entry.Width, entry.ValuesLen)
		}
		col = newFixedBinaryArray(int(entry.Width), values, valid)
	case TypeString:
		col = newStringArray(values, offsets, valid)
	}

	return field, col, cur, nil
}
