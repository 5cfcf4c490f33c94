package section

import (
	"fmt"

	"github.com/catlasdb/catlas/endian"
	"github.com/catlasdb/catlas/errs"
)

// Header represents the fixed-size header section at the start of an
// envelope.
type Header struct {
	// Flag is a packed field for the magic number, endianness and body
	// compression.
	Flag EnvelopeFlag // byte offset 0-3

	// ColumnCount is the number of columns stored in the envelope.
	ColumnCount uint32 // byte offset 4-7

	// RowCount is the number of rows every column holds.
	RowCount uint32 // byte offset 8-11

	// NamesLen is the byte length of the name section that follows the
	// column entries.
	NamesLen uint32 // byte offset 12-15

	// BodyLen is the byte length of the compressed body that follows the
	// name section.
	BodyLen uint32 // byte offset 16-19

	// Checksum is the xxHash64 digest of every byte after the header:
	// column entries, names and compressed body, exactly as written.
	Checksum uint64 // byte offset 20-27

	// Byte offset 28-31 is reserved and must be zero.
}

// NewHeader creates a Header with default flags. The counts, lengths and
// checksum are filled in when the encoder finishes.
func NewHeader() Header {
	return Header{Flag: NewEnvelopeFlag()}
}

// Parse parses the header from a byte slice.
//
// The flag word at offset 0 is decoded little-endian first to resolve the
// endianness of the remaining fields.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 32 bytes)
//
// Returns:
//   - error: errs.ErrInvalidEnvelope if data is not 32 bytes, or flag
//     validation errors
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: header requires %d bytes, got %d", errs.ErrInvalidEnvelope, HeaderSize, len(data))
	}

	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.CompressionType = data[2]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	if data[3] != 0 || data[28] != 0 || data[29] != 0 || data[30] != 0 || data[31] != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	engine := h.Flag.GetEndianEngine()
	h.ColumnCount = engine.Uint32(data[4:8])
	h.RowCount = engine.Uint32(data[8:12])
	h.NamesLen = engine.Uint32(data[12:16])
	h.BodyLen = engine.Uint32(data[16:20])
	h.Checksum = engine.Uint64(data[20:28])

	return nil
}

// Bytes serializes the Header into a 32-byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	// The flag word stays little-endian so readers can bootstrap the
	// byte order from it.
	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.CompressionType
	b[3] = 0

	engine := h.Flag.GetEndianEngine()
	engine.PutUint32(b[4:8], h.ColumnCount)
	engine.PutUint32(b[8:12], h.RowCount)
	engine.PutUint32(b[12:16], h.NamesLen)
	engine.PutUint32(b[16:20], h.BodyLen)
	engine.PutUint64(b[20:28], h.Checksum)

	return b
}

// GetEndianEngine returns the endian engine selected by the header flag.
func (h Header) GetEndianEngine() endian.EndianEngine {
	return h.Flag.GetEndianEngine()
}

// ParseHeader parses a Header from the start of a byte slice.
//
// Parameters:
//   - data: Byte slice starting with a header (must be at least 32 bytes)
//
// Returns:
//   - Header: Parsed header struct
//   - error: errs.ErrInvalidEnvelope or flag validation errors
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header requires %d bytes, got %d", errs.ErrInvalidEnvelope, HeaderSize, len(data))
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
