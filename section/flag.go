package section

import (
	"github.com/catlasdb/catlas/endian"
	"github.com/catlasdb/catlas/errs"
	"github.com/catlasdb/catlas/format"
)

// EnvelopeFlag represents the packed flag field at the start of the envelope
// header.
type EnvelopeFlag struct {
	// Options is a packed field for format options.
	// Bit 0 is the endianness flag, 0 means little-endian, 1 means big-endian.
	// Bits 1-3 are reserved for future use, must be set to 0.
	// Bits 4-15 are the magic number identifying the envelope format:
	//   - 0xCA10 (0b1100_1010_0001_0000): columnar envelope format v1
	//
	// Options is always encoded little-endian regardless of the endianness
	// bit, so readers can resolve the byte order from it.
	Options uint16

	// CompressionType is the format.CompressionType applied to the body.
	CompressionType uint8
}

var validBodyCompressions = map[uint8]struct{}{
	uint8(format.CompressionNone): {},
	uint8(format.CompressionZstd): {},
	uint8(format.CompressionS2):   {},
	uint8(format.CompressionLZ4):  {},
}

// NewEnvelopeFlag creates an EnvelopeFlag with default settings:
// little-endian byte order and zstd body compression.
func NewEnvelopeFlag() EnvelopeFlag {
	flag := EnvelopeFlag{
		Options:         MagicEnvelopeV1Opt,
		CompressionType: uint8(format.CompressionZstd),
	}
	flag.WithLittleEndian()

	return flag
}

// IsLittleEndian returns whether the envelope data is little-endian.
func (f EnvelopeFlag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the envelope data is big-endian.
func (f EnvelopeFlag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *EnvelopeFlag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *EnvelopeFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// MagicNumber returns the magic number from the Options field.
func (f EnvelopeFlag) MagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// IsValidMagicNumber checks if the magic number is valid.
func (f EnvelopeFlag) IsValidMagicNumber() bool {
	return f.MagicNumber() == MagicEnvelopeV1Opt
}

// Compression returns the body compression type.
func (f EnvelopeFlag) Compression() format.CompressionType {
	return format.CompressionType(f.CompressionType)
}

// SetCompression sets the body compression type.
func (f *EnvelopeFlag) SetCompression(compression format.CompressionType) {
	f.CompressionType = uint8(compression)
}

// Validate checks if the flag contains valid values.
//
// Returns:
//   - error: errs.ErrInvalidMagicNumber for a bad magic number,
//     errs.ErrInvalidHeaderFlags for non-zero reserved bits,
//     errs.ErrInvalidCompressionType for an unknown compression type
func (f EnvelopeFlag) Validate() error {
	if !f.IsValidMagicNumber() {
		return errs.ErrInvalidMagicNumber
	}

	if f.Options&ReservedBitsMask != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if _, ok := validBodyCompressions[f.CompressionType]; !ok {
		return errs.ErrInvalidCompressionType
	}

	return nil
}

// GetEndianEngine returns the endian engine selected by the endianness bit.
func (f EnvelopeFlag) GetEndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
