package section

const (
	// Bit masks for the Options flag word.
	EndiannessMask   = 0x0001 // endianness bit (bit 0), 0=little 1=big
	ReservedBitsMask = 0x000E // reserved bits (bits 1-3), must be zero
	MagicNumberMask  = 0xFFF0 // magic number (bits 4-15)

	// MagicEnvelopeV1Opt is the version 1 magic number of the envelope
	// format, stored in bits 4-15 of the Options flag word.
	MagicEnvelopeV1Opt = 0xCA10
)

// Offsets and section sizes in the envelope file.
const (
	HeaderSize      = 32         // fixed header size in bytes
	ColumnEntrySize = 32         // fixed column entry size in bytes
	EntriesOffset   = HeaderSize // byte offset where column entries start
)
