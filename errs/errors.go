// Package errs defines the sentinel error values shared across catlas
// packages.
//
// Call sites wrap these sentinels with additional detail via
// fmt.Errorf("%w: ...", errs.ErrX) so callers can classify failures with
// errors.Is while still receiving a descriptive message.
package errs

import "errors"

// Coordinate and reference encoding errors.
var (
	// ErrInvalidEncoding indicates a byte string does not decode to the
	// expected shape, e.g. a coordinate buffer whose length is not a
	// multiple of the per-dimension width or does not match the stated rank.
	ErrInvalidEncoding = errors.New("invalid encoding")
)

// Table and region errors.
var (
	// ErrRegionOutOfBounds indicates a table region or row offset exceeds
	// the row count of the table it addresses, or has from > to.
	ErrRegionOutOfBounds = errors.New("region out of bounds")

	// ErrMalformedRow indicates a decoded row violates the payload
	// mutual-exclusion rule: the nullable variant columns do not identify
	// exactly one payload kind, or the offset column contradicts the kind.
	ErrMalformedRow = errors.New("malformed row")

	// ErrSourceFailure indicates the record source feeding a build
	// operation reported an error. Construction aborts and no table is
	// produced.
	ErrSourceFailure = errors.New("record source failure")
)

// Columnar batch errors.
var (
	// ErrInvalidSchema indicates a batch schema does not match the schema
	// required by the consumer.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrInvalidColumn indicates a column is inconsistent with its field
	// declaration, e.g. a null appended to a non-nullable column or a type
	// mismatch.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrLengthMismatch indicates columns of one batch disagree on row
	// count.
	ErrLengthMismatch = errors.New("column length mismatch")

	// ErrColumnTooLarge indicates a variable-length column's value buffer
	// grew past what its uint32 offset encoding can address.
	ErrColumnTooLarge = errors.New("column too large")
)

// Envelope format errors.
var (
	// ErrInvalidEnvelope indicates envelope bytes are truncated or
	// structurally inconsistent.
	ErrInvalidEnvelope = errors.New("invalid envelope")

	// ErrInvalidMagicNumber indicates the envelope header does not carry
	// the expected magic number.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrInvalidHeaderFlags indicates the envelope header flag word has an
	// invalid combination, e.g. an unknown compression type.
	ErrInvalidHeaderFlags = errors.New("invalid header flags")

	// ErrInvalidCompressionType indicates an unsupported compression type
	// identifier.
	ErrInvalidCompressionType = errors.New("invalid compression type")

	// ErrChecksumMismatch indicates the envelope payload does not hash to
	// the checksum recorded in the header.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Object store errors.
var (
	// ErrObjectNotFound indicates the requested key does not exist in the
	// object store.
	ErrObjectNotFound = errors.New("object not found")
)
