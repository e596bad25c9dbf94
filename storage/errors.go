package storage

import "errors"

var (
	// ErrNotFound indicates no record exists for the given production id.
	ErrNotFound = errors.New("storage: record not found")

	// ErrNilRecord indicates an attempt to store a nil record.
	ErrNilRecord = errors.New("storage: record is nil")

	// ErrIOFailure indicates the database could not be opened or written.
	ErrIOFailure = errors.New("storage: I/O failure")

	// ErrUnsupportedCompression indicates an unsupported compression scheme.
	ErrUnsupportedCompression = errors.New("storage: unsupported compression scheme")

	// ErrDecompressedTooLarge indicates decompressed data exceeds the safety limit.
	ErrDecompressedTooLarge = errors.New("storage: decompressed data exceeds maximum size")

	// ErrCorruptRecord indicates a stored value could not be decoded.
	ErrCorruptRecord = errors.New("storage: corrupt record")
)
