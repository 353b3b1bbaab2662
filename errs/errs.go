// Package errs defines the sentinel errors shared across xcpcore packages.
//
// Errors are returned, never panicked, across package boundaries. Callers
// should use errors.Is to check for a specific sentinel; some sentinels wrap
// additional context (e.g. ErrIoFailed) via fmt.Errorf("%w: ...", ...).
package errs

import "errors"

var (
	// ErrMagicMismatch is returned when a log file's leading 16 bytes don't
	// match the expected magic. Fatal on reader open.
	ErrMagicMismatch = errors.New("xcpcore: file magic mismatch")

	// ErrHeaderSizeMismatch is returned when the file header's hdr_size field
	// doesn't match the expected fixed size. Fatal on reader open.
	ErrHeaderSizeMismatch = errors.New("xcpcore: file header size mismatch")

	// ErrVersionMismatch is returned when the file header's version field is
	// not supported. Fatal on reader open.
	ErrVersionMismatch = errors.New("xcpcore: file version mismatch")

	// ErrCompressionFailed is returned when LZ4 compression fails. Fatal.
	ErrCompressionFailed = errors.New("xcpcore: lz4 compression failed")

	// ErrDecompressionFailed is returned when LZ4 decompression fails. Fatal.
	ErrDecompressionFailed = errors.New("xcpcore: lz4 decompression failed")

	// ErrIoFailed wraps a failed syscall. Fatal.
	ErrIoFailed = errors.New("xcpcore: io operation failed")

	// ErrChecksumMismatch is logged by a framer when a computed checksum
	// doesn't match the received one; Feed does not return it. Recoverable:
	// the framer dumps the packet and resets.
	ErrChecksumMismatch = errors.New("xcpcore: checksum mismatch")

	// ErrBufferOverflow is logged by a framer whose internal buffer would
	// overflow; Feed does not return it. Recoverable: the framer resets.
	ErrBufferOverflow = errors.New("xcpcore: receive buffer overflow")

	// ErrUnsupportedType is returned when a type tag has no registered codec
	// (e.g. F16/BF16 support compiled out). Fatal during decode.
	ErrUnsupportedType = errors.New("xcpcore: unsupported type tag")

	// ErrUnsupportedTimestampSize is returned for a timestamp field width
	// outside {0,1,2,4}. Fatal during decode.
	ErrUnsupportedTimestampSize = errors.New("xcpcore: unsupported timestamp size")

	// ErrUnsupportedIDSize is returned for an id_field_size outside {1,2,3,4}.
	// Fatal during decode.
	ErrUnsupportedIDSize = errors.New("xcpcore: unsupported id field size")

	// ErrOffsetOutOfRange is returned when an ODT entry's offset runs past
	// the end of the payload. Fatal for the current frame only; the caller
	// resets the affected list state to IDLE.
	ErrOffsetOutOfRange = errors.New("xcpcore: odt entry offset out of range")

	// ErrCapacityExhausted is returned by resource pools under back-pressure.
	// Recoverable by the caller.
	ErrCapacityExhausted = errors.New("xcpcore: capacity exhausted")

	// ErrInvalidHeaderSize is returned when a fixed-size header is parsed
	// from a byte slice of the wrong length.
	ErrInvalidHeaderSize = errors.New("xcpcore: invalid header size")

	// ErrWriterFinalized is returned by a writer operation attempted after
	// Finalize has completed or the writer has been poisoned by a fatal
	// error observed on the collector goroutine.
	ErrWriterFinalized = errors.New("xcpcore: writer finalized or poisoned")

	// ErrMissingMetadata is returned when constructing a replay decoder from
	// a log file that has no embedded MeasurementParameters.
	ErrMissingMetadata = errors.New("xcpcore: log file has no embedded metadata")

	// ErrInvalidDaqNumber is returned when a PID resolves to a DAQ list
	// number outside the configured table.
	ErrInvalidDaqNumber = errors.New("xcpcore: daq list number out of range")

	// ErrTruncatedBuffer is returned when deserializing a length-prefixed
	// binary structure (MeasurementParameters, McObject) from a buffer
	// shorter than a prefix declares.
	ErrTruncatedBuffer = errors.New("xcpcore: truncated buffer during deserialize")
)
