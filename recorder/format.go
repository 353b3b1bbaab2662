// Package recorder implements the on-disk log format: a chunked,
// LZ4-HC-compressed, memory-mapped append-only file of Frames, plus a
// sequential reader and a replay decoder built on top of it.
package recorder

const (
	magic     = "ASAMINT::XCP_RAW"
	magicSize = 16

	// headerBodySize is the 38-byte packed file header that follows the
	// magic. hdrSize (the field stored inside that header) is the two
	// combined: magicSize + headerBodySize.
	headerBodySize = 38
	hdrSizeValue   = magicSize + headerBodySize

	formatVersion = 0x0100

	optHasMetadata = 0x0004
	optRelativeTS  = 0x0002

	// containerHeaderSize is {record_count:u32, size_compressed:u32,
	// size_uncompressed:u32}.
	containerHeaderSize = 12

	// frameHeaderSize is {category:u8, counter:u16, timestamp:u64, length:u16}.
	frameHeaderSize = 1 + 2 + 8 + 2
)
