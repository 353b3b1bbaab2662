package recorder

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pierrec/lz4/v4"

	"github.com/xcpgo/xcpcore/daqmodel"
	"github.com/xcpgo/xcpcore/errs"
	"github.com/xcpgo/xcpcore/format"
)

// Reader sequentially decodes a log file produced by Writer: one
// NextBlock call per container, in file order.
type Reader struct {
	file    *os.File
	mapping mmap.MMap

	version          uint16
	options          uint16
	numContainers    uint64
	recordCount      uint64
	sizeCompressed   uint64
	sizeUncompressed uint64

	metadata *daqmodel.MeasurementParameters

	firstContainerOffset int64
	offset               int64
	containersRead        uint64
}

// NewReader opens path, verifies the magic and file header, and decodes the
// embedded MeasurementParameters metadata if the HAS_METADATA option bit is
// set.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", errs.ErrIoFailed, path, err)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: mmap %s: %v", errs.ErrIoFailed, path, err)
	}

	r := &Reader{file: f, mapping: m}
	if err := r.readHeader(); err != nil {
		r.mapping.Unmap()
		r.file.Close()
		return nil, err
	}

	return r, nil
}

func (r *Reader) readHeader() error {
	if len(r.mapping) < magicSize+headerBodySize {
		return fmt.Errorf("%w: file too small for header", errs.ErrInvalidHeaderSize)
	}
	if string(r.mapping[0:magicSize]) != magic {
		return errs.ErrMagicMismatch
	}

	b := r.mapping[magicSize : magicSize+headerBodySize]

	hdrSize := binary.LittleEndian.Uint16(b[0:2])
	if hdrSize != hdrSizeValue {
		return fmt.Errorf("%w: got %d want %d", errs.ErrHeaderSizeMismatch, hdrSize, hdrSizeValue)
	}

	r.version = binary.LittleEndian.Uint16(b[2:4])
	if r.version != formatVersion {
		return fmt.Errorf("%w: got 0x%04x want 0x%04x", errs.ErrVersionMismatch, r.version, formatVersion)
	}

	r.options = binary.LittleEndian.Uint16(b[4:6])
	r.numContainers = binary.LittleEndian.Uint64(b[6:14])
	r.recordCount = binary.LittleEndian.Uint64(b[14:22])
	r.sizeCompressed = binary.LittleEndian.Uint64(b[22:30])
	r.sizeUncompressed = binary.LittleEndian.Uint64(b[30:38])

	offset := int64(magicSize + headerBodySize)
	if r.options&optHasMetadata != 0 {
		if int64(len(r.mapping)) < offset+8 {
			return fmt.Errorf("%w: truncated metadata length", errs.ErrInvalidHeaderSize)
		}
		metaLen := binary.LittleEndian.Uint64(r.mapping[offset : offset+8])
		offset += 8
		if int64(len(r.mapping)) < offset+int64(metaLen) {
			return fmt.Errorf("%w: truncated metadata body", errs.ErrInvalidHeaderSize)
		}

		params, err := daqmodel.DecodeMeasurementParameters(r.mapping[offset : offset+int64(metaLen)])
		if err != nil {
			return err
		}
		r.metadata = &params
		offset += int64(metaLen)
	}

	r.firstContainerOffset = offset
	r.offset = offset

	return nil
}

// Metadata returns the embedded MeasurementParameters, or nil if the file
// carries none.
func (r *Reader) Metadata() *daqmodel.MeasurementParameters { return r.metadata }

// NumContainers returns the header's num_containers field.
func (r *Reader) NumContainers() uint64 { return r.numContainers }

// RecordCount returns the header's total record_count field.
func (r *Reader) RecordCount() uint64 { return r.recordCount }

// NextBlock decompresses and decodes the container at the current offset,
// returning its frames in file order. Returns (nil, false, nil) after the
// last container has been consumed.
func (r *Reader) NextBlock() ([]daqmodel.Frame, bool, error) {
	if r.containersRead >= r.numContainers {
		return nil, false, nil
	}

	if r.offset+containerHeaderSize > int64(len(r.mapping)) {
		return nil, false, fmt.Errorf("%w: container header truncated", errs.ErrInvalidHeaderSize)
	}

	hdr := r.mapping[r.offset : r.offset+containerHeaderSize]
	recordCount := binary.LittleEndian.Uint32(hdr[0:4])
	sizeCompressed := binary.LittleEndian.Uint32(hdr[4:8])
	sizeUncompressed := binary.LittleEndian.Uint32(hdr[8:12])

	compStart := r.offset + containerHeaderSize
	compEnd := compStart + int64(sizeCompressed)
	if compEnd > int64(len(r.mapping)) {
		return nil, false, fmt.Errorf("%w: compressed block truncated", errs.ErrDecompressionFailed)
	}

	dst := make([]byte, sizeUncompressed)
	n, err := lz4.UncompressBlock(r.mapping[compStart:compEnd], dst)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", errs.ErrDecompressionFailed, err)
	}
	dst = dst[:n]

	frames := make([]daqmodel.Frame, 0, recordCount)
	pos := 0
	for i := uint32(0); i < recordCount; i++ {
		if pos+frameHeaderSize > len(dst) {
			return nil, false, fmt.Errorf("%w: record header truncated", errs.ErrTruncatedBuffer)
		}

		category := format.FrameCategory(dst[pos])
		counter := binary.LittleEndian.Uint16(dst[pos+1 : pos+3])
		timestamp := binary.LittleEndian.Uint64(dst[pos+3 : pos+11])
		length := binary.LittleEndian.Uint16(dst[pos+11 : pos+13])
		pos += frameHeaderSize

		if pos+int(length) > len(dst) {
			return nil, false, fmt.Errorf("%w: record payload truncated", errs.ErrTruncatedBuffer)
		}
		payload := append([]byte(nil), dst[pos:pos+int(length)]...)
		pos += int(length)

		frames = append(frames, daqmodel.Frame{Category: category, Counter: counter, Timestamp: timestamp, Payload: payload})
	}

	r.offset = compEnd
	r.containersRead++

	return frames, true, nil
}

// Reset rewinds the reader to the first container.
func (r *Reader) Reset() {
	r.offset = r.firstContainerOffset
	r.containersRead = 0
}

// Close unmaps and closes the underlying file.
func (r *Reader) Close() error {
	if err := r.mapping.Unmap(); err != nil {
		return fmt.Errorf("%w: unmap: %v", errs.ErrIoFailed, err)
	}
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", errs.ErrIoFailed, err)
	}

	return nil
}
