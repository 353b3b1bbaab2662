package recorder

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
	"github.com/pierrec/lz4/v4"
	"github.com/sirupsen/logrus"

	"github.com/xcpgo/xcpcore/daqmodel"
	"github.com/xcpgo/xcpcore/errs"
	"github.com/xcpgo/xcpcore/format"
	"github.com/xcpgo/xcpcore/internal/pool"
	"github.com/xcpgo/xcpcore/policy"
)

var _ policy.FrameSink = (*Writer)(nil)

// framePool recycles the per-frame payload copies crossing the
// producer/collector boundary: one Get/Put pair per AddFrame call instead of
// a fresh allocation, on the hot path of a high-rate DAQ session.
var framePool = pool.NewByteBufferPool(512, 64*1024)

// queuedFrame is the value carried across the producer/collector boundary.
// buf is a pooled private copy; the caller's slice is never retained past
// AddFrame returning.
type queuedFrame struct {
	category  format.FrameCategory
	counter   uint16
	timestamp uint64
	buf       *pool.ByteBuffer
}

// WriterOption configures a Writer at construction.
type WriterOption func(*Writer)

// WithWriterLogger overrides the logger used for collector-goroutine
// diagnostics. Defaults to logrus.StandardLogger().
func WithWriterLogger(log *logrus.Logger) WriterOption {
	return func(w *Writer) { w.log = log }
}

// Writer is a chunked, LZ4-HC-compressed, memory-mapped append-only log.
// Exactly one collector goroutine drains the frame queue, compresses, and
// writes to the mapping; any number of goroutines may call AddFrame
// concurrently. Finalize is idempotent and safe to call from any goroutine.
type Writer struct {
	file    *os.File
	mapping mmap.MMap

	chunkBytes int
	hardLimit  int64

	hasMetadata bool
	metaOffset  int64
	metaLen     int64

	// writeOffset, pending*, and the running totals are touched only by
	// the collector goroutine.
	writeOffset      int64
	pending          []byte
	pendingRecords   uint32
	numContainers    uint64
	recordCount      uint64
	sizeCompressed   uint64
	sizeUncompressed uint64
	collectorErr     error

	queue   chan queuedFrame
	wg      sync.WaitGroup
	active  sync.WaitGroup
	mu      sync.Mutex
	closed  bool
	once    sync.Once
	finalErr error

	log *logrus.Logger
}

// NewWriter creates path, extends it to preallocMB megabytes, memory-maps it,
// reserves the magic and file header (plus metadata, if non-nil), and starts
// the collector goroutine. chunkBytes is the uncompressed-buffer threshold
// that triggers an LZ4-HC compression pass.
func NewWriter(path string, preallocMB int, chunkBytes int, metadata *daqmodel.MeasurementParameters, opts ...WriterOption) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", errs.ErrIoFailed, path, err)
	}

	hardLimit := int64(preallocMB) * 1024 * 1024
	if hardLimit < int64(hdrSizeValue) {
		hardLimit = int64(hdrSizeValue) + int64(chunkBytes)*2
	}
	if err := f.Truncate(hardLimit); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: truncate %s: %v", errs.ErrIoFailed, path, err)
	}

	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: mmap %s: %v", errs.ErrIoFailed, path, err)
	}

	w := &Writer{
		file:       f,
		mapping:    m,
		chunkBytes: chunkBytes,
		hardLimit:  hardLimit,
		queue:      make(chan queuedFrame, 1024),
		log:        logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(w)
	}

	copy(w.mapping[0:magicSize], magic)

	offset := int64(hdrSizeValue)
	if metadata != nil {
		meta := daqmodel.EncodeMeasurementParameters(*metadata)
		w.hasMetadata = true
		w.metaOffset = offset
		w.metaLen = int64(len(meta))
		binary.LittleEndian.PutUint64(w.mapping[offset:offset+8], uint64(len(meta)))
		copy(w.mapping[offset+8:], meta)
		offset += 8 + int64(len(meta))
	}
	w.writeOffset = offset

	w.writeHeader()

	w.wg.Add(1)
	go w.collect()

	return w, nil
}

func (w *Writer) writeHeader() {
	b := w.mapping[magicSize : magicSize+headerBodySize]

	var opts uint16
	if w.hasMetadata {
		opts |= optHasMetadata
	}

	binary.LittleEndian.PutUint16(b[0:2], hdrSizeValue)
	binary.LittleEndian.PutUint16(b[2:4], formatVersion)
	binary.LittleEndian.PutUint16(b[4:6], opts)
	binary.LittleEndian.PutUint64(b[6:14], w.numContainers)
	binary.LittleEndian.PutUint64(b[14:22], w.recordCount)
	binary.LittleEndian.PutUint64(b[22:30], w.sizeCompressed)
	binary.LittleEndian.PutUint64(b[30:38], w.sizeUncompressed)
}

// AddFrame enqueues one frame for eventual compression and append. It never
// blocks on I/O or compression; it may briefly block if the internal queue
// is full. Safe for concurrent use. Returns ErrWriterFinalized once
// Finalize has begun.
func (w *Writer) AddFrame(category format.FrameCategory, counter uint16, timestamp uint64, payload []byte) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return errs.ErrWriterFinalized
	}
	w.active.Add(1)
	w.mu.Unlock()
	defer w.active.Done()

	bb := framePool.Get()
	bb.MustWrite(payload)
	w.queue <- queuedFrame{category: category, counter: counter, timestamp: timestamp, buf: bb}

	return nil
}

func (w *Writer) collect() {
	defer w.wg.Done()

	for f := range w.queue {
		w.appendFrame(f)
		if len(w.pending) >= w.chunkBytes {
			if err := w.compressPending(); err != nil {
				w.poison(err, "recorder: compression failed")
			}
		}
	}

	if len(w.pending) > 0 {
		if err := w.compressPending(); err != nil {
			w.poison(err, "recorder: final compression failed")
		}
	}
}

// poison records a fatal collector error and marks the writer closed, so
// subsequent AddFrame calls become a no-op instead of enqueueing onto a
// collector that has stopped making progress.
func (w *Writer) poison(err error, msg string) {
	w.mu.Lock()
	w.collectorErr = err
	w.closed = true
	w.mu.Unlock()

	w.log.WithError(err).Error(msg)
}

func (w *Writer) appendFrame(f queuedFrame) {
	payload := f.buf.Bytes()

	hdr := make([]byte, frameHeaderSize)
	hdr[0] = byte(f.category)
	binary.LittleEndian.PutUint16(hdr[1:3], f.counter)
	binary.LittleEndian.PutUint64(hdr[3:11], f.timestamp)
	binary.LittleEndian.PutUint16(hdr[11:13], uint16(len(payload)))

	w.pending = append(w.pending, hdr...)
	w.pending = append(w.pending, payload...)
	w.pendingRecords++

	framePool.Put(f.buf)
}

func (w *Writer) compressPending() error {
	if w.pendingRecords == 0 {
		return nil
	}

	bound := lz4.CompressBlockBound(len(w.pending))
	needed := w.writeOffset + containerHeaderSize + int64(bound)
	if needed > int64(len(w.mapping)) {
		if err := w.grow(needed); err != nil {
			return err
		}
	}

	dst := w.mapping[w.writeOffset+containerHeaderSize : w.writeOffset+containerHeaderSize+int64(bound)]
	c := lz4.CompressorHC{Level: lz4.CompressionLevel(12)}

	n, err := c.CompressBlock(w.pending, dst)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrCompressionFailed, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: block did not fit the destination bound", errs.ErrCompressionFailed)
	}

	hdr := w.mapping[w.writeOffset : w.writeOffset+containerHeaderSize]
	binary.LittleEndian.PutUint32(hdr[0:4], w.pendingRecords)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(n))
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(len(w.pending)))

	w.writeOffset += containerHeaderSize + int64(n)
	w.numContainers++
	w.recordCount += uint64(w.pendingRecords)
	w.sizeCompressed += uint64(n)
	w.sizeUncompressed += uint64(len(w.pending))

	w.pending = w.pending[:0]
	w.pendingRecords = 0

	if w.writeOffset > int64(len(w.mapping))/2 {
		if err := w.grow(int64(len(w.mapping)) * 2); err != nil {
			return err
		}
	}

	return nil
}

// grow doubles the backing file (at least up to minSize), remaps it, and
// rewrites the header so it stays consistent through the resize.
func (w *Writer) grow(minSize int64) error {
	newLimit := w.hardLimit
	for newLimit < minSize {
		newLimit *= 2
	}

	if err := w.mapping.Unmap(); err != nil {
		return fmt.Errorf("%w: unmap during grow: %v", errs.ErrIoFailed, err)
	}
	if err := w.file.Truncate(newLimit); err != nil {
		return fmt.Errorf("%w: truncate during grow: %v", errs.ErrIoFailed, err)
	}

	m, err := mmap.Map(w.file, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: remap during grow: %v", errs.ErrIoFailed, err)
	}

	w.mapping = m
	w.hardLimit = newLimit
	w.writeHeader()

	return nil
}

// Finalize stops the collector, compresses any residual buffered frames,
// rewrites the file header with final totals, unmaps, truncates the file to
// the exact used length, and closes it. Idempotent: later calls return the
// result of the first.
func (w *Writer) Finalize() error {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()

		w.active.Wait()
		close(w.queue)
		w.wg.Wait()

		ferr := w.collectorErr

		w.writeHeader()

		if err := w.mapping.Flush(); err != nil && ferr == nil {
			ferr = fmt.Errorf("%w: flush: %v", errs.ErrIoFailed, err)
		}
		if err := w.mapping.Unmap(); err != nil && ferr == nil {
			ferr = fmt.Errorf("%w: unmap: %v", errs.ErrIoFailed, err)
		}
		if err := w.file.Truncate(w.writeOffset); err != nil && ferr == nil {
			ferr = fmt.Errorf("%w: truncate: %v", errs.ErrIoFailed, err)
		}
		if err := w.file.Close(); err != nil && ferr == nil {
			ferr = fmt.Errorf("%w: close: %v", errs.ErrIoFailed, err)
		}

		w.finalErr = ferr
	})

	return w.finalErr
}
