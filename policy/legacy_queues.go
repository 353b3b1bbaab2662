package policy

import (
	"sync"

	"github.com/xcpgo/xcpcore/daqmodel"
	"github.com/xcpgo/xcpcore/format"
)

// categoryQueue is an unbounded, thread-safe FIFO with a blocking Pop: Go's
// rendition of the "mutex + condition variable" queue spec §4.H calls for.
// Push never blocks (it only takes a mutex and appends); Pop blocks on a
// notify channel when empty, so multiple waiters can each be woken without
// a condition variable's broadcast/signal distinction.
type categoryQueue struct {
	mu     sync.Mutex
	buf    []daqmodel.Frame
	notify chan struct{}
	closed bool
}

func newCategoryQueue() *categoryQueue {
	return &categoryQueue{notify: make(chan struct{}, 1)}
}

func (q *categoryQueue) push(f daqmodel.Frame) {
	q.mu.Lock()
	q.buf = append(q.buf, f)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Pop blocks until a frame is available or the queue is closed, in which
// case it returns (Frame{}, false).
func (q *categoryQueue) Pop() (daqmodel.Frame, bool) {
	for {
		q.mu.Lock()
		if len(q.buf) > 0 {
			f := q.buf[0]
			q.buf = q.buf[1:]
			more := len(q.buf) > 0 || q.closed
			q.mu.Unlock()

			if more {
				// Pass the wakeup on to the next waiter.
				select {
				case q.notify <- struct{}{}:
				default:
				}
			}

			return f, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			// Pass the wakeup on so every blocked waiter sees the close.
			select {
			case q.notify <- struct{}{}:
			default:
			}

			return daqmodel.Frame{}, false
		}

		<-q.notify
	}
}

func (q *categoryQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// LegacyQueues fans frames out into one unbounded queue per category:
// producers (Feed) push without blocking, consumers Pop from whichever
// category queue they're interested in. A sync.WaitGroup tracks in-flight
// Feed calls so Finalize never closes a queue out from under a concurrent
// push.
type LegacyQueues struct {
	filterSet
	queues map[format.FrameCategory]*categoryQueue
	wg     sync.WaitGroup
}

// NewLegacyQueues creates one queue per non-filtered category.
func NewLegacyQueues(filterOut ...format.FrameCategory) *LegacyQueues {
	fs := newFilterSet(filterOut...)
	lq := &LegacyQueues{filterSet: fs, queues: make(map[format.FrameCategory]*categoryQueue)}

	for c := format.CategoryMeta; c <= format.CategoryStim; c++ {
		if fs.ShouldFilter(c) {
			continue
		}
		lq.queues[c] = newCategoryQueue()
	}

	return lq
}

// Queue returns the queue for category, or nil if that category was
// filtered out at construction.
func (lq *LegacyQueues) Queue(category format.FrameCategory) *categoryQueue {
	return lq.queues[category]
}

func (lq *LegacyQueues) Feed(category format.FrameCategory, counter uint16, timestamp uint64, payload []byte) error {
	lq.wg.Add(1)
	defer lq.wg.Done()

	q, ok := lq.queues[category]
	if !ok {
		return nil
	}
	q.push(daqmodel.Frame{Category: category, Counter: counter, Timestamp: timestamp, Payload: payload})

	return nil
}

// Finalize waits for any in-flight Feed calls to finish pushing, then
// closes every queue so blocked Pop callers unblock with ok == false.
func (lq *LegacyQueues) Finalize() error {
	lq.wg.Wait()
	for _, q := range lq.queues {
		q.close()
	}

	return nil
}
