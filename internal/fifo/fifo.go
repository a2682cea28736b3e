// Package fifo implements a bounded, lock-free ring buffer of fixed-size
// 14-byte message slots, wait-free for exactly one producer and one
// consumer. It decouples the transport I/O thread (the producer) from the
// decode thread (the consumer) without a mutex: the two goroutines only ever
// touch the two atomic indices, and slot ownership passes between them by
// advancing those indices rather than by copying.
package fifo

import "sync/atomic"

// Slot is one fixed-size 112-bit Mode-S frame buffer.
type Slot [14]byte

// FIFO is a single-producer/single-consumer ring of capacity slots, backed
// by capacity+1 storage slots so a full ring is distinguishable from an
// empty one purely by comparing the two indices.
type FIFO struct {
	slots    []Slot
	capacity uint32 // usable capacity; storage has capacity+1 slots

	writeIdx atomic.Uint32
	readIdx  atomic.Uint32
}

// New creates a FIFO holding up to capacity frames.
func New(capacity int) *FIFO {
	if capacity < 1 {
		capacity = 1
	}
	return &FIFO{
		slots:    make([]Slot, capacity+1),
		capacity: uint32(capacity),
	}
}

func (f *FIFO) next(i uint32) uint32 {
	i++
	if int(i) == len(f.slots) {
		return 0
	}
	return i
}

// GetWriteSlot returns a pointer to the slot the producer should fill next,
// or ok=false if the ring is full (the next write position would collide
// with the consumer's read position). The producer may only write into the
// returned slot; publishing it is a separate step (CommitWrite).
func (f *FIFO) GetWriteSlot() (slot *Slot, ok bool) {
	w := f.writeIdx.Load()
	if f.next(w) == f.readIdx.Load() {
		return nil, false
	}
	return &f.slots[w], true
}

// CommitWrite publishes the slot last handed out by GetWriteSlot, making it
// visible to the consumer, and advances the write index with release
// ordering relative to the index store.
func (f *FIFO) CommitWrite() {
	f.writeIdx.Store(f.next(f.writeIdx.Load()))
}

// GetReadSlot returns a pointer to the oldest unconsumed slot, or ok=false
// if none is available (the ring is empty).
func (f *FIFO) GetReadSlot() (slot *Slot, ok bool) {
	r := f.readIdx.Load()
	if r == f.writeIdx.Load() {
		return nil, false
	}
	return &f.slots[r], true
}

// ReleaseRead frees the slot last handed out by GetReadSlot, returning it to
// the producer's available range.
func (f *FIFO) ReleaseRead() {
	f.readIdx.Store(f.next(f.readIdx.Load()))
}

// Clear resets the FIFO to empty. Not safe to call concurrently with the
// producer or consumer; callers must externally synchronize it (e.g. only
// invoke it while both threads are stopped).
func (f *FIFO) Clear() {
	f.writeIdx.Store(0)
	f.readIdx.Store(0)
}

// Len reports the number of committed, unread frames currently queued.
func (f *FIFO) Len() int {
	w := int(f.writeIdx.Load())
	r := int(f.readIdx.Load())
	if w >= r {
		return w - r
	}
	return len(f.slots) - r + w
}

// Capacity reports the usable capacity (N, not N+1) of the ring.
func (f *FIFO) Capacity() int {
	return int(f.capacity)
}
