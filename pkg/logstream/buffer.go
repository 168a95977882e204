package logstream

import "sync"

// DefaultCapacity bounds the record buffer when Config.Capacity is zero.
// Matches what a log viewer can sensibly render while keeping memory flat.
const DefaultCapacity = 500

// Buffer is a bounded FIFO of decoded records. Once full, appending evicts
// the oldest record; arrival order among retained records is preserved.
type Buffer struct {
	mu      sync.Mutex
	cap     int
	records []Record
}

// NewBuffer returns a buffer bounded at capacity records, or DefaultCapacity
// when capacity is not positive.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{cap: capacity}
}

// Append adds r, evicting from the front when the buffer is full.
func (b *Buffer) Append(r Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.records) == b.cap {
		copy(b.records, b.records[1:])
		b.records[b.cap-1] = r
		return
	}
	b.records = append(b.records, r)
}

// Records returns a snapshot of the retained records, oldest first.
func (b *Buffer) Records() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Record, len(b.records))
	copy(out, b.records)
	return out
}

// Len reports the number of retained records.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// Clear drops all retained records. The capacity is unchanged.
func (b *Buffer) Clear() {
	b.mu.Lock()
	b.records = b.records[:0]
	b.mu.Unlock()
}
