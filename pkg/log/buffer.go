package log

import (
	"fmt"
	"io"
	"sync"
)

const defaultBufferEntries = 100

// Buffer is an [io.Writer] that keeps the most recent writes in memory. It
// holds log output while the TUI owns the terminal.
type Buffer struct {
	entries [][]byte
	start   int
	n       int
	dropped int
	mu      sync.Mutex
}

// NewBuffer creates a [Buffer] holding up to capacity entries. Non-positive
// capacities use a default of 100.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = defaultBufferEntries
	}

	return &Buffer{entries: make([][]byte, capacity)}
}

// Write stores a copy of p as one entry, evicting the oldest when full.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	entry := make([]byte, len(p))
	copy(entry, p)

	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.entries)
	if b.n < capacity {
		b.entries[(b.start+b.n)%capacity] = entry
		b.n++
	} else {
		b.entries[b.start] = entry
		b.start = (b.start + 1) % capacity
		b.dropped++
	}

	return len(p), nil
}

// Entries returns copies of the stored entries, oldest first.
func (b *Buffer) Entries() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([][]byte, 0, b.n)
	for i := range b.n {
		e := b.entries[(b.start+i)%len(b.entries)]
		out = append(out, append([]byte(nil), e...))
	}

	return out
}

// Len returns the number of stored entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.n
}

// Dropped returns how many entries were evicted.
func (b *Buffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.dropped
}

// WriteTo writes the stored entries to w, oldest first.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, e := range b.Entries() {
		n, err := w.Write(e)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("write log entry: %w", err)
		}
	}

	return total, nil
}
