package log

import "sync"

// RingBuffer keeps the most recent log lines in insertion order.
type RingBuffer struct {
	mu       sync.RWMutex
	entries  []string
	capacity int
	head     int // next write position
	size     int
}

// NewRingBuffer creates a buffer holding at most capacity entries.
// Non-positive capacities are treated as 1.
func NewRingBuffer(capacity int) *RingBuffer {
	capacity = max(capacity, 1)
	return &RingBuffer{
		entries:  make([]string, capacity),
		capacity: capacity,
	}
}

// Add appends an entry, dropping the oldest one when full.
func (r *RingBuffer) Add(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.head] = entry
	r.head = (r.head + 1) % r.capacity
	r.size = min(r.size+1, r.capacity)
}

// Len returns the number of stored entries.
func (r *RingBuffer) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// GetLast returns up to n of the newest entries, oldest first.
// It returns nil when there is nothing to return.
func (r *RingBuffer) GetLast(n int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n = min(n, r.size)
	if n <= 0 {
		return nil
	}

	out := make([]string, 0, n)
	start := r.head - n + r.capacity
	for i := range n {
		out = append(out, r.entries[(start+i)%r.capacity])
	}
	return out
}

// Clear empties the buffer.
func (r *RingBuffer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.entries)
	r.head = 0
	r.size = 0
}
