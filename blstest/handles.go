//go:build !wasip1

package blstest

import "sync"

// Handles is a table of host resources keyed by the handle given to the
// guest. Handles start at 1 so zero never names a resource. The zero value
// is ready to use.
type Handles[T any] struct {
	items map[uint32]T
	mu    sync.Mutex
	next  uint32
}

// Add stores v and returns its handle.
func (h *Handles[T]) Add(v T) uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.items == nil {
		h.items = make(map[uint32]T)
	}
	h.next++
	h.items[h.next] = v
	return h.next
}

// Get returns the resource behind id.
func (h *Handles[T]) Get(id uint32) (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.items[id]
	return v, ok
}

// Remove drops id and reports whether it was open.
func (h *Handles[T]) Remove(id uint32) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.items[id]
	delete(h.items, id)
	return ok
}

// Len returns the number of open handles.
func (h *Handles[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

// stream is a byte source read in chunks until exhausted.
type stream struct {
	data []byte
	off  int
}

func (s *stream) read(buf []byte) uint32 {
	n := copy(buf, s.data[s.off:])
	s.off += n
	return uint32(n)
}
