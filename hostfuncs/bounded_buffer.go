package hostfuncs

import (
	"bytes"
	"sync"
)

// DefaultMaxOutputSize is the default limit for a guest's captured stdout
// and stderr (10MB).
const DefaultMaxOutputSize = 10 * 1024 * 1024

// BoundedBuffer is an io.Writer that keeps at most limit bytes and
// silently discards the rest. It is safe for concurrent use, so it can
// collect a guest's stdout and stderr while the host reads it.
type BoundedBuffer struct {
	buffer    bytes.Buffer
	limit     int
	truncated bool
	mu        sync.Mutex
}

// NewBoundedBuffer creates a new BoundedBuffer with the specified limit.
// A limit of zero or less selects DefaultMaxOutputSize.
func NewBoundedBuffer(limit int) *BoundedBuffer {
	if limit <= 0 {
		limit = DefaultMaxOutputSize
	}
	return &BoundedBuffer{limit: limit}
}

// Write implements io.Writer. It always reports len(p) so writers never
// see a short write once the limit is reached.
func (b *BoundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(p)
	remaining := b.limit - b.buffer.Len()
	if len(p) > remaining {
		b.truncated = true
		p = p[:max(remaining, 0)]
	}
	b.buffer.Write(p)
	return n, nil
}

// Truncated reports whether any data was discarded.
func (b *BoundedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}

// String returns the buffer contents as a string.
func (b *BoundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.String()
}

// Bytes returns a copy of the buffer contents.
func (b *BoundedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buffer.Bytes())
}

// Lines returns the non-empty newline separated lines of the buffer. A
// trailing partial line is included.
func (b *BoundedBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for line := range bytes.Lines(b.buffer.Bytes()) {
		if line = bytes.TrimRight(line, "\r\n"); len(line) > 0 {
			out = append(out, string(line))
		}
	}
	return out
}

// Len returns the current length of the buffer.
func (b *BoundedBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.Len()
}

// Reset empties the buffer and clears the truncation flag.
func (b *BoundedBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer.Reset()
	b.truncated = false
}
