// Package abi holds the buffer helpers shared by the host import bindings.
//
// Host imports take guest memory as (pointer, length) pairs and report
// results through out-parameters. On wasip1 a Go pointer is already an
// offset into linear memory, so buffers are passed in place without
// copying and stay alive for the duration of the call.
package abi

import (
	"unsafe"
)

// ChunkSize is the buffer size used for streamed host reads.
const ChunkSize = 1024

// Ptr returns a pointer to the first byte of b, or nil for an empty slice.
func Ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

// StringPtr returns a pointer to the bytes of s, or nil for an empty string.
// The host must treat the memory as read-only.
func StringPtr(s string) unsafe.Pointer {
	if s == "" {
		return nil
	}
	return unsafe.Pointer(unsafe.StringData(s))
}

// Len returns the length of v as the 32-bit value the ABI expects.
func Len[T ~[]byte | ~string](v T) uint32 {
	return uint32(len(v))
}

// Bytes views n bytes starting at p. The mock bindings use it to turn raw
// import arguments back into slices before handing them to a backend.
func Bytes(p unsafe.Pointer, n uint32) []byte {
	if p == nil || n == 0 {
		return nil
	}
	//nolint:gosec // G103: the pointer comes from a live Go slice or string
	return unsafe.Slice((*byte)(p), n)
}

// ReadFunc performs one host read into buf and returns the byte count and
// the host status code.
type ReadFunc func(buf []byte) (n uint32, code uint32)

// ReadAll drains a streamed host resource. It reads ChunkSize bytes at a
// time until the host reports zero bytes or a non-zero status. Data read
// before a failing status is returned along with the code.
func ReadAll(read ReadFunc) ([]byte, uint32) {
	var out []byte
	buf := make([]byte, ChunkSize)
	for {
		n, code := read(buf)
		if code != 0 {
			return out, code
		}
		if n == 0 {
			return out, 0
		}
		if n > uint32(len(buf)) {
			n = uint32(len(buf))
		}
		out = append(out, buf[:n]...)
	}
}
