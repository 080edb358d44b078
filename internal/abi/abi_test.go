package abi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPtrAndBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "single byte", data: []byte{0x7f}},
		{name: "text", data: []byte("hello host")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Bytes(Ptr(tt.data), Len(tt.data))
			assert.Equal(t, len(tt.data), len(view))
			assert.True(t, bytes.Equal(tt.data, view))
		})
	}
}

func TestBytes_SharesMemory(t *testing.T) {
	buf := make([]byte, 4)
	view := Bytes(Ptr(buf), Len(buf))
	copy(view, "abcd")
	assert.Equal(t, "abcd", string(buf), "writes through the view must land in the original buffer")
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))

	s := "https://example.com"
	assert.Equal(t, s, string(Bytes(StringPtr(s), Len(s))))
}

func TestReadAll(t *testing.T) {
	t.Run("multiple chunks", func(t *testing.T) {
		src := bytes.Repeat([]byte("x"), ChunkSize*2+17)
		calls := 0
		data, code := ReadAll(func(buf []byte) (uint32, uint32) {
			calls++
			n := copy(buf, src)
			src = src[n:]
			return uint32(n), 0
		})
		require.Equal(t, uint32(0), code)
		assert.Len(t, data, ChunkSize*2+17)
		assert.Equal(t, 4, calls, "three data chunks and one terminating zero read")
	})

	t.Run("empty resource", func(t *testing.T) {
		data, code := ReadAll(func(buf []byte) (uint32, uint32) { return 0, 0 })
		assert.Equal(t, uint32(0), code)
		assert.Empty(t, data)
	})

	t.Run("error after partial data", func(t *testing.T) {
		calls := 0
		data, code := ReadAll(func(buf []byte) (uint32, uint32) {
			calls++
			if calls == 1 {
				return uint32(copy(buf, "part")), 0
			}
			return 0, 3
		})
		assert.Equal(t, uint32(3), code)
		assert.Equal(t, "part", string(data))
	})

	t.Run("host overreports count", func(t *testing.T) {
		done := false
		data, code := ReadAll(func(buf []byte) (uint32, uint32) {
			if done {
				return 0, 0
			}
			done = true
			return uint32(len(buf) + 100), 0
		})
		assert.Equal(t, uint32(0), code)
		assert.Len(t, data, ChunkSize)
	})
}
