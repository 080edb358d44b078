package hostfuncs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPBundle_Request(t *testing.T) {
	backend := &stubHTTP{}
	mem := newMem(t)
	urlPtr, urlLen := put(t, mem, inA, "https://example.com")
	optsPtr, optsLen := put(t, mem, inB, `{"method":"GET"}`)

	fn := lookup(t, HTTPBundle(backend), FuncHTTPRequest)
	code := call(fn, mem, urlPtr, urlLen, optsPtr, optsLen, outA, outB)

	assert.Zero(t, code)
	assert.Equal(t, "https://example.com", backend.gotURL)
	assert.Equal(t, `{"method":"GET"}`, backend.gotOpts)
	assert.Equal(t, uint32(7), u32At(t, mem, outA))
	assert.Equal(t, uint32(200), u32At(t, mem, outB))
}

func TestHTTPBundle_RequestErrorLeavesOutputs(t *testing.T) {
	backend := &stubHTTP{code: 6}
	mem := newMem(t)
	urlPtr, urlLen := put(t, mem, inA, "https://blocked.example")
	mem.WriteUint32Le(outA, 0xdead)

	fn := lookup(t, HTTPBundle(backend), FuncHTTPRequest)
	code := call(fn, mem, urlPtr, urlLen, inB, 0, outA, outB)

	assert.Equal(t, uint32(6), code)
	assert.Equal(t, uint32(0xdead), u32At(t, mem, outA))
	assert.Empty(t, backend.gotOpts)
}

func TestHTTPBundle_ReadBodyStreams(t *testing.T) {
	backend := &stubHTTP{body: []byte("hello world")}
	mem := newMem(t)
	fn := lookup(t, HTTPBundle(backend), FuncHTTPReadBody)

	var got []byte
	for i := 0; i < 10; i++ {
		code := call(fn, mem, 7, bufAt, 4, outA)
		assert.Zero(t, code)
		n := u32At(t, mem, outA)
		if n == 0 {
			break
		}
		chunk, _ := mem.Read(bufAt, n)
		got = append(got, chunk...)
	}
	assert.Equal(t, "hello world", string(got))
}

func TestHTTPBundle_ReadHeader(t *testing.T) {
	backend := &stubHTTP{headers: map[string]string{"Content-Type": "text/plain"}}
	mem := newMem(t)
	namePtr, nameLen := put(t, mem, inA, "Content-Type")
	fn := lookup(t, HTTPBundle(backend), FuncHTTPReadHeader)

	code := call(fn, mem, 7, namePtr, nameLen, bufAt, 64, outA)
	assert.Zero(t, code)
	n := u32At(t, mem, outA)
	value, _ := mem.Read(bufAt, n)
	assert.Equal(t, "text/plain", string(value))

	missingPtr, missingLen := put(t, mem, inB, "X-Missing")
	code = call(fn, mem, 7, missingPtr, missingLen, bufAt, 64, outA)
	assert.Equal(t, uint32(4), code)
}

func TestHTTPBundle_Close(t *testing.T) {
	backend := &stubHTTP{}
	fn := lookup(t, HTTPBundle(backend), FuncHTTPClose)

	assert.Zero(t, call(fn, newMem(t), 7))
	assert.Equal(t, []uint32{7}, backend.closed)
}

func TestHTTPBundle_MemoryFault(t *testing.T) {
	backend := &stubHTTP{}
	mem := newMem(t)
	fn := lookup(t, HTTPBundle(backend), FuncHTTPRequest)

	code := call(fn, mem, memSz-2, 16, inB, 0, outA, outB)

	assert.Equal(t, uint32(FaultHTTP), code)
	assert.Empty(t, backend.gotURL)
}

func TestHTTPBundle_OutOfRangeOutput(t *testing.T) {
	mem := newMem(t)
	urlPtr, urlLen := put(t, mem, inA, "https://example.com")
	fn := lookup(t, HTTPBundle(&stubHTTP{}), FuncHTTPRequest)

	code := call(fn, mem, urlPtr, urlLen, inB, 0, memSz, outB)

	assert.Equal(t, uint32(FaultHTTP), code)
}

func TestHTTPBundle_NoBackend(t *testing.T) {
	mem := newMem(t)
	for _, fn := range HTTPBundle(nil).Functions() {
		params := make([]uint64, fn.Params)
		assert.Equal(t, uint32(FaultHTTP), call(fn, mem, params...), fn.Name)
	}
}
