package hostfuncs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// Offsets used by binding tests. Inputs live in the first page, out
// parameters at outA/outB and read buffers at bufAt.
const (
	inA   = 0
	inB   = 512
	inC   = 768
	outA  = 1024
	outB  = 1032
	bufAt = 2048
	memSz = 4096
)

func newMem(t *testing.T) SliceMemory {
	t.Helper()
	return make(SliceMemory, memSz)
}

func put(t *testing.T, mem SliceMemory, offset uint32, s string) (uint64, uint64) {
	t.Helper()
	require.True(t, mem.Write(offset, []byte(s)))
	return uint64(offset), uint64(len(s))
}

func u32At(t *testing.T, mem SliceMemory, offset uint32) uint32 {
	t.Helper()
	v, ok := mem.ReadUint32Le(offset)
	require.True(t, ok)
	return v
}

func lookup(t *testing.T, bundle HostFuncBundle, name string) HostFunction {
	t.Helper()
	for _, fn := range bundle.Functions() {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("function %q not in bundle", name)
	return HostFunction{}
}

func call(fn HostFunction, mem GuestMemory, params ...uint64) uint32 {
	stack := make([]uint64, max(len(params), 1))
	copy(stack, params)
	fn.Handler(context.Background(), mem, stack)
	return uint32(stack[0])
}

type stubHTTP struct {
	gotURL, gotOpts string
	body            []byte
	headers         map[string]string
	closed          []uint32
	code            uint32
}

func (s *stubHTTP) Request(url, opts []byte) (uint32, uint32, uint32) {
	s.gotURL, s.gotOpts = string(url), string(opts)
	if s.code != 0 {
		return 0, 0, s.code
	}
	return 7, 200, 0
}

func (s *stubHTTP) ReadHeader(_ uint32, name, buf []byte) (uint32, uint32) {
	v, ok := s.headers[string(name)]
	if !ok {
		return 0, 4
	}
	return uint32(copy(buf, v)), 0
}

func (s *stubHTTP) ReadBody(_ uint32, buf []byte) (uint32, uint32) {
	n := copy(buf, s.body)
	s.body = s.body[n:]
	return uint32(n), 0
}

func (s *stubHTTP) Close(handle uint32) uint32 {
	s.closed = append(s.closed, handle)
	return 0
}

type stubMemory struct {
	stdin, env string
	errno      uint32
}

func (s *stubMemory) ReadStdin(buf []byte) (uint32, uint32) {
	return uint32(copy(buf, s.stdin)), s.errno
}

func (s *stubMemory) ReadEnv(buf []byte) (uint32, uint32) {
	return uint32(len(s.env)), s.errno
}

type stubCGI struct {
	gotCmd  string
	stdout  []byte
	stdin   []byte
	list    []byte
	closed  []uint32
	openErr uint32
}

func (s *stubCGI) Open(cmd []byte) (uint32, uint32) {
	s.gotCmd = string(cmd)
	return 3, s.openErr
}

func (s *stubCGI) ReadStdout(_ uint32, buf []byte) (uint32, uint32) {
	n := copy(buf, s.stdout)
	s.stdout = s.stdout[n:]
	return uint32(n), 0
}

func (s *stubCGI) ReadStderr(uint32, []byte) (uint32, uint32) { return 0, 0 }

func (s *stubCGI) WriteStdin(_ uint32, data []byte) (uint32, uint32) {
	s.stdin = append(s.stdin, data...)
	return uint32(len(data)), 0
}

func (s *stubCGI) Close(handle uint32) uint32 {
	s.closed = append(s.closed, handle)
	return 0
}

func (s *stubCGI) ListExec() (uint32, uint32) { return 9, 0 }

func (s *stubCGI) ListRead(_ uint32, buf []byte) (uint32, uint32) {
	n := copy(buf, s.list)
	s.list = s.list[n:]
	return uint32(n), 0
}

type stubSocket struct {
	gotAddr string
	code    uint32
}

func (s *stubSocket) CreateTCPBind(addr []byte) (uint32, uint32) {
	s.gotAddr = string(addr)
	return 5, s.code
}

type stubLLM struct {
	model, options, prompt string
	gotHandle              uint32
}

func (s *stubLLM) SetModel(handle uint32, model []byte) (uint32, uint32) {
	s.gotHandle = handle
	s.model = string(model)
	if handle == 0 {
		return 11, 0
	}
	return handle, 0
}

func (s *stubLLM) GetModel(_ uint32, buf []byte) (uint32, uint32) {
	return uint32(copy(buf, s.model)), 0
}

func (s *stubLLM) SetOptions(_ uint32, opts []byte) uint32 {
	s.options = string(opts)
	return 0
}

func (s *stubLLM) GetOptions(_ uint32, buf []byte) (uint32, uint32) {
	return uint32(copy(buf, s.options)), 0
}

func (s *stubLLM) Prompt(_ uint32, prompt []byte) uint32 {
	s.prompt = string(prompt)
	return 0
}

func (s *stubLLM) ReadResponse(_ uint32, buf []byte) (uint32, uint32) {
	return uint32(copy(buf, "reply to "+s.prompt)), 0
}

func (s *stubLLM) Close(uint32) uint32 { return 0 }

type stubCrawl struct {
	gotHandle       uint32
	gotURL, gotOpts string
	doc             string
	closed          []uint32
}

func (s *stubCrawl) Scrape(handle uint32, url, opts, result []byte) (uint32, uint32, uint32) {
	s.gotHandle = handle
	s.gotURL, s.gotOpts = string(url), string(opts)
	copy(result, s.doc)
	return 21, uint32(len(s.doc)), 0
}

func (s *stubCrawl) Close(handle uint32) uint32 {
	s.closed = append(s.closed, handle)
	return 0
}
