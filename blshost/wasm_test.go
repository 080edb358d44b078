//go:build !wasip1

package blshost_test

// Hand-encoded guests. Each is a wasip1 command module that exports one
// page of memory and a _start function.

const (
	i32      = 0x7f
	opConst  = 0x41
	opCall   = 0x10
	opDrop   = 0x1a
	opLoad   = 0x28
	opStore  = 0x36
	opEnd    = 0x0b
	opUnreac = 0x00
)

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func name(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func vec(items ...[]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func section(id byte, content []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(content)))...)
	return append(out, content...)
}

func funcType(params, results int) []byte {
	out := []byte{0x60}
	out = append(out, uleb(uint32(params))...)
	for range params {
		out = append(out, i32)
	}
	out = append(out, uleb(uint32(results))...)
	for range results {
		out = append(out, i32)
	}
	return out
}

func i32Const(v int32) []byte {
	return append([]byte{opConst}, sleb(v)...)
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

type guestImport struct {
	module, name string
	typeIdx      byte
}

// module assembles a guest whose only defined function is _start with
// the given body. Types: 0 is () -> (), 1 is (i32 x3) -> i32,
// 2 is (i32 x4) -> i32, 3 is (i32) -> () and 4 is (i32) -> i32.
func module(imports []guestImport, body []byte) []byte {
	types := section(1, vec(funcType(0, 0), funcType(3, 1), funcType(4, 1), funcType(1, 0), funcType(1, 1)))

	var imps [][]byte
	for _, imp := range imports {
		imps = append(imps, cat(name(imp.module), name(imp.name), []byte{0x00, imp.typeIdx}))
	}
	importSec := section(2, vec(imps...))

	startIdx := uint32(len(imports))
	funcs := section(3, vec([]byte{0x00}))
	memory := section(5, vec([]byte{0x00, 0x01}))
	exports := section(7, vec(
		cat(name("memory"), []byte{0x02, 0x00}),
		cat(name("_start"), []byte{0x00}, uleb(startIdx)),
	))

	code := cat([]byte{0x00}, body, []byte{opEnd})
	codeSec := section(10, vec(cat(uleb(uint32(len(code))), code)))

	return cat([]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00},
		types, importSec, funcs, memory, exports, codeSec)
}

const (
	iovAt     = 0
	countAt   = 16
	writtenAt = 24
	bufAt     = 64
	bufLen    = 1024
)

// echoGuest copies the blockless_memory stdin document to fd and exits
// with code.
func echoGuest(fd, code int32) []byte {
	imports := []guestImport{
		{"blockless_memory", "memory_read", 1},
		{"wasi_snapshot_preview1", "fd_write", 2},
		{"wasi_snapshot_preview1", "proc_exit", 3},
	}
	body := cat(
		i32Const(bufAt), i32Const(bufLen), i32Const(countAt), []byte{opCall, 0}, []byte{opDrop},
		i32Const(iovAt), i32Const(bufAt), []byte{opStore, 0x02, 0x00},
		i32Const(iovAt+4), i32Const(countAt), []byte{opLoad, 0x02, 0x00}, []byte{opStore, 0x02, 0x00},
		i32Const(fd), i32Const(iovAt), i32Const(1), i32Const(writtenAt), []byte{opCall, 1}, []byte{opDrop},
		i32Const(code), []byte{opCall, 2},
	)
	return module(imports, body)
}

// trapGuest executes unreachable.
func trapGuest() []byte {
	return module(nil, []byte{opUnreac})
}

// llmGuest calls llm_close(1) and exits with the returned status.
func llmGuest() []byte {
	imports := []guestImport{
		{"blockless_llm", "llm_close", 4},
		{"wasi_snapshot_preview1", "proc_exit", 3},
	}
	body := cat(i32Const(1), []byte{opCall, 0}, []byte{opCall, 1})
	return module(imports, body)
}
