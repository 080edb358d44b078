package hostfuncs

import (
	"context"
)

// Handler executes one host function call. Parameters are read from stack
// and the status code is written back to stack[0].
type Handler func(ctx context.Context, mem GuestMemory, stack []uint64)

// HostFunction describes one host import. All parameters are i32 and the
// single result is the i32 status code.
type HostFunction struct {
	Module  string
	Name    string
	Params  int
	Fault   uint32 // status returned when the call cannot be served
	Handler Handler
}

// QualifiedName returns "module.name".
func (f HostFunction) QualifiedName() string {
	return f.Module + "." + f.Name
}

// frame decodes the arguments of a single call. The first failed memory
// access marks the frame faulted and later accesses become no-ops.
type frame struct {
	mem     GuestMemory
	stack   []uint64
	faulted bool
}

func (f *frame) u32(i int) uint32 {
	return uint32(f.stack[i])
}

// bytes returns the guest region described by the (ptr, len) parameters at
// ptrIdx and lenIdx. Writes to the returned slice land in guest memory.
func (f *frame) bytes(ptrIdx, lenIdx int) []byte {
	if f.faulted {
		return nil
	}
	n := f.u32(lenIdx)
	if n == 0 {
		return nil
	}
	b, ok := f.mem.Read(f.u32(ptrIdx), n)
	if !ok {
		f.faulted = true
		return nil
	}
	return b
}

func (f *frame) put32(ptrIdx int, v uint32) {
	if f.faulted {
		return
	}
	if !f.mem.WriteUint32Le(f.u32(ptrIdx), v) {
		f.faulted = true
	}
}

func (f *frame) put16(ptrIdx int, v uint16) {
	if f.faulted {
		return
	}
	if !f.mem.WriteUint16Le(f.u32(ptrIdx), v) {
		f.faulted = true
	}
}

func (f *frame) put8(ptrIdx int, v uint8) {
	if f.faulted {
		return
	}
	if !f.mem.WriteByte(f.u32(ptrIdx), v) {
		f.faulted = true
	}
}

// get32 reads an in/out parameter.
func (f *frame) get32(ptrIdx int) uint32 {
	if f.faulted {
		return 0
	}
	v, ok := f.mem.ReadUint32Le(f.u32(ptrIdx))
	if !ok {
		f.faulted = true
	}
	return v
}

// ret stores the status code, replacing it with fault when memory access
// failed.
func (f *frame) ret(code, fault uint32) {
	if f.faulted {
		code = fault
	}
	f.stack[0] = uint64(code)
}

// clamp limits a backend-reported count to what fits in a narrow out field.
func clamp(n, limit uint32) uint32 {
	if n > limit {
		return limit
	}
	return n
}
