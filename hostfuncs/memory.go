package hostfuncs

import (
	"context"
)

// FaultMemory is the WASI EFAULT errno, returned by blockless_memory
// functions when the guest buffer cannot be accessed or no backend is
// configured.
const FaultMemory = 21

// MemoryBundle binds the blockless_memory module to b.
func MemoryBundle(b Memory) HostFuncBundle {
	read := func(pick func(Memory) func([]byte) (uint32, uint32)) Handler {
		return func(_ context.Context, mem GuestMemory, stack []uint64) {
			f := frame{mem: mem, stack: stack}
			buf := f.bytes(0, 1)
			if f.faulted || b == nil {
				f.ret(FaultMemory, FaultMemory)
				return
			}
			n, errno := pick(b)(buf)
			if errno == 0 {
				f.put32(2, clamp(n, uint32(len(buf))))
			}
			f.ret(errno, FaultMemory)
		}
	}

	fns := []HostFunction{
		{
			Name: FuncMemoryRead, Params: 3,
			Handler: read(func(m Memory) func([]byte) (uint32, uint32) { return m.ReadStdin }),
		},
		{
			Name: FuncEnvVarRead, Params: 3,
			Handler: read(func(m Memory) func([]byte) (uint32, uint32) { return m.ReadEnv }),
		},
	}
	return newStaticBundle(ModuleMemory, FaultMemory, fns)
}
