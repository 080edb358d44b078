package hostfuncs

import (
	"context"
)

// FaultHTTP is returned by blockless_http functions when guest memory
// cannot be accessed or no backend is configured (MemoryAccessError).
const FaultHTTP = 2

// HTTPBundle binds the blockless_http module to b.
func HTTPBundle(b HTTP) HostFuncBundle {
	fns := []HostFunction{
		{
			Name: FuncHTTPRequest, Params: 6,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				url := f.bytes(0, 1)
				opts := f.bytes(2, 3)
				if f.faulted || b == nil {
					f.ret(FaultHTTP, FaultHTTP)
					return
				}
				handle, status, code := b.Request(url, opts)
				if code == 0 {
					f.put32(4, handle)
					f.put32(5, status)
				}
				f.ret(code, FaultHTTP)
			},
		},
		{
			Name: FuncHTTPReadHeader, Params: 6,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				name := f.bytes(1, 2)
				buf := f.bytes(3, 4)
				if f.faulted || b == nil {
					f.ret(FaultHTTP, FaultHTTP)
					return
				}
				n, code := b.ReadHeader(f.u32(0), name, buf)
				if code == 0 {
					f.put32(5, clamp(n, uint32(len(buf))))
				}
				f.ret(code, FaultHTTP)
			},
		},
		{
			Name: FuncHTTPReadBody, Params: 4,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				buf := f.bytes(1, 2)
				if f.faulted || b == nil {
					f.ret(FaultHTTP, FaultHTTP)
					return
				}
				n, code := b.ReadBody(f.u32(0), buf)
				if code == 0 {
					f.put32(3, clamp(n, uint32(len(buf))))
				}
				f.ret(code, FaultHTTP)
			},
		},
		{
			Name: FuncHTTPClose, Params: 1,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				if b == nil {
					f.ret(FaultHTTP, FaultHTTP)
					return
				}
				f.ret(b.Close(f.u32(0)), FaultHTTP)
			},
		},
	}
	return newStaticBundle(ModuleHTTP, FaultHTTP, fns)
}
