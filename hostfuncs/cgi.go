package hostfuncs

import (
	"context"
)

// FaultCGI is returned by blockless_cgi functions when guest memory cannot
// be accessed or no backend is configured.
const FaultCGI = 1

// CGIBundle binds the blockless_cgi module to b.
func CGIBundle(b CGI) HostFuncBundle {
	stream := func(pick func(CGI) func(uint32, []byte) (uint32, uint32)) Handler {
		return func(_ context.Context, mem GuestMemory, stack []uint64) {
			f := frame{mem: mem, stack: stack}
			buf := f.bytes(1, 2)
			if f.faulted || b == nil {
				f.ret(FaultCGI, FaultCGI)
				return
			}
			n, code := pick(b)(f.u32(0), buf)
			if code == 0 {
				f.put32(3, clamp(n, uint32(len(buf))))
			}
			f.ret(code, FaultCGI)
		}
	}

	fns := []HostFunction{
		{
			Name: FuncCGIOpen, Params: 3,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				cmd := f.bytes(0, 1)
				if f.faulted || b == nil {
					f.ret(FaultCGI, FaultCGI)
					return
				}
				handle, code := b.Open(cmd)
				if code == 0 {
					f.put32(2, handle)
				}
				f.ret(code, FaultCGI)
			},
		},
		{
			Name: FuncCGIStdoutRead, Params: 4,
			Handler: stream(func(c CGI) func(uint32, []byte) (uint32, uint32) { return c.ReadStdout }),
		},
		{
			Name: FuncCGIStderrRead, Params: 4,
			Handler: stream(func(c CGI) func(uint32, []byte) (uint32, uint32) { return c.ReadStderr }),
		},
		{
			Name: FuncCGIStdinWrite, Params: 4,
			Handler: stream(func(c CGI) func(uint32, []byte) (uint32, uint32) { return c.WriteStdin }),
		},
		{
			Name: FuncCGIClose, Params: 1,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				if b == nil {
					f.ret(FaultCGI, FaultCGI)
					return
				}
				f.ret(b.Close(f.u32(0)), FaultCGI)
			},
		},
		{
			Name: FuncCGIListExec, Params: 1,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				if b == nil {
					f.ret(FaultCGI, FaultCGI)
					return
				}
				handle, code := b.ListExec()
				if code == 0 {
					f.put32(0, handle)
				}
				f.ret(code, FaultCGI)
			},
		},
		{
			Name: FuncCGIListRead, Params: 4,
			Handler: stream(func(c CGI) func(uint32, []byte) (uint32, uint32) { return c.ListRead }),
		},
	}
	return newStaticBundle(ModuleCGI, FaultCGI, fns)
}
