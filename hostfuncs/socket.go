package hostfuncs

import (
	"context"
)

// FaultSocket is returned by blockless_socket functions when guest memory
// cannot be accessed or no backend is configured (ParameterError).
const FaultSocket = 2

// SocketBundle binds the blockless_socket module to b.
func SocketBundle(b Socket) HostFuncBundle {
	fns := []HostFunction{
		{
			Name: FuncCreateTCPBindSocket, Params: 3,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				addr := f.bytes(0, 1)
				if f.faulted || b == nil {
					f.ret(FaultSocket, FaultSocket)
					return
				}
				fd, code := b.CreateTCPBind(addr)
				if code == 0 {
					f.put32(2, fd)
				}
				f.ret(code, FaultSocket)
			},
		},
	}
	return newStaticBundle(ModuleSocket, FaultSocket, fns)
}
