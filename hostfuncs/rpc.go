package hostfuncs

import (
	"context"
)

// FaultRPC is returned by rpc_call when guest memory cannot be accessed or
// no backend is configured (InternalError).
const FaultRPC = 4

// RPCBundle binds the bless module to b.
func RPCBundle(b RPC) HostFuncBundle {
	fns := []HostFunction{
		{
			Name: FuncRPCCall, Params: 5,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				req := f.bytes(0, 1)
				resp := f.bytes(2, 3)
				if f.faulted || b == nil {
					f.ret(FaultRPC, FaultRPC)
					return
				}
				n, code := b.Call(req, resp)
				if code == 0 {
					f.put32(4, clamp(n, uint32(len(resp))))
				}
				f.ret(code, FaultRPC)
			},
		},
	}
	return newStaticBundle(ModuleRPC, FaultRPC, fns)
}
