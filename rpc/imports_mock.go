//go:build !wasip1

package rpc

import (
	"unsafe"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
	"github.com/blessnetwork/bls-sdk-go/internal/mockffi"
)

func host_rpc_call(req unsafe.Pointer, reqLen uint32, resp unsafe.Pointer, respMax uint32, written *uint32) uint32 {
	b := mockffi.Must(hostfuncs.ModuleRPC, func(b *hostfuncs.Backends) hostfuncs.RPC { return b.RPC })
	n, code := b.Call(abi.Bytes(req, reqLen), abi.Bytes(resp, respMax))
	if code == 0 {
		*written = min(n, respMax)
	}
	return code
}
