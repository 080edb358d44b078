//go:build !wasip1

package socket

import (
	"unsafe"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
	"github.com/blessnetwork/bls-sdk-go/internal/mockffi"
)

func host_create_tcp_bind_socket(addr unsafe.Pointer, addrLen uint32, fd *uint32) uint32 {
	b := mockffi.Must(hostfuncs.ModuleSocket, func(b *hostfuncs.Backends) hostfuncs.Socket { return b.Socket })
	f, code := b.CreateTCPBind(abi.Bytes(addr, addrLen))
	if code == 0 {
		*fd = f
	}
	return code
}
