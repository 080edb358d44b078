//go:build !wasip1

package memory

import (
	"unsafe"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
	"github.com/blessnetwork/bls-sdk-go/internal/mockffi"
)

func backend() hostfuncs.Memory {
	return mockffi.Must(hostfuncs.ModuleMemory, func(b *hostfuncs.Backends) hostfuncs.Memory { return b.Memory })
}

func host_memory_read(buf unsafe.Pointer, bufLen uint32, num *uint32) uint32 {
	n, errno := backend().ReadStdin(abi.Bytes(buf, bufLen))
	if errno == 0 {
		*num = min(n, bufLen)
	}
	return errno
}

func host_env_var_read(buf unsafe.Pointer, bufLen uint32, num *uint32) uint32 {
	n, errno := backend().ReadEnv(abi.Bytes(buf, bufLen))
	if errno == 0 {
		*num = min(n, bufLen)
	}
	return errno
}
