//go:build !wasip1

package blshttp

import (
	"unsafe"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
	"github.com/blessnetwork/bls-sdk-go/internal/mockffi"
)

func backend() hostfuncs.HTTP {
	return mockffi.Must(hostfuncs.ModuleHTTP, func(b *hostfuncs.Backends) hostfuncs.HTTP { return b.HTTP })
}

func host_http_req(url unsafe.Pointer, urlLen uint32, opts unsafe.Pointer, optsLen uint32, fd *uint32, status *uint32) uint32 {
	h, s, code := backend().Request(abi.Bytes(url, urlLen), abi.Bytes(opts, optsLen))
	if code == 0 {
		*fd, *status = h, s
	}
	return code
}

func host_http_read_header(fd uint32, name unsafe.Pointer, nameLen uint32, buf unsafe.Pointer, bufLen uint32, num *uint32) uint32 {
	n, code := backend().ReadHeader(fd, abi.Bytes(name, nameLen), abi.Bytes(buf, bufLen))
	if code == 0 {
		*num = min(n, bufLen)
	}
	return code
}

func host_http_read_body(fd uint32, buf unsafe.Pointer, bufLen uint32, num *uint32) uint32 {
	n, code := backend().ReadBody(fd, abi.Bytes(buf, bufLen))
	if code == 0 {
		*num = min(n, bufLen)
	}
	return code
}

func host_http_close(fd uint32) uint32 {
	return backend().Close(fd)
}
