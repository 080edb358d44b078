//go:build !wasip1

package cgi

import (
	"unsafe"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
	"github.com/blessnetwork/bls-sdk-go/internal/mockffi"
)

func backend() hostfuncs.CGI {
	return mockffi.Must(hostfuncs.ModuleCGI, func(b *hostfuncs.Backends) hostfuncs.CGI { return b.CGI })
}

func host_cgi_open(cmd unsafe.Pointer, cmdLen uint32, handle *uint32) uint32 {
	h, code := backend().Open(abi.Bytes(cmd, cmdLen))
	if code == 0 {
		*handle = h
	}
	return code
}

func host_cgi_stdout_read(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint32) uint32 {
	n, code := backend().ReadStdout(handle, abi.Bytes(buf, bufLen))
	if code == 0 {
		*num = min(n, bufLen)
	}
	return code
}

func host_cgi_stderr_read(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint32) uint32 {
	n, code := backend().ReadStderr(handle, abi.Bytes(buf, bufLen))
	if code == 0 {
		*num = min(n, bufLen)
	}
	return code
}

func host_cgi_stdin_write(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint32) uint32 {
	n, code := backend().WriteStdin(handle, abi.Bytes(buf, bufLen))
	if code == 0 {
		*num = min(n, bufLen)
	}
	return code
}

func host_cgi_close(handle uint32) uint32 {
	return backend().Close(handle)
}

func host_cgi_list_exec(handle *uint32) uint32 {
	h, code := backend().ListExec()
	if code == 0 {
		*handle = h
	}
	return code
}

func host_cgi_list_read(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint32) uint32 {
	n, code := backend().ListRead(handle, abi.Bytes(buf, bufLen))
	if code == 0 {
		*num = min(n, bufLen)
	}
	return code
}
