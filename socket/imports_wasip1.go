//go:build wasip1

package socket

import "unsafe"

// Host function of the blockless_socket module.
//
//go:wasmimport blockless_socket create_tcp_bind_socket
func host_create_tcp_bind_socket(addr unsafe.Pointer, addrLen uint32, fd *uint32) uint32
