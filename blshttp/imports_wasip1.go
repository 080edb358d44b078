//go:build wasip1

package blshttp

import "unsafe"

// Host functions of the blockless_http module.
//
//go:wasmimport blockless_http http_req
func host_http_req(url unsafe.Pointer, urlLen uint32, opts unsafe.Pointer, optsLen uint32, fd *uint32, status *uint32) uint32

//go:wasmimport blockless_http http_read_header
func host_http_read_header(fd uint32, name unsafe.Pointer, nameLen uint32, buf unsafe.Pointer, bufLen uint32, num *uint32) uint32

//go:wasmimport blockless_http http_read_body
func host_http_read_body(fd uint32, buf unsafe.Pointer, bufLen uint32, num *uint32) uint32

//go:wasmimport blockless_http http_close
func host_http_close(fd uint32) uint32
