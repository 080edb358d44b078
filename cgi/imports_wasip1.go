//go:build wasip1

package cgi

import "unsafe"

// Host functions of the blockless_cgi module.
//
//go:wasmimport blockless_cgi cgi_open
func host_cgi_open(cmd unsafe.Pointer, cmdLen uint32, handle *uint32) uint32

//go:wasmimport blockless_cgi cgi_stdout_read
func host_cgi_stdout_read(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint32) uint32

//go:wasmimport blockless_cgi cgi_stderr_read
func host_cgi_stderr_read(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint32) uint32

//go:wasmimport blockless_cgi cgi_stdin_write
func host_cgi_stdin_write(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint32) uint32

//go:wasmimport blockless_cgi cgi_close
func host_cgi_close(handle uint32) uint32

//go:wasmimport blockless_cgi cgi_list_exec
func host_cgi_list_exec(handle *uint32) uint32

//go:wasmimport blockless_cgi cgi_list_read
func host_cgi_list_read(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint32) uint32
