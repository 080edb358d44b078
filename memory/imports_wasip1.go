//go:build wasip1

package memory

import "unsafe"

// Host functions of the blockless_memory module.
//
//go:wasmimport blockless_memory memory_read
func host_memory_read(buf unsafe.Pointer, bufLen uint32, num *uint32) uint32

//go:wasmimport blockless_memory env_var_read
func host_env_var_read(buf unsafe.Pointer, bufLen uint32, num *uint32) uint32
