//go:build wasip1

package rpc

import "unsafe"

// Host function of the bless module.
//
//go:wasmimport bless rpc_call
func host_rpc_call(req unsafe.Pointer, reqLen uint32, resp unsafe.Pointer, respMax uint32, written *uint32) uint32
