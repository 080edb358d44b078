//go:build wasip1

package crawl

import "unsafe"

// Host functions of the bless_crawl module. usize is 32 bits on wasm32.
//
//go:wasmimport bless_crawl scrape
func host_scrape(handle *uint32, url unsafe.Pointer, urlLen uint32, opts unsafe.Pointer, optsLen uint32, result unsafe.Pointer, resultLen uint32, written *uint32) uint32

//go:wasmimport bless_crawl close
func host_close(handle uint32) uint32
