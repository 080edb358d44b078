//go:build !wasip1

package crawl

import (
	"unsafe"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
	"github.com/blessnetwork/bls-sdk-go/internal/mockffi"
)

func backend() hostfuncs.Crawl {
	return mockffi.Must(hostfuncs.ModuleCrawl, func(b *hostfuncs.Backends) hostfuncs.Crawl { return b.Crawl })
}

// host_scrape reports the full document size even when it exceeds the
// result buffer, as the host does.
func host_scrape(handle *uint32, url unsafe.Pointer, urlLen uint32, opts unsafe.Pointer, optsLen uint32, result unsafe.Pointer, resultLen uint32, written *uint32) uint32 {
	h, n, code := backend().Scrape(*handle, abi.Bytes(url, urlLen), abi.Bytes(opts, optsLen), abi.Bytes(result, resultLen))
	if code == 0 {
		*handle, *written = h, n
	}
	return code
}

func host_close(handle uint32) uint32 {
	return backend().Close(handle)
}
