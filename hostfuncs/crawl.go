package hostfuncs

import (
	"context"
)

// FaultCrawl is returned by bless_crawl functions when guest memory cannot
// be accessed or no backend is configured (MemoryError).
const FaultCrawl = 5

// CrawlBundle binds the bless_crawl module to b. The byte count written by
// scrape is not clamped: a count larger than the result buffer tells the
// guest the document did not fit.
func CrawlBundle(b Crawl) HostFuncBundle {
	fns := []HostFunction{
		{
			Name: FuncCrawlScrape, Params: 8,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				handle := f.get32(0)
				url := f.bytes(1, 2)
				opts := f.bytes(3, 4)
				result := f.bytes(5, 6)
				if f.faulted || b == nil {
					f.ret(FaultCrawl, FaultCrawl)
					return
				}
				next, n, code := b.Scrape(handle, url, opts, result)
				if code == 0 {
					f.put32(0, next)
					f.put32(7, n)
				}
				f.ret(code, FaultCrawl)
			},
		},
		{
			Name: FuncCrawlClose, Params: 1,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				if b == nil {
					f.ret(FaultCrawl, FaultCrawl)
					return
				}
				f.ret(b.Close(f.u32(0)), FaultCrawl)
			},
		},
	}
	return newStaticBundle(ModuleCrawl, FaultCrawl, fns)
}
