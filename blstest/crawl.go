//go:build !wasip1

package blstest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
)

// bless_crawl status codes used by the fake.
const (
	crawlInvalidURL uint32 = 1
	crawlNetwork    uint32 = 3
	crawlRendering  uint32 = 4
)

// CrawlPage is a scripted page served by the Crawl fake.
type CrawlPage struct {
	HTML   string `yaml:"html" json:"html"`
	Title  string `yaml:"title" json:"title,omitempty"`
	Status uint16 `yaml:"status" json:"status,omitempty" validate:"omitempty,gte=100,lte=599"`
	// Raw replaces the whole result document when set.
	Raw string `yaml:"raw" json:"raw,omitempty"`
	// Error is reported in the document's error member.
	Error string `yaml:"error" json:"error,omitempty"`
}

// CrawlRequest is a scrape received by the fake.
type CrawlRequest struct {
	URL     string
	Options json.RawMessage
	Handle  uint32
}

type crawlMetadata struct {
	Title      string `json:"title,omitempty"`
	URL        string `json:"url"`
	StatusCode uint16 `json:"status_code"`
}

type crawlData struct {
	Format    string        `json:"format"`
	Content   string        `json:"content"`
	Metadata  crawlMetadata `json:"metadata"`
	Timestamp uint64        `json:"timestamp"`
	Success   bool          `json:"success"`
}

type crawlDocument struct {
	Data    crawlData `json:"data"`
	Error   string    `json:"error,omitempty"`
	Success bool      `json:"success"`
}

// Crawl fakes bless_crawl. Pages are served raw, the guest SDK performs
// the HTML transformation. Unknown URLs fail with a network error.
type Crawl struct {
	// Now supplies document timestamps; nil uses the wall clock.
	Now func() time.Time

	pages    map[string]CrawlPage
	failures map[string]uint32
	requests []CrawlRequest
	sessions Handles[struct{}]
	rec      *recorder
	mu       sync.Mutex
}

// NewCrawl returns a Crawl fake without pages.
func NewCrawl() *Crawl {
	return &Crawl{pages: make(map[string]CrawlPage), failures: make(map[string]uint32)}
}

// Page scripts the page served for url.
func (f *Crawl) Page(url string, page CrawlPage) *Crawl {
	f.mu.Lock()
	defer f.mu.Unlock()
	if page.Status == 0 {
		page.Status = http.StatusOK
	}
	f.pages[url] = page
	return f
}

// Fail makes scrapes of url fail with a host status code.
func (f *Crawl) Fail(url string, code uint32) *Crawl {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[url] = code
	return f
}

// Requests returns the scrapes received so far.
func (f *Crawl) Requests() []CrawlRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]CrawlRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// URLs returns the scraped URLs in order.
func (f *Crawl) URLs() []string {
	var out []string
	for _, r := range f.Requests() {
		out = append(out, r.URL)
	}
	return out
}

// OpenSessions returns the number of sessions not yet closed.
func (f *Crawl) OpenSessions() int { return f.sessions.Len() }

func (f *Crawl) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f *Crawl) document(url string) ([]byte, uint32) {
	f.mu.Lock()
	code, failed := f.failures[url]
	page, ok := f.pages[url]
	f.mu.Unlock()

	switch {
	case failed:
		return nil, code
	case !ok:
		return nil, crawlNetwork
	case page.Raw != "":
		return []byte(page.Raw), 0
	}
	doc := crawlDocument{
		Success: page.Error == "",
		Error:   page.Error,
		Data: crawlData{
			Format:    "html",
			Content:   page.HTML,
			Metadata:  crawlMetadata{Title: page.Title, URL: url, StatusCode: page.Status},
			Timestamp: uint64(f.now().UnixMilli()),
			Success:   page.Error == "",
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, crawlRendering
	}
	return data, 0
}

func (f *Crawl) Scrape(handle uint32, url, opts, result []byte) (newHandle, n, code uint32) {
	f.rec.add(hostfuncs.ModuleCrawl, hostfuncs.FuncCrawlScrape)
	f.mu.Lock()
	f.requests = append(f.requests, CrawlRequest{URL: string(url), Options: bytes.Clone(opts), Handle: handle})
	f.mu.Unlock()

	if len(url) == 0 || !json.Valid(opts) {
		return handle, 0, crawlInvalidURL
	}
	if _, ok := f.sessions.Get(handle); !ok {
		handle = f.sessions.Add(struct{}{})
	}
	doc, code := f.document(string(url))
	if code != 0 {
		return handle, 0, code
	}
	copy(result, doc)
	return handle, uint32(len(doc)), 0
}

func (f *Crawl) Close(handle uint32) (code uint32) {
	f.rec.add(hostfuncs.ModuleCrawl, hostfuncs.FuncCrawlClose)
	f.sessions.Remove(handle)
	return 0
}
