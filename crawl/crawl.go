// Package crawl binds the bless_crawl host module: pages rendered by the
// network's browser nodes, post-processed in the guest into clean HTML or
// Markdown. Map and Crawl build link discovery and recursive crawling on
// top of single page scrapes.
package crawl

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
)

// Client scrapes pages through the host. The host assigns a session
// handle on the first scrape; Close releases it. A Client is safe for
// concurrent use.
type Client struct {
	config     ScrapeOptions
	bufferSize int

	mu     sync.Mutex
	handle uint32
}

// Option configures a Client.
type Option func(*Client)

// WithResultBufferSize sets the size of the buffer scrape results are
// written into. Values below one are ignored.
func WithResultBufferSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// New returns a client using DefaultScrapeOptions.
func New(opts ...Option) *Client {
	c := &Client{config: DefaultScrapeOptions(), bufferSize: MaxScrapeBufferSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWithConfig returns a client scraping with cfg by default.
func NewWithConfig(cfg ScrapeOptions, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := New(opts...)
	c.config = cfg
	return c, nil
}

// Config returns the default scrape options.
func (c *Client) Config() ScrapeOptions { return c.config }

// Handle returns the host session handle; zero before the first scrape.
func (c *Client) Handle() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// options resolves per-call options against the client default.
func (c *Client) options(opts *ScrapeOptions) (ScrapeOptions, error) {
	if opts == nil {
		return c.config, nil
	}
	if err := opts.Validate(); err != nil {
		return ScrapeOptions{}, err
	}
	return *opts, nil
}

// Scrape renders url and returns its content in the requested format.
// Nil opts uses the client's configuration.
func (c *Client) Scrape(ctx context.Context, url string, opts *ScrapeOptions) (*Response[ScrapeData], error) {
	cfg, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	resp, err := c.fetch(ctx, url, cfg)
	if err != nil {
		return nil, err
	}
	if err := render(&resp.Data, cfg.Format); err != nil {
		return nil, err
	}
	return resp, nil
}

// render converts transformed HTML content to format.
func render(data *ScrapeData, format Format) error {
	switch format {
	case FormatMarkdown:
		data.Content = ParseMarkdown(data.Content)
	case FormatHTML:
	default:
		return &Error{Op: "scrape", Kind: ScrapeFailed, Err: errors.New("json format is not supported")}
	}
	data.Format = format
	return nil
}

// fetch scrapes url and returns the transformed HTML.
func (c *Client) fetch(ctx context.Context, url string, cfg ScrapeOptions) (*Response[ScrapeData], error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: "scrape", Kind: ScrapeFailed, Err: err}
	}
	doc, err := json.Marshal(cfg)
	if err != nil {
		return nil, &Error{Op: "scrape", Kind: ScrapeFailed, Err: err}
	}

	buf := make([]byte, c.bufferSize)
	n, err := c.scrape(ctx, url, doc, buf)
	if err != nil {
		return nil, err
	}
	switch {
	case n == 0:
		return nil, &Error{Op: "scrape", Kind: EmptyResponse}
	case int(n) > len(buf):
		return nil, &Error{Op: "scrape", Kind: Memory, Err: errors.New("result exceeds buffer")}
	}
	data := buf[:n]
	if !utf8.Valid(data) {
		return nil, &Error{Op: "scrape", Kind: Utf8}
	}

	var resp Response[ScrapeData]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Op: "scrape", Kind: Parse, Err: err}
	}
	if resp.Error != "" {
		return nil, &Error{Op: "scrape", Kind: RuntimeError, Message: resp.Error}
	}

	page := resp.Data.Metadata.URL
	if page == "" {
		page = url
	}
	content, err := TransformHTML(TransformOptions{
		HTML:            resp.Data.Content,
		URL:             page,
		IncludeTags:     cfg.IncludeTags,
		ExcludeTags:     cfg.ExcludeTags,
		OnlyMainContent: cfg.OnlyMainContent,
	})
	if err != nil {
		return nil, &Error{Op: "scrape", Kind: Transform, Err: err}
	}
	resp.Data.Content = content
	resp.Data.Format = FormatHTML
	return &resp, nil
}

// scrape performs the host call. The first call of a client runs under
// the lock so concurrent scrapes share the handle the host assigns.
func (c *Client) scrape(ctx context.Context, url string, opts, buf []byte) (uint32, error) {
	c.mu.Lock()
	handle := c.handle
	first := handle == 0
	if !first {
		c.mu.Unlock()
	}

	slog.DebugContext(ctx, "host call", "fn", hostfuncs.FuncCrawlScrape, "url", url, "handle", handle)

	var n uint32
	code := host_scrape(&handle, abi.StringPtr(url), abi.Len(url), abi.Ptr(opts), abi.Len(opts), abi.Ptr(buf), abi.Len(buf), &n)
	if !first {
		c.mu.Lock()
	}
	if code == 0 {
		c.handle = handle
	}
	c.mu.Unlock()

	if code != 0 {
		return 0, hostError("scrape", code)
	}
	return n, nil
}

// Close releases the host session. It is a no-op before the first scrape.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return nil
	}
	h := c.handle
	c.handle = 0
	if code := host_close(h); code != 0 {
		return hostError("close", code)
	}
	return nil
}
