package crawl

import (
	"fmt"
	"maps"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/blessnetwork/bls-sdk-go/internal/validate"
)

// Limits and defaults of scrape options, in milliseconds.
const (
	DefaultTimeoutMs  = 15000
	DefaultWaitTimeMs = 3000
	MaxTimeoutMs      = 120000
	MaxWaitTimeMs     = 20000
)

// Result buffer sizes.
const (
	MaxScrapeBufferSize = 2 << 20
)

// Format selects the content representation of scraped pages.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatMarkdown, FormatHTML, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Viewport is the browser viewport used to render pages.
type Viewport struct {
	Width  *uint32 `json:"width,omitempty"`
	Height *uint32 `json:"height,omitempty"`
}

// ScrapeOptions is the options document sent with every scrape.
type ScrapeOptions struct {
	Viewport        *Viewport         `json:"viewport,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
	Format          Format            `json:"format" validate:"oneof=markdown html json"`
	UserAgent       string            `json:"user_agent,omitempty"`
	IncludeTags     []string          `json:"include_tags,omitempty"`
	ExcludeTags     []string          `json:"exclude_tags,omitempty"`
	Timeout         uint32            `json:"timeout" validate:"lte=120000"`
	WaitTime        uint32            `json:"wait_time" validate:"lte=20000"`
	OnlyMainContent bool              `json:"only_main_content"`
}

// DefaultScrapeOptions returns the options used when none are given.
func DefaultScrapeOptions() ScrapeOptions {
	return ScrapeOptions{Timeout: DefaultTimeoutMs, WaitTime: DefaultWaitTimeMs, Format: FormatMarkdown}
}

// Validate checks the limits. Exceeding the timeout or wait time reports
// InvalidTimeout or InvalidWaitTime.
func (o ScrapeOptions) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	fields := validate.Fields(err)
	switch {
	case slices.Contains(fields, "timeout"):
		return &Error{Op: "validate", Kind: InvalidTimeout, Err: err}
	case slices.Contains(fields, "wait_time"):
		return &Error{Op: "validate", Kind: InvalidWaitTime, Err: err}
	default:
		return &Error{Op: "validate", Kind: ScrapeFailed, Err: err}
	}
}

// WithTimeout sets the page load timeout in milliseconds.
func (o ScrapeOptions) WithTimeout(ms uint32) ScrapeOptions {
	o.Timeout = ms
	return o
}

// WithWaitTime sets how long to wait after load before capturing, in ms.
func (o ScrapeOptions) WithWaitTime(ms uint32) ScrapeOptions {
	o.WaitTime = ms
	return o
}

// WithIncludeTags keeps only elements matching the given selectors.
func (o ScrapeOptions) WithIncludeTags(tags ...string) ScrapeOptions {
	o.IncludeTags = slices.Clone(tags)
	return o
}

// WithExcludeTags drops elements matching the given selectors.
func (o ScrapeOptions) WithExcludeTags(tags ...string) ScrapeOptions {
	o.ExcludeTags = slices.Clone(tags)
	return o
}

// WithOnlyMainContent strips navigation, headers and footers.
func (o ScrapeOptions) WithOnlyMainContent(only bool) ScrapeOptions {
	o.OnlyMainContent = only
	return o
}

// WithFormat sets the output format.
func (o ScrapeOptions) WithFormat(f Format) ScrapeOptions {
	o.Format = f
	return o
}

// WithViewport sets the browser viewport size in pixels.
func (o ScrapeOptions) WithViewport(width, height uint32) ScrapeOptions {
	o.Viewport = &Viewport{Width: &width, Height: &height}
	return o
}

// WithUserAgent overrides the User-Agent header.
func (o ScrapeOptions) WithUserAgent(ua string) ScrapeOptions {
	o.UserAgent = ua
	return o
}

// WithHeaders sets extra request headers. The map is copied.
func (o ScrapeOptions) WithHeaders(headers map[string]string) ScrapeOptions {
	o.Headers = maps.Clone(headers)
	return o
}

// Link types reported by Map.
const (
	LinkInternal = "internal"
	LinkExternal = "external"
	LinkAnchor   = "anchor"
)

// MapOptions filters the links reported by Map.
type MapOptions struct {
	// LinkTypes keeps only the listed types; empty keeps all.
	LinkTypes []string `json:"link_types,omitempty" validate:"omitempty,dive,oneof=internal external anchor"`
	// BaseURL decides which links are internal; defaults to the page URL.
	BaseURL string `json:"base_url,omitempty" validate:"omitempty,url"`
	// FilterExtensions drops links whose path ends in one of them.
	FilterExtensions []string `json:"filter_extensions,omitempty"`
}

// WithLinkTypes keeps only links of the given types.
func (o MapOptions) WithLinkTypes(types ...string) MapOptions {
	o.LinkTypes = slices.Clone(types)
	return o
}

// WithBaseURL sets the URL that decides which links are internal.
func (o MapOptions) WithBaseURL(u string) MapOptions {
	o.BaseURL = u
	return o
}

// WithFilterExtensions drops links whose path ends in one of exts.
func (o MapOptions) WithFilterExtensions(exts ...string) MapOptions {
	o.FilterExtensions = slices.Clone(exts)
	return o
}

// Crawl defaults.
const (
	DefaultMaxDepth = 2
	DefaultLimit    = 10
)

// CrawlOptions bounds a crawl. Nil members take their defaults.
type CrawlOptions struct {
	Limit          *uint32 `json:"limit,omitempty" validate:"omitempty,gte=1"`
	MaxDepth       *uint8  `json:"max_depth,omitempty"`
	FollowExternal *bool   `json:"follow_external,omitempty"`
	// DelayBetweenRequests is the minimum spacing of page fetches, in ms.
	DelayBetweenRequests *uint32 `json:"delay_between_requests,omitempty"`
	ParallelRequests     *uint32 `json:"parallel_requests,omitempty" validate:"omitempty,gte=1,lte=64"`
	// ExcludePaths and IncludePaths are doublestar globs matched on the URL
	// path; a pattern without glob characters matches as a prefix.
	ExcludePaths []string `json:"exclude_paths,omitempty"`
	IncludePaths []string `json:"include_paths,omitempty"`
}

// WithLimit bounds the number of pages fetched.
func (o CrawlOptions) WithLimit(n uint32) CrawlOptions {
	o.Limit = &n
	return o
}

// WithMaxDepth bounds how many links away from the root the crawl goes.
func (o CrawlOptions) WithMaxDepth(d uint8) CrawlOptions {
	o.MaxDepth = &d
	return o
}

// WithExcludePaths skips URLs whose path matches one of the patterns.
func (o CrawlOptions) WithExcludePaths(paths ...string) CrawlOptions {
	o.ExcludePaths = slices.Clone(paths)
	return o
}

// WithIncludePaths follows only URLs whose path matches one of the patterns.
func (o CrawlOptions) WithIncludePaths(paths ...string) CrawlOptions {
	o.IncludePaths = slices.Clone(paths)
	return o
}

// WithFollowExternal allows the crawl to leave the root host.
func (o CrawlOptions) WithFollowExternal(follow bool) CrawlOptions {
	o.FollowExternal = &follow
	return o
}

// WithDelayBetweenRequests spaces page fetches by at least ms milliseconds.
func (o CrawlOptions) WithDelayBetweenRequests(ms uint32) CrawlOptions {
	o.DelayBetweenRequests = &ms
	return o
}

// WithParallelRequests sets how many pages are fetched at once.
func (o CrawlOptions) WithParallelRequests(n uint32) CrawlOptions {
	o.ParallelRequests = &n
	return o
}

// Validate checks the bounds and path patterns.
func (o CrawlOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return err
	}
	for _, p := range append(slices.Clone(o.IncludePaths), o.ExcludePaths...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid path pattern %q", p)
		}
	}
	return nil
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
