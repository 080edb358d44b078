package crawl

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type pageResult struct {
	data  ScrapeData
	links []string
	err   error
}

// Crawl scrapes url and follows its links breadth first. Limit bounds the
// number of pages fetched, failed fetches included. Failures below the
// root are recorded in CrawlData.Errors and do not stop the crawl.
func (c *Client) Crawl(ctx context.Context, rootURL string, opts *CrawlOptions) (*Response[CrawlData], error) {
	var o CrawlOptions
	if opts != nil {
		o = *opts
	}
	if err := o.Validate(); err != nil {
		return nil, &Error{Op: "crawl", Kind: CrawlFailed, Err: err}
	}
	if c.config.Format == FormatJSON {
		return nil, &Error{Op: "crawl", Kind: CrawlFailed, Err: errors.New("json format is not supported")}
	}
	root, err := url.Parse(rootURL)
	if err != nil || !root.IsAbs() {
		return nil, &Error{Op: "crawl", Kind: CrawlFailed, Err: InvalidURL}
	}

	var (
		limit    = int(deref(o.Limit, DefaultLimit))
		maxDepth = int(deref(o.MaxDepth, DefaultMaxDepth))
		parallel = int(deref(o.ParallelRequests, 1))
		external = deref(o.FollowExternal, false)
		limiter  = rate.NewLimiter(rate.Inf, 1)
	)
	if d := deref(o.DelayBetweenRequests, 0); d > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Duration(d)*time.Millisecond), 1)
	}

	cfg := c.config
	cfg.Format = FormatHTML

	data := CrawlData{RootURL: rootURL, Pages: []ScrapeData{}, Errors: []CrawlError{}}
	visited := map[string]bool{pageKey(root): true}
	frontier := []string{rootURL}
	fetched := 0

	for depth := 0; len(frontier) > 0 && fetched < limit; depth++ {
		if len(frontier) > limit-fetched {
			frontier = frontier[:limit-fetched]
		}
		fetched += len(frontier)

		results := make([]pageResult, len(frontier))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(parallel)
		for i, u := range frontier {
			g.Go(func() error {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
				resp, err := c.fetch(gctx, u, cfg)
				if err != nil {
					results[i].err = err
					return nil
				}
				links, err := extractLinks(resp.Data.Content)
				results[i] = pageResult{data: resp.Data, links: links, err: err}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, &Error{Op: "crawl", Kind: CrawlFailed, Err: err}
		}

		var next []string
		for i, r := range results {
			if r.err != nil {
				if depth == 0 {
					return nil, &Error{Op: "crawl", Kind: CrawlFailed, Err: r.err}
				}
				data.Errors = append(data.Errors, CrawlError{URL: frontier[i], Error: r.err.Error(), Depth: uint32(depth)})
				continue
			}

			page := pageOf(r.data, frontier[i])
			if depth == 0 {
				if lm, err := linkMap(rootURL, page, r.links, r.data.Timestamp, MapOptions{}); err == nil {
					data.LinkMap = &lm
				}
			}

			data.add(r.data, frontier[i], c.config.Format, depth)

			if depth >= maxDepth {
				continue
			}
			base, err := url.Parse(page)
			if err != nil {
				continue
			}
			for _, href := range r.links {
				u, ok := c.follow(base, root, href, external, o)
				if !ok || visited[pageKey(u)] {
					continue
				}
				visited[pageKey(u)] = true
				next = append(next, u.String())
			}
		}
		frontier = next
	}

	data.TotalPages = len(data.Pages)
	return &Response[CrawlData]{Success: true, Data: data}, nil
}

// add renders page in format and appends it, or records the render failure.
func (d *CrawlData) add(page ScrapeData, pageURL string, format Format, depth int) {
	if err := render(&page, format); err != nil {
		d.Errors = append(d.Errors, CrawlError{URL: pageURL, Error: err.Error(), Depth: uint32(depth)})
		return
	}
	d.Pages = append(d.Pages, page)
	d.DepthReached = uint8(depth)
}

// follow resolves href and reports whether the crawl should visit it.
func (c *Client) follow(base, root *url.URL, href string, external bool, o CrawlOptions) (*url.URL, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	u := base.ResolveReference(ref)
	u.Fragment, u.RawFragment = "", ""
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if !external && !strings.EqualFold(u.Hostname(), root.Hostname()) {
		return nil, false
	}
	path := cleanPath(u.Path)
	if len(o.IncludePaths) > 0 && !matchAny(o.IncludePaths, path) {
		return nil, false
	}
	if matchAny(o.ExcludePaths, path) {
		return nil, false
	}
	return u, true
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if matchPath(p, path) {
			return true
		}
	}
	return false
}

// matchPath matches a doublestar glob, or a plain prefix when pattern has
// no glob characters.
func matchPath(pattern, path string) bool {
	if !strings.ContainsAny(pattern, "*?[{") {
		return strings.HasPrefix(path, pattern)
	}
	ok, _ := doublestar.Match(pattern, path)
	return ok
}

// pageKey identifies a page for de-duplication.
func pageKey(u *url.URL) string {
	k := *u
	k.Fragment, k.RawFragment = "", ""
	k.Path = cleanPath(k.Path)
	k.Host = strings.ToLower(k.Host)
	return k.String()
}
