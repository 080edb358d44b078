package crawl

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/blessnetwork/bls-sdk-go/internal/validate"
)

// Map scrapes url and reports the links found on it, classified as
// internal, external or anchor links.
func (c *Client) Map(ctx context.Context, pageURL string, opts *MapOptions) (*Response[MapData], error) {
	var o MapOptions
	if opts != nil {
		o = *opts
	}
	if err := validate.Struct(o); err != nil {
		return nil, &Error{Op: "map", Kind: MapFailed, Err: err}
	}

	cfg := c.config
	cfg.Format = FormatHTML
	resp, err := c.fetch(ctx, pageURL, cfg)
	if err != nil {
		return nil, &Error{Op: "map", Kind: MapFailed, Err: err}
	}
	hrefs, err := extractLinks(resp.Data.Content)
	if err != nil {
		return nil, &Error{Op: "map", Kind: MapFailed, Err: err}
	}
	data, err := linkMap(pageURL, pageOf(resp.Data, pageURL), hrefs, resp.Data.Timestamp, o)
	if err != nil {
		return nil, &Error{Op: "map", Kind: MapFailed, Err: err}
	}
	return &Response[MapData]{Success: true, Data: data}, nil
}

// pageOf returns the URL a page was served from.
func pageOf(d ScrapeData, requested string) string {
	if d.Metadata.URL != "" {
		return d.Metadata.URL
	}
	return requested
}

// extractLinks returns the href of every anchor in document order.
func extractLinks(page string) ([]string, error) {
	doc, err := parseHTML(page)
	if err != nil {
		return nil, err
	}
	var out []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && strings.TrimSpace(href) != "" {
			out = append(out, strings.TrimSpace(href))
		}
	})
	return out, nil
}

// linkMap classifies hrefs found on page and applies the map filters.
// Links are resolved against page, de-duplicated and limited to http(s).
func linkMap(requested, page string, hrefs []string, ts uint64, o MapOptions) (MapData, error) {
	pageURL, err := url.Parse(page)
	if err != nil {
		return MapData{}, err
	}
	baseURL := pageURL
	if o.BaseURL != "" {
		if baseURL, err = url.Parse(o.BaseURL); err != nil {
			return MapData{}, err
		}
	}

	seen := make(map[string]bool)
	links := []LinkInfo{}
	for _, href := range hrefs {
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		u := pageURL.ResolveReference(ref)
		if u.Scheme != "http" && u.Scheme != "https" {
			continue
		}
		s := u.String()
		if seen[s] {
			continue
		}
		seen[s] = true

		kind := classify(u, pageURL, baseURL)
		if len(o.LinkTypes) > 0 && !containsFold(o.LinkTypes, kind) {
			continue
		}
		if hasExtension(u.Path, o.FilterExtensions) {
			continue
		}
		links = append(links, LinkInfo{URL: s, LinkType: kind})
	}
	return MapData{URL: requested, Links: links, TotalLinks: len(links), Timestamp: ts}, nil
}

func classify(u, page, base *url.URL) string {
	if u.Fragment != "" && sameDocument(u, page) {
		return LinkAnchor
	}
	if strings.EqualFold(u.Hostname(), base.Hostname()) {
		return LinkInternal
	}
	return LinkExternal
}

func sameDocument(a, b *url.URL) bool {
	return strings.EqualFold(a.Host, b.Host) &&
		a.Scheme == b.Scheme &&
		cleanPath(a.Path) == cleanPath(b.Path) &&
		a.RawQuery == b.RawQuery
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func hasExtension(path string, exts []string) bool {
	path = strings.ToLower(path)
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
