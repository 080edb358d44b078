package crawl

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Selectors removed by OnlyMainContent.
var excludeNonMainTags = []string{
	"header", "footer", "nav", "aside",
	".header", ".top", ".navbar", "#header",
	".footer", ".bottom", "#footer",
	".sidebar", ".side", ".aside", "#sidebar",
	".modal", ".popup", "#modal", ".overlay",
	".ad", ".ads", ".advert", "#ad",
	".lang-selector", ".language", "#language-selector",
	".social", ".social-media", ".social-links", "#social",
	".menu", ".navigation", "#nav",
	".breadcrumbs", "#breadcrumbs",
	".share", "#share",
	".widget", "#widget",
	".cookie", "#cookie",
}

// Selectors whose presence keeps an element OnlyMainContent would drop.
// swoogo event pages wrap all of their content in .widget.
var forceIncludeMainTags = []string{
	"#main",
	".swoogo-cols", ".swoogo-text", ".swoogo-table-div", ".swoogo-space",
	".swoogo-alert", ".swoogo-sponsors", ".swoogo-title", ".swoogo-tabs",
	".swoogo-logo", ".swoogo-image", ".swoogo-button", ".swoogo-agenda",
}

var (
	excludeNonMain = mustCompileAll(excludeNonMainTags)
	forceInclude   = mustCompileAll(forceIncludeMainTags)
)

func mustCompileAll(sels []string) []cascadia.Selector {
	out := make([]cascadia.Selector, len(sels))
	for i, s := range sels {
		out[i] = cascadia.MustCompile(s)
	}
	return out
}

// TransformOptions configures TransformHTML.
type TransformOptions struct {
	HTML            string
	URL             string
	IncludeTags     []string
	ExcludeTags     []string
	OnlyMainContent bool
}

// TransformHTML cleans scraped HTML: it keeps only IncludeTags when given,
// strips non-content elements and ExcludeTags, optionally drops page
// chrome, picks the largest srcset image and makes image and link URLs
// absolute against URL.
func TransformHTML(opts TransformOptions) (string, error) {
	doc, err := parseHTML(opts.HTML)
	if err != nil {
		return "", err
	}

	if len(opts.IncludeTags) > 0 {
		doc, err = keepOnly(doc, opts.IncludeTags)
		if err != nil {
			return "", err
		}
	}

	doc.Find("head, meta, noscript, style, script").Remove()

	for _, sel := range opts.ExcludeTags {
		m, err := cascadia.Compile(sel)
		if err != nil {
			continue
		}
		doc.FindMatcher(m).Remove()
	}

	if opts.OnlyMainContent {
		for _, m := range excludeNonMain {
			doc.FindMatcher(m).Each(func(_ int, s *goquery.Selection) {
				if !forceIncluded(s) {
					s.Remove()
				}
			})
		}
	}

	doc.Find("img[srcset]").Each(func(_ int, img *goquery.Selection) {
		if src, ok := largestSrc(img); ok {
			img.SetAttr("src", src)
		}
	})

	base, err := url.Parse(opts.URL)
	if err != nil || !base.IsAbs() || base.Host == "" {
		return "", fmt.Errorf("invalid page url %q", opts.URL)
	}
	absolutize(doc.Find("img[src]"), "src", base)
	absolutize(doc.Find("a[href]"), "href", base)

	return doc.Html()
}

// parseHTML parses a full document with the HTML5 algorithm, so fragments
// gain the implied html, head and body elements.
func parseHTML(s string) (*goquery.Document, error) {
	node, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return goquery.NewDocumentFromNode(node), nil
}

// keepOnly returns a document holding clones of the elements matching
// sels under a single div.
func keepOnly(doc *goquery.Document, sels []string) (*goquery.Document, error) {
	out, err := parseHTML("<div></div>")
	if err != nil {
		return nil, err
	}
	root := out.Find("div").First()
	for _, sel := range sels {
		m, err := cascadia.Compile(sel)
		if err != nil {
			return nil, fmt.Errorf("include selector %q: %w", sel, err)
		}
		root.AppendSelection(doc.FindMatcher(m).Clone())
	}
	return out, nil
}

func forceIncluded(s *goquery.Selection) bool {
	for _, m := range forceInclude {
		if s.IsMatcher(m) || s.FindMatcher(m).Length() > 0 {
			return true
		}
	}
	return false
}

type imageSource struct {
	url  string
	size int
	isX  bool
}

// largestSrc picks the largest srcset candidate. When every candidate is
// density based, src competes as 1x.
func largestSrc(img *goquery.Selection) (string, bool) {
	srcset, _ := img.Attr("srcset")
	var sources []imageSource
	for entry := range strings.SplitSeq(srcset, ",") {
		tokens := strings.Split(strings.TrimSpace(entry), " ")
		if tokens[0] == "" {
			continue
		}
		sizeToken := "1x"
		if len(tokens) > 1 && tokens[1] != "" {
			sizeToken = tokens[1]
		}
		size, err := strconv.Atoi(sizeToken[:len(sizeToken)-1])
		if err != nil {
			continue
		}
		sources = append(sources, imageSource{url: tokens[0], size: size, isX: strings.HasSuffix(sizeToken, "x")})
	}

	allX := !slices.ContainsFunc(sources, func(s imageSource) bool { return !s.isX })
	if src, ok := img.Attr("src"); ok && allX {
		sources = append(sources, imageSource{url: src, size: 1, isX: true})
	}
	if len(sources) == 0 {
		return "", false
	}
	slices.SortStableFunc(sources, func(a, b imageSource) int { return b.size - a.size })
	return sources[0].url, true
}

func absolutize(sel *goquery.Selection, attr string, base *url.URL) {
	sel.Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr(attr)
		ref, err := url.Parse(strings.TrimSpace(v))
		if err != nil {
			return
		}
		s.SetAttr(attr, base.ResolveReference(ref).String())
	})
}
