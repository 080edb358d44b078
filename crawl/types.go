package crawl

// PageMetadata describes a scraped page.
type PageMetadata struct {
	Title              string `json:"title,omitempty"`
	Description        string `json:"description,omitempty"`
	URL                string `json:"url"`
	Language           string `json:"language,omitempty"`
	Keywords           string `json:"keywords,omitempty"`
	Robots             string `json:"robots,omitempty"`
	Author             string `json:"author,omitempty"`
	Creator            string `json:"creator,omitempty"`
	Publisher          string `json:"publisher,omitempty"`
	OGTitle            string `json:"og_title,omitempty"`
	OGDescription      string `json:"og_description,omitempty"`
	OGImage            string `json:"og_image,omitempty"`
	OGURL              string `json:"og_url,omitempty"`
	OGSiteName         string `json:"og_site_name,omitempty"`
	OGType             string `json:"og_type,omitempty"`
	TwitterTitle       string `json:"twitter_title,omitempty"`
	TwitterDescription string `json:"twitter_description,omitempty"`
	TwitterImage       string `json:"twitter_image,omitempty"`
	TwitterCard        string `json:"twitter_card,omitempty"`
	TwitterSite        string `json:"twitter_site,omitempty"`
	TwitterCreator     string `json:"twitter_creator,omitempty"`
	Favicon            string `json:"favicon,omitempty"`
	Viewport           string `json:"viewport,omitempty"`
	Referrer           string `json:"referrer,omitempty"`
	ContentType        string `json:"content_type,omitempty"`
	ScrapeID           string `json:"scrape_id,omitempty"`
	SourceURL          string `json:"source_url,omitempty"`
	ProxyUsed          string `json:"proxy_used,omitempty"`
	StatusCode         uint16 `json:"status_code"`
}

// ScrapeData is one scraped page. Timestamp is in Unix milliseconds.
type ScrapeData struct {
	Format    Format       `json:"format"`
	Content   string       `json:"content"`
	Metadata  PageMetadata `json:"metadata"`
	Timestamp uint64       `json:"timestamp"`
	Success   bool         `json:"success"`
}

// Response is the envelope of every crawl result.
type Response[T any] struct {
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// LinkInfo is one link found on a page. LinkType is LinkInternal,
// LinkExternal or LinkAnchor.
type LinkInfo struct {
	URL      string `json:"url"`
	LinkType string `json:"link_type"`
}

// MapData is the result of Map.
type MapData struct {
	URL        string     `json:"url"`
	Links      []LinkInfo `json:"links"`
	TotalLinks int        `json:"total_links"`
	Timestamp  uint64     `json:"timestamp"`
}

// CrawlError records a page that could not be scraped during a crawl.
type CrawlError struct {
	URL   string `json:"url"`
	Error string `json:"error"`
	Depth uint32 `json:"depth"`
}

// CrawlData is the result of Crawl.
type CrawlData struct {
	LinkMap      *MapData     `json:"link_map,omitempty"`
	RootURL      string       `json:"root_url"`
	Pages        []ScrapeData `json:"pages"`
	Errors       []CrawlError `json:"errors"`
	TotalPages   int          `json:"total_pages"`
	DepthReached uint8        `json:"depth_reached"`
}
