//go:build !wasip1

package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawlDataAdd(t *testing.T) {
	var d CrawlData
	d.add(ScrapeData{Content: "<h1>Title</h1>"}, "https://example.com/", FormatMarkdown, 0)
	d.add(ScrapeData{Content: "<p>x</p>"}, "https://example.com/a", FormatJSON, 1)

	require.Len(t, d.Pages, 1)
	assert.Equal(t, FormatMarkdown, d.Pages[0].Format)
	assert.Contains(t, d.Pages[0].Content, "# Title")
	assert.Zero(t, d.DepthReached)

	require.Len(t, d.Errors, 1)
	assert.Equal(t, "https://example.com/a", d.Errors[0].URL)
	assert.Equal(t, uint32(1), d.Errors[0].Depth)
	assert.Contains(t, d.Errors[0].Error, "json format is not supported")
}
