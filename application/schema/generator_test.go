//go:build !wasip1

package schema_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blessnetwork/bls-sdk-go/application/schema"
	"github.com/blessnetwork/bls-sdk-go/cgi"
	"github.com/blessnetwork/bls-sdk-go/crawl"
	"github.com/blessnetwork/bls-sdk-go/llm"
	blslog "github.com/blessnetwork/bls-sdk-go/log"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

func TestGenerateSchema(t *testing.T) {
	type serverConfig struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	}
	type config struct {
		Token  *string      `json:"token,omitempty"`
		Server serverConfig `json:"server"`
		Tags   []string     `json:"tags"`
	}

	data, err := schema.GenerateSchema(config{})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	props, ok := decoded["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, props, 3)
	assert.Contains(t, props, "server")

	required, ok := decoded["required"].([]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"server", "tags"}, required)
}

func TestNames(t *testing.T) {
	names := schema.Names()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "http.request")
	assert.Contains(t, names, "crawl.scrape_options")
	assert.True(t, schema.Has("llm.options"))
	assert.False(t, schema.Has("smtp.message"))

	for _, name := range names {
		data, err := schema.Schema(name)
		require.NoError(t, err, name)
		assert.True(t, json.Valid(data), name)
	}

	_, err := schema.Schema("smtp.message")
	assert.Error(t, err)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestValidate_SDKDocuments(t *testing.T) {
	var logBuf bytes.Buffer
	slog.New(blslog.NewHandler(blslog.WithWriter(&logBuf))).Info("hello", "n", 1)

	tests := []struct {
		name string
		doc  []byte
	}{
		{name: "cgi.command", doc: mustJSON(t, cgi.NewCommand("ls", nil, nil))},
		{name: "llm.options", doc: mustJSON(t, llm.Options{}.WithSystemMessage("be brief").WithTemperature(0.5))},
		{name: "crawl.scrape_options", doc: mustJSON(t, crawl.DefaultScrapeOptions().WithViewport(1280, 720))},
		{name: "crawl.crawl_options", doc: mustJSON(t, crawl.CrawlOptions{}.WithLimit(5).WithExcludePaths("/blog/**"))},
		{name: "http.request", doc: mustJSON(t, wireformat.HTTPRequestWire{URL: "https://example.com", Method: "GET"})},
		{name: "log.message", doc: bytes.TrimSpace(logBuf.Bytes())},
		{name: "rpc.request", doc: []byte(`{"jsonrpc":"2.0","method":"ping","id":1}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, schema.Validate(tt.name, tt.doc))
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "llm.options", doc: `{"temperature":1}`},
		{name: "cgi.command", doc: `{"command":"ls","args":null,"envs":[]}`},
		{name: "crawl.scrape_options", doc: `{"format":"markdown","timeout":1,"wait_time":1,"only_main_content":false,"bogus":1}`},
		{name: "http.request", doc: `{"method":"GET"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, schema.Validate(tt.name, []byte(tt.doc)))
		})
	}

	assert.Error(t, schema.Validate("http.request", []byte("{")))
	assert.Error(t, schema.Validate("smtp.message", []byte("{}")))
}
