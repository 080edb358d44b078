package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/blessnetwork/bls-sdk-go/crawl"
	"github.com/blessnetwork/bls-sdk-go/rpc"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// documents maps schema names to a zero value of the documented type.
var documents = map[string]any{
	"http.options":          wireformat.HTTPOptionsWire{},
	"http.request":          wireformat.HTTPRequestWire{},
	"http.response":         wireformat.HTTPResponseWire{},
	"cgi.command":           wireformat.CGICommandWire{},
	"cgi.extension":         wireformat.CGIExtensionWire{},
	"llm.options":           wireformat.LLMOptionsWire{},
	"log.message":           wireformat.LogMessageWire{},
	"error.detail":          wireformat.ErrorDetail{},
	"rpc.request":           rpc.Request{},
	"rpc.response":          rpc.Response{},
	"crawl.scrape_options":  crawl.ScrapeOptions{},
	"crawl.map_options":     crawl.MapOptions{},
	"crawl.crawl_options":   crawl.CrawlOptions{},
	"crawl.scrape_response": crawl.Response[crawl.ScrapeData]{},
	"crawl.map_response":    crawl.Response[crawl.MapData]{},
	"crawl.crawl_response":  crawl.Response[crawl.CrawlData]{},
}

// Names returns the registered schema names, sorted.
func Names() []string {
	out := make([]string, 0, len(documents))
	for name := range documents {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Schema returns the JSON Schema registered under name.
func Schema(name string) ([]byte, error) {
	v, ok := documents[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q (known: %v)", name, Names())
	}
	return GenerateSchema(v)
}

var (
	compiledMu sync.Mutex
	compiled   = map[string]*jsonschema.Schema{}
)

// compile returns the compiled schema for name, caching it.
func compile(name string) (*jsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()
	if s, ok := compiled[name]; ok {
		return s, nil
	}
	doc, err := Schema(name)
	if err != nil {
		return nil, err
	}
	url := "mem://bls/" + name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	compiled[name] = s
	return s, nil
}

// Validate checks the JSON document doc against the schema name.
func Validate(name string, doc []byte) error {
	s, err := compile(name)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("decode %s document: %w", name, err)
	}
	return s.Validate(v)
}

// Has reports whether name is registered.
func Has(name string) bool {
	return slices.Contains(Names(), name)
}
