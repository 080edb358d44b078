//go:build !wasip1

package blstest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/blessnetwork/bls-sdk-go/internal/validate"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// Fixtures describes a scripted host in YAML, for blsdev run and for tests
// sharing one setup.
//
//	stdin: '{"name":"bls"}'
//	env: {API_KEY: secret}
//	http:
//	  - url: https://httpbin.org/get
//	    response: {status: 200, body: '{"ok":true}'}
//	crawl:
//	  pages:
//	    https://example.com: {html: "<h1>hi</h1>"}
type Fixtures struct {
	Env    map[string]string `yaml:"env"`
	Stdin  string            `yaml:"stdin"`
	HTTP   []HTTPFixture     `yaml:"http" validate:"dive"`
	CGI    []CGIFixture      `yaml:"cgi" validate:"dive"`
	LLM    LLMFixture        `yaml:"llm"`
	RPC    RPCFixture        `yaml:"rpc"`
	Crawl  CrawlFixture      `yaml:"crawl"`
	Socket SocketFixture     `yaml:"socket"`
}

// HTTPFixture scripts one route. Fail, when non-zero, is the host status
// returned instead of a response.
type HTTPFixture struct {
	Method   string       `yaml:"method" validate:"omitempty,oneof=GET POST PUT PATCH DELETE HEAD OPTIONS"`
	URL      string       `yaml:"url" validate:"required,url"`
	Response HTTPResponse `yaml:"response"`
	Fail     uint32       `yaml:"fail"`
}

// CGIFixture registers one extension and its script.
type CGIFixture struct {
	Alias       string `yaml:"alias" validate:"required"`
	FileName    string `yaml:"file_name"`
	MD5         string `yaml:"md5"`
	Description string `yaml:"description"`
	CGIScript   `yaml:",inline"`
}

// LLMFixture restricts models and scripts replies.
type LLMFixture struct {
	Replies map[string]string `yaml:"replies"`
	Models  []string          `yaml:"models"`
}

// RPCFixture scripts static results per method.
type RPCFixture struct {
	Results map[string]any `yaml:"results"`
}

// CrawlFixture scripts pages and failures by URL.
type CrawlFixture struct {
	Pages    map[string]CrawlPage `yaml:"pages" validate:"dive"`
	Failures map[string]uint32    `yaml:"failures"`
}

// SocketFixture scripts bind failures by address.
type SocketFixture struct {
	Failures map[string]uint32 `yaml:"failures"`
}

// ParseFixtures decodes and validates a YAML fixtures document. Unknown
// keys are rejected.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	return &f, nil
}

// LoadFixtures reads fixtures from path.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// Host returns a new host scripted by f.
func (f *Fixtures) Host() *Host {
	h := NewHost()
	f.Apply(h)
	return h
}

// Apply scripts the fakes of h. Nil fakes are skipped.
func (f *Fixtures) Apply(h *Host) {
	if h.Memory != nil {
		h.Memory.SetStdin(f.Stdin)
		if len(f.Env) > 0 {
			h.Memory.SetEnv(f.Env)
		}
	}
	if h.HTTP != nil {
		for _, r := range f.HTTP {
			if r.Fail != 0 {
				h.HTTP.Fail(r.URL, r.Fail)
				continue
			}
			h.HTTP.Respond(r.Method, r.URL, r.Response)
		}
	}
	if h.CGI != nil {
		for _, c := range f.CGI {
			h.CGI.Register(wireformat.CGIExtensionWire{
				FileName:    c.FileName,
				Alias:       c.Alias,
				MD5:         c.MD5,
				Description: c.Description,
			}, c.CGIScript)
		}
	}
	if h.LLM != nil {
		h.LLM.Models = append(h.LLM.Models, f.LLM.Models...)
		for prompt, reply := range f.LLM.Replies {
			h.LLM.Replies[prompt] = reply
		}
	}
	if h.RPC != nil {
		for method, result := range f.RPC.Results {
			h.RPC.Result(method, result)
		}
	}
	if h.Crawl != nil {
		for url, page := range f.Crawl.Pages {
			h.Crawl.Page(url, page)
		}
		for url, code := range f.Crawl.Failures {
			h.Crawl.Fail(url, code)
		}
	}
	if h.Socket != nil {
		for addr, code := range f.Socket.Failures {
			h.Socket.Fail(addr, code)
		}
	}
}
