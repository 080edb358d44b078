//go:build !wasip1

package blstest

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// blockless_http status codes used by the fake.
const (
	httpInvalidHandle   uint32 = 1
	httpHeaderNotFound  uint32 = 4
	httpInvalidEncoding uint32 = 8
	httpInvalidURL      uint32 = 9
	httpTooManySessions uint32 = 12
)

// HTTPResponse is a scripted response.
type HTTPResponse struct {
	Headers map[string]string `yaml:"headers" json:"headers,omitempty"`
	Body    string            `yaml:"body" json:"body,omitempty"`
	Status  uint32            `yaml:"status" json:"status" validate:"omitempty,gte=100,lte=599"`
}

// HTTPRequest is a request received by the fake.
type HTTPRequest struct {
	Headers map[string]string
	Body    *string
	URL     string
	Method  string
	Options wireformat.HTTPOptionsWire
}

type httpSession struct {
	resp    HTTPResponse
	body    stream
	headers map[string]*stream
}

// HTTP fakes blockless_http. Responses are looked up by "METHOD url", then
// by url alone. Unknown URLs answer 404 with an empty body.
type HTTP struct {
	routes      map[string]HTTPResponse
	failures    map[string]uint32
	requests    []HTTPRequest
	sessions    Handles[*httpSession]
	rec         *recorder
	MaxSessions int
	mu          sync.Mutex
}

// NewHTTP returns an HTTP fake without routes.
func NewHTTP() *HTTP {
	return &HTTP{routes: make(map[string]HTTPResponse), failures: make(map[string]uint32)}
}

// Respond scripts the response for method and url. An empty method
// matches any method.
func (f *HTTP) Respond(method, url string, resp HTTPResponse) *HTTP {
	f.mu.Lock()
	defer f.mu.Unlock()
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	f.routes[routeKey(method, url)] = resp
	return f
}

// Fail makes requests to url fail with a host status code.
func (f *HTTP) Fail(url string, code uint32) *HTTP {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[url] = code
	return f
}

// Requests returns the requests received so far.
func (f *HTTP) Requests() []HTTPRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]HTTPRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// OpenSessions returns the number of requests not yet closed.
func (f *HTTP) OpenSessions() int { return f.sessions.Len() }

func routeKey(method, url string) string {
	if method == "" {
		return url
	}
	return strings.ToUpper(method) + " " + url
}

// lookup resolves a scripted response.
func (f *HTTP) lookup(method, url string) (HTTPResponse, uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.failures[url]; ok {
		return HTTPResponse{}, code
	}
	if resp, ok := f.routes[routeKey(method, url)]; ok {
		return resp, 0
	}
	if resp, ok := f.routes[url]; ok {
		return resp, 0
	}
	return HTTPResponse{Status: http.StatusNotFound}, 0
}

func (f *HTTP) record(req HTTPRequest) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
}

func (f *HTTP) Request(url, opts []byte) (handle, status, code uint32) {
	f.rec.add(hostfuncs.ModuleHTTP, hostfuncs.FuncHTTPRequest)
	if len(url) == 0 {
		return 0, 0, httpInvalidURL
	}
	var o wireformat.HTTPOptionsWire
	if err := json.Unmarshal(opts, &o); err != nil {
		return 0, 0, httpInvalidEncoding
	}
	headers := map[string]string{}
	if o.Headers != "" {
		if err := json.Unmarshal([]byte(o.Headers), &headers); err != nil {
			return 0, 0, httpInvalidEncoding
		}
	}
	f.record(HTTPRequest{URL: string(url), Method: o.Method, Headers: headers, Body: o.Body, Options: o})

	if f.MaxSessions > 0 && f.sessions.Len() >= f.MaxSessions {
		return 0, 0, httpTooManySessions
	}
	resp, code := f.lookup(o.Method, string(url))
	if code != 0 {
		return 0, 0, code
	}
	h := f.sessions.Add(&httpSession{
		resp:    resp,
		body:    stream{data: []byte(resp.Body)},
		headers: make(map[string]*stream),
	})
	return h, resp.Status, 0
}

func (f *HTTP) ReadHeader(handle uint32, name, buf []byte) (n, code uint32) {
	f.rec.add(hostfuncs.ModuleHTTP, hostfuncs.FuncHTTPReadHeader)
	s, ok := f.sessions.Get(handle)
	if !ok {
		return 0, httpInvalidHandle
	}
	key := http.CanonicalHeaderKey(string(name))
	st, ok := s.headers[key]
	if !ok {
		value, found := "", false
		for k, v := range s.resp.Headers {
			if strings.EqualFold(k, key) {
				value, found = v, true
				break
			}
		}
		if !found {
			return 0, httpHeaderNotFound
		}
		st = &stream{data: []byte(value)}
		s.headers[key] = st
	}
	n = st.read(buf)
	if n == 0 {
		// Rewind so the header can be read again.
		delete(s.headers, key)
	}
	return n, 0
}

func (f *HTTP) ReadBody(handle uint32, buf []byte) (n, code uint32) {
	f.rec.add(hostfuncs.ModuleHTTP, hostfuncs.FuncHTTPReadBody)
	s, ok := f.sessions.Get(handle)
	if !ok {
		return 0, httpInvalidHandle
	}
	return s.body.read(buf), 0
}

func (f *HTTP) Close(handle uint32) (code uint32) {
	f.rec.add(hostfuncs.ModuleHTTP, hostfuncs.FuncHTTPClose)
	if !f.sessions.Remove(handle) {
		return httpInvalidHandle
	}
	return 0
}
