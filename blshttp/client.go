package blshttp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"maps"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/blessnetwork/bls-sdk-go/internal/validate"
	"github.com/blessnetwork/bls-sdk-go/rpc"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// MethodHTTPRequest is the RPC method serving Client requests.
const MethodHTTPRequest = "http.request"

// DefaultClientBufferSize is the RPC response buffer of a Client created
// without WithRPC. Responses carry the whole body, base64 encoded.
const DefaultClientBufferSize = 1 << 20

// Client sends requests through the host's "http.request" RPC method and
// receives complete responses.
type Client struct {
	rpc     *rpc.Client
	headers map[string]string
	timeout time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultHeaders sets headers sent with every request. Request headers
// with the same name take precedence.
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		maps.Copy(c.headers, headers)
	}
}

// WithTimeout sets the default request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRPC sets the RPC client requests are sent through.
func WithRPC(r *rpc.Client) ClientOption {
	return func(c *Client) {
		if r != nil {
			c.rpc = r
		}
	}
}

// NewClient returns a Client configured by opts.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{headers: make(map[string]string)}
	for _, opt := range opts {
		opt(c)
	}
	if c.rpc == nil {
		c.rpc = rpc.NewClient(rpc.WithBufferSize(DefaultClientBufferSize))
	}
	return c
}

var defaultClient = sync.OnceValue(func() *Client { return NewClient() })

// Get starts a GET request on the default client.
func Get(rawURL string) *RequestBuilder { return defaultClient().Get(rawURL) }

// Post starts a POST request on the default client.
func Post(rawURL string) *RequestBuilder { return defaultClient().Post(rawURL) }

// Request starts a request with an arbitrary method.
func (c *Client) Request(method, rawURL string) *RequestBuilder {
	return &RequestBuilder{
		client:  c,
		method:  strings.ToUpper(method),
		url:     rawURL,
		query:   url.Values{},
		headers: make(map[string]string),
		timeout: c.timeout,
	}
}

func (c *Client) Get(rawURL string) *RequestBuilder    { return c.Request(http.MethodGet, rawURL) }
func (c *Client) Post(rawURL string) *RequestBuilder   { return c.Request(http.MethodPost, rawURL) }
func (c *Client) Put(rawURL string) *RequestBuilder    { return c.Request(http.MethodPut, rawURL) }
func (c *Client) Patch(rawURL string) *RequestBuilder  { return c.Request(http.MethodPatch, rawURL) }
func (c *Client) Delete(rawURL string) *RequestBuilder { return c.Request(http.MethodDelete, rawURL) }
func (c *Client) Head(rawURL string) *RequestBuilder   { return c.Request(http.MethodHead, rawURL) }

// MultipartField is one part of a multipart/form-data body. Parts with a
// FileName are sent as files.
type MultipartField struct {
	Name        string
	Value       string
	FileName    string
	ContentType string
	Data        []byte
}

// TextField returns a plain form field.
func TextField(name, value string) MultipartField {
	return MultipartField{Name: name, Value: value}
}

// FileField returns a file part. An empty contentType defaults to
// application/octet-stream.
func FileField(name, fileName, contentType string, data []byte) MultipartField {
	return MultipartField{Name: name, FileName: fileName, ContentType: contentType, Data: data}
}

// RequestBuilder accumulates one request. The first encoding error is kept
// and returned by Send.
type RequestBuilder struct {
	client  *Client
	query   url.Values
	headers map[string]string
	err     error
	method  string
	url     string
	body    []byte
	timeout time.Duration
}

// Query adds a query parameter.
func (b *RequestBuilder) Query(key, value string) *RequestBuilder {
	b.query.Add(key, value)
	return b
}

// Header sets a request header.
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	b.headers[key] = value
	return b
}

// JSON sets v, encoded as JSON, as the body.
func (b *RequestBuilder) JSON(v any) (*RequestBuilder, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return b, &Error{Op: "encode", Kind: InvalidEncoding, Err: err}
	}
	b.body = data
	b.headers["Content-Type"] = "application/json"
	return b, nil
}

// Form sets a URL encoded form body.
func (b *RequestBuilder) Form(fields map[string]string) *RequestBuilder {
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	b.body = []byte(values.Encode())
	b.headers["Content-Type"] = "application/x-www-form-urlencoded"
	return b
}

// Multipart sets a multipart/form-data body.
func (b *RequestBuilder) Multipart(fields []MultipartField) *RequestBuilder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := writePart(w, f); err != nil {
			b.err = &Error{Op: "encode", Kind: InvalidEncoding, Err: err}
			return b
		}
	}
	if err := w.Close(); err != nil {
		b.err = &Error{Op: "encode", Kind: InvalidEncoding, Err: err}
		return b
	}
	b.body = buf.Bytes()
	b.headers["Content-Type"] = w.FormDataContentType()
	return b
}

func writePart(w *multipart.Writer, f MultipartField) error {
	if f.FileName == "" {
		return w.WriteField(f.Name, f.Value)
	}
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="` + escapeQuotes(f.Name) + `"; filename="` + escapeQuotes(f.FileName) + `"`}
	h["Content-Type"] = []string{ct}
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(f.Data)
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// Body sets a raw body.
func (b *RequestBuilder) Body(data []byte) *RequestBuilder {
	b.body = data
	return b
}

// BasicAuth sets HTTP basic credentials.
func (b *RequestBuilder) BasicAuth(user, pass string) *RequestBuilder {
	b.headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
	return b
}

// BearerAuth sets a bearer token.
func (b *RequestBuilder) BearerAuth(token string) *RequestBuilder {
	b.headers["Authorization"] = "Bearer " + token
	return b
}

// Timeout overrides the client timeout for this request.
func (b *RequestBuilder) Timeout(d time.Duration) *RequestBuilder {
	b.timeout = d
	return b
}

// build assembles the wire request.
func (b *RequestBuilder) build() (wireformat.HTTPRequestWire, error) {
	if b.err != nil {
		return wireformat.HTTPRequestWire{}, b.err
	}
	if err := validate.Struct(Options{Method: b.method}); err != nil {
		return wireformat.HTTPRequestWire{}, &Error{Op: "send", Kind: InvalidOptions, Err: err}
	}

	u, err := url.Parse(b.url)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return wireformat.HTTPRequestWire{}, &Error{Op: "send", Kind: InvalidURL, Err: err}
	}
	if len(b.query) > 0 {
		q := u.Query()
		for k, vs := range b.query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	headers := make(map[string]string, len(b.client.headers)+len(b.headers))
	maps.Copy(headers, b.client.headers)
	maps.Copy(headers, b.headers)

	return wireformat.HTTPRequestWire{
		URL:       u.String(),
		Method:    b.method,
		Headers:   headers,
		Body:      b.body,
		TimeoutMs: uint32(b.timeout / time.Millisecond),
	}, nil
}

// Send executes the request.
func (b *RequestBuilder) Send(ctx context.Context) (*ClientResponse, error) {
	req, err := b.build()
	if err != nil {
		return nil, err
	}
	resp, err := rpc.Invoke[wireformat.HTTPResponseWire](ctx, b.client.rpc, MethodHTTPRequest, req)
	if err != nil {
		return nil, &Error{Op: "send", Kind: RequestError, Err: err}
	}
	return &ClientResponse{
		status:  resp.Status,
		headers: resp.Headers,
		body:    resp.Body,
		url:     resp.URL,
	}, nil
}

// ClientResponse is a complete response received by a Client.
type ClientResponse struct {
	headers map[string]string
	url     string
	body    []byte
	status  int
}

// Status returns the HTTP status code.
func (r *ClientResponse) Status() int { return r.status }

// IsSuccess reports a 2xx status.
func (r *ClientResponse) IsSuccess() bool { return r.status >= 200 && r.status < 300 }

// URL returns the final URL reported by the host.
func (r *ClientResponse) URL() string { return r.url }

// Headers returns a copy of the response headers.
func (r *ClientResponse) Headers() map[string]string { return maps.Clone(r.headers) }

// Header returns a response header, matching names case-insensitively.
func (r *ClientResponse) Header(key string) string {
	if v, ok := r.headers[key]; ok {
		return v
	}
	for k, v := range r.headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// Bytes returns the body.
func (r *ClientResponse) Bytes() []byte { return r.body }

// Text returns the body as a string.
func (r *ClientResponse) Text() string { return string(r.body) }

// JSON decodes the body into v.
func (r *ClientResponse) JSON(v any) error {
	if err := json.Unmarshal(r.body, v); err != nil {
		return &Error{Op: "decode", Kind: InvalidEncoding, Err: err}
	}
	return nil
}
