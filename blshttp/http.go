// Package blshttp binds the blockless_http host module: raw streamed HTTP
// requests executed by the host. Client provides a higher level request
// builder over the bless RPC "http.request" method.
package blshttp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"maps"
	"unicode/utf8"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
	"github.com/blessnetwork/bls-sdk-go/internal/validate"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// Options configures a raw request. Timeouts are in milliseconds.
type Options struct {
	Headers        map[string]string
	Body           *string
	Method         string `json:"method" validate:"oneof=GET POST PUT PATCH DELETE HEAD OPTIONS"`
	ConnectTimeout uint32
	ReadTimeout    uint32
}

// NewOptions returns options without headers or body.
func NewOptions(method string, connectTimeout, readTimeout uint32) Options {
	return Options{Method: method, ConnectTimeout: connectTimeout, ReadTimeout: readTimeout}
}

// WithHeader returns a copy of o with the header set.
func (o Options) WithHeader(name, value string) Options {
	h := make(map[string]string, len(o.Headers)+1)
	maps.Copy(h, o.Headers)
	h[name] = value
	o.Headers = h
	return o
}

// WithBody returns a copy of o carrying body.
func (o Options) WithBody(body string) Options {
	o.Body = &body
	return o
}

// MarshalJSON encodes the options document expected by http_req. Headers
// travel as a JSON object serialized into a string.
func (o Options) MarshalJSON() ([]byte, error) {
	headers := "{}"
	if len(o.Headers) > 0 {
		b, err := json.Marshal(o.Headers)
		if err != nil {
			return nil, err
		}
		headers = string(b)
	}
	return json.Marshal(wireformat.HTTPOptionsWire{
		Method:         o.Method,
		ConnectTimeout: o.ConnectTimeout,
		ReadTimeout:    o.ReadTimeout,
		Headers:        headers,
		Body:           o.Body,
	})
}

// Response is an open host request. It must be closed.
type Response struct {
	handle uint32
	status uint32
	closed bool
}

// Open issues a request through the host and returns once the status line
// is available. The body and headers are streamed on demand.
func Open(ctx context.Context, url string, opts Options) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: "open", Kind: RequestError, Err: err}
	}
	if err := validate.Struct(opts); err != nil {
		return nil, &Error{Op: "open", Kind: InvalidOptions, Err: err}
	}
	doc, err := json.Marshal(opts)
	if err != nil {
		return nil, &Error{Op: "open", Kind: InvalidOptions, Err: err}
	}

	slog.DebugContext(ctx, "host call", "fn", hostfuncs.FuncHTTPRequest, "method", opts.Method, "url", url)

	var fd, status uint32
	if code := host_http_req(abi.StringPtr(url), abi.Len(url), abi.Ptr(doc), abi.Len(doc), &fd, &status); code != 0 {
		return nil, hostError("open", code)
	}
	return &Response{handle: fd, status: status}, nil
}

// StatusCode returns the HTTP status reported by the host.
func (r *Response) StatusCode() uint32 { return r.status }

// Handle returns the host handle of the request.
func (r *Response) Handle() uint32 { return r.handle }

func (r *Response) checkOpen(op string) error {
	if r.closed {
		return &Error{Op: op, Kind: InvalidHandle}
	}
	return nil
}

// ReadBody performs a single host read into buf. Zero bytes means the
// body is exhausted.
func (r *Response) ReadBody(buf []byte) (int, error) {
	if err := r.checkOpen("read body"); err != nil {
		return 0, err
	}
	var n uint32
	if code := host_http_read_body(r.handle, abi.Ptr(buf), abi.Len(buf), &n); code != 0 {
		return 0, hostError("read body", code)
	}
	return int(n), nil
}

// Read implements io.Reader over the body.
func (r *Response) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := r.ReadBody(p)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Body reads the remaining body.
func (r *Response) Body() ([]byte, error) {
	if err := r.checkOpen("read body"); err != nil {
		return nil, err
	}
	body, code := abi.ReadAll(func(buf []byte) (uint32, uint32) {
		var n uint32
		code := host_http_read_body(r.handle, abi.Ptr(buf), abi.Len(buf), &n)
		return n, code
	})
	if code != 0 {
		return nil, hostError("read body", code)
	}
	return body, nil
}

// Header returns the value of the named response header.
func (r *Response) Header(name string) (string, error) {
	if err := r.checkOpen("read header"); err != nil {
		return "", err
	}
	value, code := abi.ReadAll(func(buf []byte) (uint32, uint32) {
		var n uint32
		code := host_http_read_header(r.handle, abi.StringPtr(name), abi.Len(name), abi.Ptr(buf), abi.Len(buf), &n)
		return n, code
	})
	if code != 0 {
		return "", hostError("read header", code)
	}
	if !utf8.Valid(value) {
		return "", &Error{Op: "read header", Kind: Utf8}
	}
	return string(value), nil
}

// Close releases the host handle. Only the first call reaches the host.
func (r *Response) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if code := host_http_close(r.handle); code != 0 {
		return hostError("close", code)
	}
	return nil
}
