// Package rpc is the client of the bless host module: JSON-RPC 2.0
// requests answered by the host through a single rpc_call import.
package rpc

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
)

// DefaultBufferSize is the response buffer used when none is configured.
const DefaultBufferSize = 4096

// JSONRPCVersion is the protocol version sent with every request.
const JSONRPCVersion = "2.0"

// Request is a JSON-RPC request envelope.
type Request struct {
	Params  any    `json:"params,omitempty"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	ID      uint32 `json:"id"`
}

// Response is a JSON-RPC response envelope.
type Response struct {
	Error   *ResponseError  `json:"error,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	ID      uint32          `json:"id"`
}

// HasResult reports whether the response carries a non-null result.
func (r *Response) HasResult() bool {
	return len(r.Result) > 0 && string(r.Result) != "null"
}

// Client issues RPC calls. Request ids start at 1 and increase with every
// call. A Client is safe for concurrent use.
type Client struct {
	mu         sync.Mutex
	nextID     uint32
	bufferSize int
}

// Option configures a Client.
type Option func(*Client)

// WithBufferSize sets the size of the buffer the host writes responses
// into. Values below one are ignored.
func WithBufferSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// NewClient returns a client with a DefaultBufferSize response buffer.
func NewClient(opts ...Option) *Client {
	c := &Client{nextID: 1, bufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetBufferSize changes the response buffer size for later calls.
func (c *Client) SetBufferSize(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	WithBufferSize(n)(c)
}

// BufferSize returns the response buffer size.
func (c *Client) BufferSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bufferSize
}

func (c *Client) reserve() (id uint32, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id = c.nextID
	c.nextID++
	return id, c.bufferSize
}

// Call sends method with params and returns the decoded response. When the
// response carries a result and result is non-nil, the result is decoded
// into it. A JSON-RPC error object is returned in Response.Error, not as an
// error.
func (c *Client) Call(ctx context.Context, method string, params, result any) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Method: method, Kind: InternalError, Err: err}
	}

	id, size := c.reserve()
	req, err := json.Marshal(Request{JSONRPC: JSONRPCVersion, Method: method, Params: params, ID: id})
	if err != nil {
		return nil, &Error{Method: method, Kind: InvalidJSON, Err: err}
	}

	slog.DebugContext(ctx, "host call", "fn", hostfuncs.FuncRPCCall, "method", method, "id", id)

	buf := make([]byte, size)
	var n uint32
	if code := host_rpc_call(abi.Ptr(req), abi.Len(req), abi.Ptr(buf), abi.Len(buf), &n); code != 0 {
		return nil, &Error{Method: method, Kind: KindFromCode(code), Code: code}
	}
	data := buf[:min(int(n), len(buf))]
	if !utf8.Valid(data) {
		return nil, &Error{Method: method, Kind: Utf8}
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Method: method, Kind: InvalidJSON, Err: err}
	}
	if result != nil && resp.Error == nil && resp.HasResult() {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return nil, &Error{Method: method, Kind: InvalidJSON, Err: err}
		}
	}
	return &resp, nil
}

// Invoke calls method and decodes its result into R. A JSON-RPC error
// object is returned as *ResponseError; a response without a result fails
// with InternalError.
func Invoke[R any](ctx context.Context, c *Client, method string, params any) (R, error) {
	var out R
	resp, err := c.Call(ctx, method, params, nil)
	if err != nil {
		return out, err
	}
	if resp.Error != nil {
		return out, resp.Error
	}
	if !resp.HasResult() {
		return out, &Error{Method: method, Kind: InternalError}
	}
	if err := json.Unmarshal(resp.Result, &out); err != nil {
		return out, &Error{Method: method, Kind: InvalidJSON, Err: err}
	}
	return out, nil
}

// Ping calls the host's "ping" method.
func (c *Client) Ping(ctx context.Context) (string, error) {
	return Invoke[string](ctx, c, "ping", nil)
}

// Echo sends v to the host's "echo" method and returns what came back.
func Echo[T any](ctx context.Context, c *Client, v T) (T, error) {
	return Invoke[T](ctx, c, "echo", v)
}

// Version returns the host's version information.
func (c *Client) Version(ctx context.Context) (map[string]string, error) {
	return Invoke[map[string]string](ctx, c, "version", nil)
}
