package hostfuncs

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// rpc_call status codes.
const (
	RPCInvalidJSON    uint32 = 1
	RPCMethodNotFound uint32 = 2
	RPCInvalidParams  uint32 = 3
	RPCInternalError  uint32 = 4
	RPCBufferTooSmall uint32 = 5
)

// JSON-RPC 2.0 error object codes.
const (
	JSONRPCParseError     = -32700
	JSONRPCInvalidRequest = -32600
	JSONRPCMethodNotFound = -32601
	JSONRPCInvalidParams  = -32602
	JSONRPCInternalError  = -32603
)

// HostFunc is a generic function signature for RPC methods.
// It accepts a context and a typed params value, and returns a typed result.
type HostFunc[Req any, Resp any] func(context.Context, Req) (Resp, error)

// ByteHandler is a function that accepts raw JSON params and returns a raw
// JSON result. This is the form RPCMux dispatches to.
type ByteHandler func(context.Context, json.RawMessage) (json.RawMessage, error)

// RPCError is a JSON-RPC error object. Handlers return it to control the
// error member of the response; any other error is reported as an internal
// error.
type RPCError struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// NewJSONHandler wraps a typed HostFunc into a ByteHandler.
// It handles the JSON unmarshalling of the params and marshalling of the
// result. Absent or null params leave Req at its zero value.
//
// Usage:
//
//	mux.Handle("echo", hostfuncs.NewJSONHandler(func(ctx context.Context, in string) (string, error) {
//	    return in, nil
//	}))
func NewJSONHandler[Req any, Resp any](fn HostFunc[Req, Resp]) ByteHandler {
	return func(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
		var req Req
		if len(params) > 0 && string(params) != "null" {
			if err := json.Unmarshal(params, &req); err != nil {
				return nil, &RPCError{Code: JSONRPCInvalidParams, Message: "invalid params: " + err.Error()}
			}
		}

		resp, err := fn(ctx, req)
		if err != nil {
			return nil, err
		}

		out, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return out, nil
	}
}

// RPCMux is an RPC backend dispatching JSON-RPC 2.0 requests by method name.
// It is safe for concurrent use.
type RPCMux struct {
	handlers map[string]ByteHandler
	mu       sync.RWMutex
}

// NewRPCMux returns a mux answering the built-in "ping", "echo" and
// "version" methods. version is reported under the "version" key.
func NewRPCMux(version string) *RPCMux {
	m := &RPCMux{handlers: make(map[string]ByteHandler)}
	m.Handle("ping", NewJSONHandler(func(context.Context, struct{}) (string, error) {
		return "pong", nil
	}))
	m.Handle("echo", func(_ context.Context, params json.RawMessage) (json.RawMessage, error) {
		if len(params) == 0 {
			return json.RawMessage("null"), nil
		}
		return params, nil
	})
	m.Handle("version", NewJSONHandler(func(context.Context, struct{}) (map[string]string, error) {
		return map[string]string{"version": version, "jsonrpc": "2.0"}, nil
	}))
	return m
}

// Handle registers h for method, replacing any previous handler.
func (m *RPCMux) Handle(method string, h ByteHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[method] = h
}

// Methods returns the registered method names, sorted.
func (m *RPCMux) Methods() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.handlers))
	for name := range m.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// Call implements RPC. Malformed envelopes fail with RPCInvalidJSON; method
// and handler failures are reported inside the response document. When the
// encoded response does not fit, n is its full size and the code is
// RPCBufferTooSmall.
func (m *RPCMux) Call(req, resp []byte) (n, code uint32) {
	return m.CallContext(context.Background(), req, resp)
}

// CallContext is Call with a caller-supplied context for the handler.
func (m *RPCMux) CallContext(ctx context.Context, req, resp []byte) (n, code uint32) {
	var in rpcRequest
	if err := json.Unmarshal(req, &in); err != nil || in.Method == "" {
		return 0, RPCInvalidJSON
	}

	out := rpcResponse{JSONRPC: "2.0", ID: in.ID}
	if len(out.ID) == 0 {
		out.ID = json.RawMessage("null")
	}

	m.mu.RLock()
	h, ok := m.handlers[in.Method]
	m.mu.RUnlock()

	if !ok {
		out.Error = &RPCError{Code: JSONRPCMethodNotFound, Message: "method not found: " + in.Method}
	} else if result, err := h(ctx, in.Params); err != nil {
		if rpcErr, isRPC := err.(*RPCError); isRPC {
			out.Error = rpcErr
		} else {
			out.Error = &RPCError{Code: JSONRPCInternalError, Message: err.Error()}
		}
	} else {
		out.Result = result
	}

	data, err := json.Marshal(out)
	if err != nil {
		return 0, RPCInternalError
	}
	if len(data) > len(resp) {
		return uint32(len(data)), RPCBufferTooSmall
	}
	return uint32(copy(resp, data)), 0
}
