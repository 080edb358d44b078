//go:build !wasip1

package blstest

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// RPC fakes the bless module with a hostfuncs.RPCMux answering ping, echo
// and version. Further methods are added with Handle or Result.
type RPC struct {
	*hostfuncs.RPCMux

	methods []string
	rec     *recorder
	mu      sync.Mutex
}

// NewRPC returns an RPC fake reporting version "blstest".
func NewRPC() *RPC {
	return &RPC{RPCMux: hostfuncs.NewRPCMux("blstest")}
}

// Result scripts a static result for method.
func (r *RPC) Result(method string, result any) *RPC {
	r.Handle(method, hostfuncs.NewJSONHandler(func(context.Context, json.RawMessage) (any, error) {
		return result, nil
	}))
	return r
}

// Methods returns the methods called so far, in order.
func (r *RPC) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.methods)
}

func (r *RPC) Call(req, resp []byte) (n, code uint32) {
	r.rec.add(hostfuncs.ModuleRPC, hostfuncs.FuncRPCCall)
	var env struct {
		Method string `json:"method"`
	}
	if json.Unmarshal(req, &env) == nil {
		r.mu.Lock()
		r.methods = append(r.methods, env.Method)
		r.mu.Unlock()
	}
	return r.RPCMux.Call(req, resp)
}

// ServeHTTP answers the "http.request" method from the routes of f.
func (r *RPC) ServeHTTP(f *HTTP) *RPC {
	r.Handle("http.request", hostfuncs.NewJSONHandler(func(_ context.Context, req wireformat.HTTPRequestWire) (wireformat.HTTPResponseWire, error) {
		if req.URL == "" {
			return wireformat.HTTPResponseWire{}, &hostfuncs.RPCError{Code: hostfuncs.JSONRPCInvalidParams, Message: "url is required"}
		}
		method := strings.ToUpper(req.Method)
		if method == "" {
			method = "GET"
		}
		var body *string
		if req.Body != nil {
			b := string(req.Body)
			body = &b
		}
		f.record(HTTPRequest{URL: req.URL, Method: method, Headers: req.Headers, Body: body})

		resp, code := f.lookup(method, req.URL)
		if code != 0 {
			return wireformat.HTTPResponseWire{}, &hostfuncs.RPCError{Code: hostfuncs.JSONRPCInternalError, Message: "request failed", Data: code}
		}
		return wireformat.HTTPResponseWire{
			Status:  int(resp.Status),
			Headers: resp.Headers,
			Body:    []byte(resp.Body),
			URL:     req.URL,
		}, nil
	}))
	return r
}
