//go:build !wasip1

// Package blstest is an in-process bls host for tests. It provides
// scripted fakes for every host module and installs them as the backends
// the capability packages call in native builds.
//
//	func TestFetch(t *testing.T) {
//	    host := blstest.Install(t, blstest.NewHost())
//	    host.HTTP.Respond("GET", "https://example.com", blstest.HTTPResponse{Status: 200, Body: "ok"})
//	    ...
//	}
package blstest

import (
	"sync"
	"testing"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/mockffi"
)

// Call records one host function invocation.
type Call struct {
	Module   string
	Function string
}

// recorder collects calls across the fakes of one Host. A nil recorder
// discards them.
type recorder struct {
	calls []Call
	mu    sync.Mutex
}

func (r *recorder) add(module, fn string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.calls = append(r.calls, Call{Module: module, Function: fn})
	r.mu.Unlock()
}

// Host bundles one fake per host module. A nil field leaves the module
// without a backend, so calling it from a capability package panics and a
// guest run under blshost receives the module's fault code.
type Host struct {
	HTTP   *HTTP
	Memory *Memory
	CGI    *CGI
	Socket *Socket
	LLM    *LLM
	RPC    *RPC
	Crawl  *Crawl

	rec *recorder
}

// NewHost returns a host with every fake present and empty. Its RPC fake
// serves "http.request" from the HTTP fake's routes.
func NewHost() *Host {
	rec := &recorder{}
	h := &Host{
		HTTP:   NewHTTP(),
		Memory: &Memory{},
		CGI:    NewCGI(),
		Socket: NewSocket(),
		LLM:    NewLLM(),
		RPC:    NewRPC(),
		Crawl:  NewCrawl(),
		rec:    rec,
	}
	h.HTTP.rec = rec
	h.Memory.rec = rec
	h.CGI.rec = rec
	h.Socket.rec = rec
	h.LLM.rec = rec
	h.RPC.rec = rec
	h.Crawl.rec = rec
	h.RPC.ServeHTTP(h.HTTP)
	return h
}

// Calls returns the host functions invoked so far, in order.
func (h *Host) Calls() []Call {
	if h.rec == nil {
		return nil
	}
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	out := make([]Call, len(h.rec.calls))
	copy(out, h.rec.calls)
	return out
}

// CallCount returns how many times module.fn was invoked.
func (h *Host) CallCount(module, fn string) int {
	n := 0
	for _, c := range h.Calls() {
		if c.Module == module && c.Function == fn {
			n++
		}
	}
	return n
}

// Backends returns the fakes as hostfuncs backends. Nil fakes stay nil
// interfaces.
func (h *Host) Backends() *hostfuncs.Backends {
	b := &hostfuncs.Backends{}
	if h.HTTP != nil {
		b.HTTP = h.HTTP
	}
	if h.Memory != nil {
		b.Memory = h.Memory
	}
	if h.CGI != nil {
		b.CGI = h.CGI
	}
	if h.Socket != nil {
		b.Socket = h.Socket
	}
	if h.LLM != nil {
		b.LLM = h.LLM
	}
	if h.RPC != nil {
		b.RPC = h.RPC
	}
	if h.Crawl != nil {
		b.Crawl = h.Crawl
	}
	return b
}

// Install makes h the backend of every capability package for the rest of
// the test and returns it. The previous backends are restored on cleanup.
// Tests using Install must not run in parallel with each other.
func Install(t testing.TB, h *Host) *Host {
	t.Helper()
	if h == nil {
		h = NewHost()
	}
	t.Cleanup(mockffi.Install(h.Backends()))
	return h
}
