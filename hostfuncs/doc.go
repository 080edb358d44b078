// Package hostfuncs binds the bls host ABI to Go backends.
//
// Each host import a guest can call (http_req, memory_read, rpc_call, ...)
// is described by a HostFunction that decodes its i32 arguments from a
// value stack, reads and writes guest memory, and forwards the call to a
// backend interface (HTTP, Memory, CGI, Socket, LLM, RPC, Crawl).
//
// The package has no WASM runtime dependency. Guest memory is reached
// through the GuestMemory interface, which wazero's api.Memory satisfies,
// and the same Backends set is used by the native mock bindings of the
// capability packages. Backends see plain Go slices; a slice handed to a
// backend is only valid for the duration of the call.
package hostfuncs
