// Package bls holds what every bls guest program shares across the
// capability packages: the configuration document read from stdin,
// option validation and error reporting.
//
// The capability bindings live in their own packages: blshttp, memory,
// cgi, socket, llm, rpc and crawl. Each of them reports failures as a
// package specific *Error carrying a Kind and the raw host status, which
// HostCode and ToErrorDetail understand.
package bls

const (
	// Version of the SDK.
	Version = "0.3.0"
	// HostABI names the host function set the SDK is built against.
	HostABI = "blockless-v1"
)
