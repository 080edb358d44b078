package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// Kind classifies an RPC failure. Kinds reported by the host equal their
// rpc_call status code.
type Kind uint32

// Host reported kinds. InvalidJSON is also used for local encode and
// decode failures.
const (
	InvalidJSON Kind = iota + 1
	MethodNotFound
	InvalidParams
	InternalError
	BufferTooSmall
)

// Kinds raised by the SDK itself.
const (
	Utf8 Kind = iota + 100
)

var kindText = map[Kind]string{
	InvalidJSON:    "invalid JSON format",
	MethodNotFound: "method not found",
	InvalidParams:  "invalid parameters",
	InternalError:  "internal error",
	BufferTooSmall: "buffer too small",
	Utf8:           "UTF-8 conversion error",
}

func (k Kind) Error() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("rpc error %d", uint32(k))
}

// KindFromCode maps an rpc_call status code to its Kind. Undocumented
// codes map to InternalError.
func KindFromCode(code uint32) Kind {
	if code >= uint32(InvalidJSON) && code <= uint32(BufferTooSmall) {
		return Kind(code)
	}
	return InternalError
}

// Error is returned by every failing call. Code holds the raw host status,
// or zero when the failure was detected locally.
type Error struct {
	Err    error
	Method string
	Kind   Kind
	Code   uint32
}

func (e *Error) Error() string {
	msg := "rpc " + e.Method + ": " + e.Kind.Error()
	if e.Code != 0 && Kind(e.Code) != e.Kind {
		msg += fmt.Sprintf(" (code %d)", e.Code)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// HostCode returns the raw host status code.
func (e *Error) HostCode() uint32 { return e.Code }

// ToErrorDetail implements bls.DetailedError.
func (e *Error) ToErrorDetail() *wireformat.ErrorDetail {
	return &wireformat.ErrorDetail{Message: e.Error(), Type: "rpc", Kind: e.Kind.Error(), Code: e.Code}
}

// ResponseError is the error object of a JSON-RPC response.
type ResponseError struct {
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message"`
	Code    int             `json:"code"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("rpc response error %d: %s", e.Code, e.Message)
}

// ToErrorDetail implements bls.DetailedError.
func (e *ResponseError) ToErrorDetail() *wireformat.ErrorDetail {
	return &wireformat.ErrorDetail{Message: e.Message, Type: "rpc", Kind: "response error"}
}
