package blshttp

import (
	"fmt"

	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// Kind classifies an HTTP capability failure. Kinds reported by the host
// equal their status code, so a Kind can be compared with errors.Is.
type Kind uint32

// Host reported kinds.
const (
	InvalidHandle Kind = iota + 1
	MemoryAccess
	BufferTooSmall
	HeaderNotFound
	Utf8
	DestinationNotAllowed
	InvalidMethod
	InvalidEncoding
	InvalidURL
	RequestError
	RuntimeError
	TooManySessions
	PermissionDenied
)

// Kinds raised by the SDK itself.
const (
	InvalidDriver Kind = iota + 100
	InvalidOptions
)

var kindText = map[Kind]string{
	InvalidHandle:         "invalid handle",
	MemoryAccess:          "memory access error",
	BufferTooSmall:        "buffer too small",
	HeaderNotFound:        "header not found",
	Utf8:                  "invalid UTF-8",
	DestinationNotAllowed: "destination not allowed",
	InvalidMethod:         "invalid method",
	InvalidEncoding:       "invalid encoding",
	InvalidURL:            "invalid URL",
	RequestError:          "request error",
	RuntimeError:          "runtime error",
	TooManySessions:       "too many sessions",
	PermissionDenied:      "permission denied",
	InvalidDriver:         "invalid driver",
	InvalidOptions:        "invalid options",
}

func (k Kind) Error() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("http error %d", uint32(k))
}

// KindFromCode maps a host status code to its Kind. Codes without a
// documented meaning map to RuntimeError.
func KindFromCode(code uint32) Kind {
	if code >= uint32(InvalidHandle) && code <= uint32(PermissionDenied) {
		return Kind(code)
	}
	return RuntimeError
}

// Error is returned by every failing operation of the package. Code holds
// the raw host status, or zero when the failure was detected locally.
type Error struct {
	Err  error
	Op   string
	Kind Kind
	Code uint32
}

func (e *Error) Error() string {
	msg := "http " + e.Op + ": " + e.Kind.Error()
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
	return &wireformat.ErrorDetail{Message: e.Error(), Type: "http", Kind: e.Kind.Error(), Code: e.Code}
}

func hostError(op string, code uint32) error {
	return &Error{Op: op, Kind: KindFromCode(code), Code: code}
}
