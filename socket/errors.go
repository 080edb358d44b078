package socket

import (
	"fmt"

	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// Kind classifies a socket capability failure. Kinds equal the host status
// code they are reported with.
type Kind uint32

const (
	ConnectRefused Kind = iota + 1
	ParameterError
	ConnectionReset
	AddressInUse
)

// Unknown is reported for status codes the host does not document.
const Unknown Kind = 100

var kindText = map[Kind]string{
	ConnectRefused:  "connection refused",
	ParameterError:  "parameter error",
	ConnectionReset: "connection reset",
	AddressInUse:    "address in use",
	Unknown:         "unknown error",
}

func (k Kind) Error() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("socket error %d", uint32(k))
}

// KindFromCode maps a host status code to its Kind.
func KindFromCode(code uint32) Kind {
	if code >= uint32(ConnectRefused) && code <= uint32(AddressInUse) {
		return Kind(code)
	}
	return Unknown
}

// Error is returned by every failing operation of the package.
type Error struct {
	Err  error
	Op   string
	Addr string
	Kind Kind
	Code uint32
}

func (e *Error) Error() string {
	msg := "socket " + e.Op
	if e.Addr != "" {
		msg += " " + e.Addr
	}
	msg += ": " + e.Kind.Error()
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
	return &wireformat.ErrorDetail{Message: e.Error(), Type: "socket", Kind: e.Kind.Error(), Code: e.Code}
}
