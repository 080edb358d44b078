package cgi

import (
	"fmt"

	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// Kind classifies a CGI capability failure. The host does not document
// distinct status codes for blockless_cgi, so kinds describe the operation
// that failed and Error.Code keeps the raw status.
type Kind uint32

const (
	ExecError Kind = iota + 1
	ReadError
	ListError
	EncodingError
	JSONDecodingError
	NoCommandError
)

var kindText = map[Kind]string{
	ExecError:         "exec error",
	ReadError:         "read error",
	ListError:         "list error",
	EncodingError:     "encoding error",
	JSONDecodingError: "json decoding error",
	NoCommandError:    "no command",
}

func (k Kind) Error() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("cgi error %d", uint32(k))
}

// Error is returned by every failing operation of the package.
type Error struct {
	Err  error
	Op   string
	Kind Kind
	Code uint32
}

func (e *Error) Error() string {
	msg := "cgi " + e.Op + ": " + e.Kind.Error()
	if e.Code != 0 {
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
	return &wireformat.ErrorDetail{Message: e.Error(), Type: "cgi", Kind: e.Kind.Error(), Code: e.Code}
}
