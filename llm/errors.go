package llm

import (
	"fmt"

	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// Kind classifies an LLM capability failure. Host reported kinds equal
// their status code.
type Kind uint32

const (
	ModelNotSet Kind = iota + 1
	OptionsNotSet
	Utf8
)

// Kinds raised by the SDK itself.
const (
	Unknown Kind = iota + 100
	NameTooLong
	PayloadTooLarge
	InvalidOptions
	Closed
)

var kindText = map[Kind]string{
	ModelNotSet:     "model not set",
	OptionsNotSet:   "options not set",
	Utf8:            "invalid UTF-8",
	Unknown:         "unknown error",
	NameTooLong:     "model name too long",
	PayloadTooLarge: "payload too large",
	InvalidOptions:  "invalid options",
	Closed:          "client closed",
}

func (k Kind) Error() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("llm error %d", uint32(k))
}

// KindFromCode maps a host status code to its Kind. Undocumented codes map
// to Unknown.
func KindFromCode(code uint32) Kind {
	if code >= uint32(ModelNotSet) && code <= uint32(Utf8) {
		return Kind(code)
	}
	return Unknown
}

// Error is returned by every failing operation of the package.
type Error struct {
	Err  error
	Op   string
	Kind Kind
	Code uint32
}

func (e *Error) Error() string {
	msg := "llm " + e.Op + ": " + e.Kind.Error()
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
	return &wireformat.ErrorDetail{Message: e.Error(), Type: "llm", Kind: e.Kind.Error(), Code: e.Code}
}

func hostError(op string, code uint32) error {
	return &Error{Op: op, Kind: KindFromCode(code), Code: code}
}
