package crawl

import (
	"errors"
	"fmt"

	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// Kind classifies a crawl capability failure.
type Kind uint32

// Host reported kinds. Status codes 9 and 10 and undocumented codes are
// reported as RuntimeError with a message.
const (
	InvalidURL Kind = iota + 1
	Timeout
	Network
	Rendering
	Memory
	DepthExceeded
	RateLimited
	Transform
	RuntimeError
)

// Kinds raised by the SDK itself.
const (
	Utf8 Kind = iota + 100
	Parse
	ScrapeFailed
	MapFailed
	CrawlFailed
	EmptyResponse
	InvalidTimeout
	InvalidWaitTime
)

var kindText = map[Kind]string{
	InvalidURL:      "invalid URL",
	Timeout:         "request timeout",
	Network:         "network error",
	Rendering:       "page rendering error",
	Memory:          "memory allocation error",
	DepthExceeded:   "maximum crawl depth exceeded",
	RateLimited:     "rate limited",
	Transform:       "transform error",
	RuntimeError:    "runtime error",
	Utf8:            "invalid UTF-8",
	Parse:           "JSON parse error",
	ScrapeFailed:    "scrape failed",
	MapFailed:       "map failed",
	CrawlFailed:     "crawl failed",
	EmptyResponse:   "empty response from host",
	InvalidTimeout:  "timeout exceeds maximum allowed (120s)",
	InvalidWaitTime: "wait time exceeds maximum allowed (20s)",
}

func (k Kind) Error() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("crawl error %d", uint32(k))
}

// KindFromCode maps a host status code to its Kind and, for runtime
// errors, the message the host code stands for.
func KindFromCode(code uint32) (Kind, string) {
	switch {
	case code >= uint32(InvalidURL) && code <= uint32(Transform):
		return Kind(code), ""
	case code == 9:
		return RuntimeError, "Invalid timeout"
	case code == 10:
		return RuntimeError, "Invalid wait time"
	default:
		return RuntimeError, "Unknown error"
	}
}

// Error is returned by every failing operation of the package. Message
// carries the host's text for runtime errors.
type Error struct {
	Err     error
	Op      string
	Message string
	Kind    Kind
	Code    uint32
}

func (e *Error) Error() string {
	msg := "crawl " + e.Op + ": " + e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
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

// HostCode returns the raw host status code, or that of the wrapped crawl
// error when e was raised by the SDK.
func (e *Error) HostCode() uint32 {
	var inner *Error
	if e.Code == 0 && errors.As(e.Err, &inner) {
		return inner.HostCode()
	}
	return e.Code
}

// ToErrorDetail implements bls.DetailedError.
func (e *Error) ToErrorDetail() *wireformat.ErrorDetail {
	return &wireformat.ErrorDetail{Message: e.Error(), Type: "crawl", Kind: e.Kind.Error(), Code: e.HostCode()}
}

func hostError(op string, code uint32) error {
	kind, msg := KindFromCode(code)
	return &Error{Op: op, Kind: kind, Message: msg, Code: code}
}
