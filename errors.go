package bls

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/blessnetwork/bls-sdk-go/memory"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// ErrorDetail is re-exported from wireformat.
// Types: "http", "memory", "cgi", "socket", "llm", "rpc", "crawl", "config", "internal".
type ErrorDetail = wireformat.ErrorDetail

// DetailedError is implemented by errors that describe themselves as an
// ErrorDetail. Every capability package's *Error implements it.
type DetailedError interface {
	error
	ToErrorDetail() *ErrorDetail
}

type hostCoder interface {
	HostCode() uint32
}

// ToErrorDetail converts err to an ErrorDetail. Errors that are not
// recognized are reported as "internal".
func ToErrorDetail(err error) *ErrorDetail {
	if err == nil {
		return nil
	}

	var d *ErrorDetail
	if errors.As(err, &d) {
		return d
	}
	var de DetailedError
	if errors.As(err, &de) {
		d := de.ToErrorDetail()
		if d.Code == 0 {
			d.Code, _ = HostCode(err)
		}
		return d
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return &ErrorDetail{Message: err.Error(), Type: "memory", Kind: errno.Error(), Code: uint32(errno)}
	}
	if errors.Is(err, memory.ErrTooLarge) {
		return &ErrorDetail{Message: err.Error(), Type: "memory", Kind: memory.ErrTooLarge.Error()}
	}
	return &ErrorDetail{Message: err.Error(), Type: "internal"}
}

// HostCode returns the raw status code the host reported for err. SDK
// errors wrapping a host failure report the wrapped code. It reports false
// for failures raised by the SDK itself.
func HostCode(err error) (uint32, bool) {
	var code uint32
	found := findInChain(err, func(e error) bool {
		switch v := e.(type) {
		case syscall.Errno:
			code = uint32(v)
			return true
		case hostCoder:
			code = v.HostCode()
			return code != 0
		}
		return false
	})
	return code, found
}

// findInChain walks the tree of err depth first, in the order errors.As
// does, until match reports true.
func findInChain(err error, match func(error) bool) bool {
	for err != nil {
		if match(err) {
			return true
		}
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				if findInChain(e, match) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}
	return false
}

// ConfigError is a configuration document that could not be decoded or
// failed validation.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *ErrorDetail {
	return &ErrorDetail{Message: e.Error(), Type: "config", Kind: e.Field}
}
