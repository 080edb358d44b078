//go:build !wasip1

package socket

import (
	"errors"
	"net"
)

// ErrUnsupported is returned by Listen outside a wasip1 guest, where the
// descriptor returned by the host does not exist in the process.
var ErrUnsupported = errors.New("socket: listening on host descriptors requires wasip1")

func fileListener(uint32, string) (net.Listener, error) {
	return nil, ErrUnsupported
}
