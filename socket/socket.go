// Package socket binds the blockless_socket host module, which creates
// TCP sockets bound and listening on the host's side of the sandbox.
package socket

import (
	"log/slog"
	"net"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
)

// CreateTCPBindSocket asks the host to bind a TCP socket to addr
// ("host:port") and returns its file descriptor.
func CreateTCPBindSocket(addr string) (uint32, error) {
	slog.Debug("host call", "fn", hostfuncs.FuncCreateTCPBindSocket, "addr", addr)

	var fd uint32
	if code := host_create_tcp_bind_socket(abi.StringPtr(addr), abi.Len(addr), &fd); code != 0 {
		return 0, &Error{Op: "bind", Addr: addr, Kind: KindFromCode(code), Code: code}
	}
	return fd, nil
}

// Listen binds addr through the host and returns a listener accepting
// connections on the resulting descriptor.
func Listen(addr string) (net.Listener, error) {
	fd, err := CreateTCPBindSocket(addr)
	if err != nil {
		return nil, err
	}
	return fileListener(fd, addr)
}
