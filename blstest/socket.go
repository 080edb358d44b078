//go:build !wasip1

package blstest

import (
	"net"
	"sync"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
)

// blockless_socket status codes used by the fake.
const (
	socketParameterError uint32 = 2
	socketAddressInUse   uint32 = 4
)

// Socket fakes blockless_socket. Binding the same address twice fails
// with AddressInUse; Fail scripts any other code.
type Socket struct {
	bound    map[string]uint32
	failures map[string]uint32
	rec      *recorder
	nextFD   uint32
	mu       sync.Mutex
}

// NewSocket returns a Socket fake handing out descriptors from 3.
func NewSocket() *Socket {
	return &Socket{bound: make(map[string]uint32), failures: make(map[string]uint32), nextFD: 3}
}

// Fail makes binding addr fail with code.
func (s *Socket) Fail(addr string, code uint32) *Socket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[addr] = code
	return s
}

// Bound returns the descriptor bound to addr.
func (s *Socket) Bound(addr string) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fd, ok := s.bound[addr]
	return fd, ok
}

func (s *Socket) CreateTCPBind(addr []byte) (fd, code uint32) {
	s.rec.add(hostfuncs.ModuleSocket, hostfuncs.FuncCreateTCPBindSocket)
	a := string(addr)
	if _, _, err := net.SplitHostPort(a); err != nil {
		return 0, socketParameterError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.failures[a]; ok {
		return 0, code
	}
	if _, ok := s.bound[a]; ok {
		return 0, socketAddressInUse
	}
	fd = s.nextFD
	s.nextFD++
	s.bound[a] = fd
	return fd, 0
}
