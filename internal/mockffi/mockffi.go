//go:build !wasip1

// Package mockffi holds the backends that native builds of the capability
// packages call instead of host imports. Tests install them through
// blstest.Install.
package mockffi

import (
	"fmt"
	"sync"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
)

var (
	mu      sync.RWMutex
	current = &hostfuncs.Backends{}
)

// Install replaces the active backends and returns a function restoring
// the previous set. A nil b removes every backend.
func Install(b *hostfuncs.Backends) (restore func()) {
	if b == nil {
		b = &hostfuncs.Backends{}
	}
	mu.Lock()
	prev := current
	current = b
	mu.Unlock()

	return func() {
		mu.Lock()
		current = prev
		mu.Unlock()
	}
}

// Backends returns the active backends.
func Backends() *hostfuncs.Backends {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Must returns the backend selected by pick, panicking when the module has
// no backend installed.
func Must[T any](module string, pick func(*hostfuncs.Backends) T) T {
	v := pick(Backends())
	if any(v) == nil {
		panic(fmt.Sprintf("bls: no mock backend installed for host module %q; call blstest.Install first", module))
	}
	return v
}
