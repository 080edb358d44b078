//go:build !wasip1

package blstest

import (
	"encoding/json"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
)

// Memory fakes blockless_memory. Every read copies from the start of the
// document, as the host does.
type Memory struct {
	Stdin []byte
	Env   []byte
	// Errno, when non-zero, fails every read.
	Errno uint32

	rec *recorder
}

// SetStdin replaces the stdin document.
func (m *Memory) SetStdin(s string) *Memory {
	m.Stdin = []byte(s)
	return m
}

// SetEnv replaces the environment document with vars encoded as a JSON
// object.
func (m *Memory) SetEnv(vars map[string]string) *Memory {
	m.Env, _ = json.Marshal(vars)
	return m
}

func (m *Memory) ReadStdin(buf []byte) (n, errno uint32) {
	m.rec.add(hostfuncs.ModuleMemory, hostfuncs.FuncMemoryRead)
	if m.Errno != 0 {
		return 0, m.Errno
	}
	return uint32(copy(buf, m.Stdin)), 0
}

func (m *Memory) ReadEnv(buf []byte) (n, errno uint32) {
	m.rec.add(hostfuncs.ModuleMemory, hostfuncs.FuncEnvVarRead)
	if m.Errno != 0 {
		return 0, m.Errno
	}
	return uint32(copy(buf, m.Env)), 0
}
