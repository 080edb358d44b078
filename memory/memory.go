// Package memory binds the blockless_memory host module, which exposes the
// guest's stdin document and environment variables.
package memory

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
)

const (
	initialBufferSize = 1024
	// MaxDocumentSize is the largest document Stdin and Env return.
	MaxDocumentSize = 16 << 20
)

// ErrTooLarge is returned when a document is longer than MaxDocumentSize.
var ErrTooLarge = errors.New("memory: document exceeds 16 MiB")

func syscallError(fn string, errno uint32) error {
	return os.NewSyscallError(fn, syscall.Errno(errno))
}

// ReadStdin copies the stdin document into buf with a single host call and
// returns the number of bytes written. The host copies from the start of
// the document on every call.
func ReadStdin(buf []byte) (int, error) {
	var n uint32
	if errno := host_memory_read(abi.Ptr(buf), abi.Len(buf), &n); errno != 0 {
		return 0, syscallError(hostfuncs.FuncMemoryRead, errno)
	}
	return int(n), nil
}

// ReadEnvVars copies the environment document into buf with a single host
// call.
func ReadEnvVars(buf []byte) (int, error) {
	var n uint32
	if errno := host_env_var_read(abi.Ptr(buf), abi.Len(buf), &n); errno != 0 {
		return 0, syscallError(hostfuncs.FuncEnvVarRead, errno)
	}
	return int(n), nil
}

// readGrowing repeats read with a doubling buffer until the document fits.
// The last buffer is one byte past the cap so a document of exactly
// MaxDocumentSize is told apart from a longer one.
func readGrowing(fn string, read func([]byte) (int, error)) ([]byte, error) {
	size := initialBufferSize
	for {
		buf := make([]byte, size)
		n, err := read(buf)
		if err != nil {
			return nil, err
		}
		if n < size {
			return buf[:n], nil
		}
		if size > MaxDocumentSize {
			slog.Debug("host document too large", "fn", fn, "limit", MaxDocumentSize)
			return nil, ErrTooLarge
		}
		size = min(size*2, MaxDocumentSize+1)
	}
}

// Stdin returns the whole stdin document.
func Stdin() ([]byte, error) {
	return readGrowing(hostfuncs.FuncMemoryRead, ReadStdin)
}

// Env returns the guest's environment. The host document is either a JSON
// object or dotenv style KEY=VALUE lines.
func Env() (map[string]string, error) {
	doc, err := readGrowing(hostfuncs.FuncEnvVarRead, ReadEnvVars)
	if err != nil {
		return nil, err
	}
	return ParseEnv(doc)
}

// ParseEnv decodes an environment document.
func ParseEnv(doc []byte) (map[string]string, error) {
	trimmed := bytes.Trim(doc, " \t\r\n\x00")
	vars := map[string]string{}
	switch {
	case len(trimmed) == 0:
		return vars, nil
	case trimmed[0] == '{':
		if err := json.Unmarshal(trimmed, &vars); err != nil {
			return nil, err
		}
		return vars, nil
	default:
		return godotenv.Unmarshal(string(trimmed))
	}
}

// Getenv looks up a single variable.
func Getenv(key string) (string, bool) {
	vars, err := Env()
	if err != nil {
		return "", false
	}
	v, ok := vars[key]
	return v, ok
}
