// Package cgi binds the blockless_cgi host module: listing the CGI
// extensions installed on the host and running them as commands.
package cgi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"
	"unsafe"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// Extension describes one installed CGI extension.
type Extension struct {
	FileName    string
	Alias       string
	MD5         string
	Description string
}

func (e Extension) String() string {
	return fmt.Sprintf("fileName: %s, alias: %s, md5: %s, description: %s", e.FileName, e.Alias, e.MD5, e.Description)
}

// Env is one environment variable passed to a command.
type Env struct {
	Name  string
	Value string
}

// ExtensionList is an open listing of the host's extensions.
type ExtensionList struct {
	handle uint32
	closed bool
}

// ListExtensions asks the host for its extension list.
func ListExtensions() (*ExtensionList, error) {
	var h uint32
	if code := host_cgi_list_exec(&h); code != 0 {
		return nil, &Error{Op: "list", Kind: ListError, Code: code}
	}
	return &ExtensionList{handle: h}, nil
}

// List reads and decodes the extension list. Members missing from an
// entry, or not strings, decode as empty strings.
func (l *ExtensionList) List() ([]Extension, error) {
	data, code := abi.ReadAll(func(buf []byte) (uint32, uint32) {
		var n uint32
		code := host_cgi_list_read(l.handle, abi.Ptr(buf), abi.Len(buf), &n)
		return n, code
	})
	if code != 0 {
		return nil, &Error{Op: "list", Kind: ListError, Code: code}
	}
	if !utf8.Valid(data) {
		return nil, &Error{Op: "list", Kind: EncodingError}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &Error{Op: "list", Kind: JSONDecodingError, Err: err}
	}
	out := make([]Extension, 0, len(entries))
	for _, raw := range entries {
		var w wireformat.CGIExtensionWire
		// Mistyped members are skipped and the rest still decode.
		var typeErr *json.UnmarshalTypeError
		if err := json.Unmarshal(raw, &w); err != nil && !errors.As(err, &typeErr) {
			return nil, &Error{Op: "list", Kind: JSONDecodingError, Err: err}
		}
		out = append(out, Extension{
			FileName:    w.FileName,
			Alias:       w.Alias,
			MD5:         w.MD5,
			Description: w.Description,
		})
	}
	return out, nil
}

// Command returns a command running the extension registered under alias.
func (l *ExtensionList) Command(alias string, args []string, envs []Env) (*Command, error) {
	exts, err := l.List()
	if err != nil {
		return nil, err
	}
	for _, ext := range exts {
		if ext.Alias == alias {
			return NewCommand(alias, args, envs), nil
		}
	}
	return nil, &Error{Op: "command", Kind: NoCommandError, Err: fmt.Errorf("no extension with alias %q", alias)}
}

// Close releases the list handle. Only the first call reaches the host.
func (l *ExtensionList) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	if code := host_cgi_close(l.handle); code != 0 {
		return &Error{Op: "close", Kind: ListError, Code: code}
	}
	return nil
}

// Command is a CGI process. It is started by Exec and must be closed.
type Command struct {
	Name string
	Args []string
	Envs []Env

	handle  uint32
	started bool
}

// NewCommand returns a command that has not been started.
func NewCommand(name string, args []string, envs []Env) *Command {
	return &Command{Name: name, Args: args, Envs: envs}
}

// MarshalJSON encodes the document expected by cgi_open. Args and envs are
// always arrays.
func (c *Command) MarshalJSON() ([]byte, error) {
	w := wireformat.CGICommandWire{
		Command: c.Name,
		Args:    make([]string, 0, len(c.Args)),
		Envs:    make([]wireformat.CGIEnvWire, 0, len(c.Envs)),
	}
	w.Args = append(w.Args, c.Args...)
	for _, e := range c.Envs {
		w.Envs = append(w.Envs, wireformat.CGIEnvWire{Name: e.Name, Value: e.Value})
	}
	return json.Marshal(w)
}

// Exec starts the command on the host. A command that is already running
// is closed first.
func (c *Command) Exec(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "exec", Kind: ExecError, Err: err}
	}
	if err := c.Close(); err != nil {
		return err
	}
	doc, err := json.Marshal(c)
	if err != nil {
		return &Error{Op: "exec", Kind: ExecError, Err: err}
	}
	slog.DebugContext(ctx, "host call", "fn", hostfuncs.FuncCGIOpen, "command", c.Name, "args", len(c.Args))

	var h uint32
	if code := host_cgi_open(abi.Ptr(doc), abi.Len(doc), &h); code != 0 {
		return &Error{Op: "exec", Kind: ExecError, Code: code}
	}
	c.handle, c.started = h, true
	return nil
}

type readFunc func(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint32) uint32

func (c *Command) readAll(op string, read readFunc) ([]byte, error) {
	if !c.started {
		return nil, nil
	}
	data, code := abi.ReadAll(func(buf []byte) (uint32, uint32) {
		var n uint32
		code := read(c.handle, abi.Ptr(buf), abi.Len(buf), &n)
		return n, code
	})
	if code != 0 {
		return nil, &Error{Op: op, Kind: ReadError, Code: code}
	}
	return data, nil
}

// ReadAllStdout drains the command's stdout. A command that was never
// started has empty output.
func (c *Command) ReadAllStdout() ([]byte, error) {
	return c.readAll("read stdout", host_cgi_stdout_read)
}

// ReadAllStderr drains the command's stderr.
func (c *Command) ReadAllStderr() ([]byte, error) {
	return c.readAll("read stderr", host_cgi_stderr_read)
}

// WriteStdin writes p to the command's stdin and returns the number of
// bytes the host accepted.
func (c *Command) WriteStdin(p []byte) (int, error) {
	if !c.started {
		return 0, &Error{Op: "write stdin", Kind: ReadError, Err: fmt.Errorf("command %q not started", c.Name)}
	}
	var n uint32
	if code := host_cgi_stdin_write(c.handle, abi.Ptr(p), abi.Len(p), &n); code != 0 {
		return 0, &Error{Op: "write stdin", Kind: ReadError, Code: code}
	}
	return int(n), nil
}

// Write implements io.Writer over WriteStdin.
func (c *Command) Write(p []byte) (int, error) { return c.WriteStdin(p) }

// ExecCommand starts the command and returns its stdout as text.
func (c *Command) ExecCommand(ctx context.Context) (string, error) {
	if err := c.Exec(ctx); err != nil {
		return "", err
	}
	out, err := c.ReadAllStdout()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) {
		return "", &Error{Op: "exec", Kind: EncodingError}
	}
	return string(out), nil
}

// Close releases the process handle. It is a no-op for commands that were
// never started or are already closed.
func (c *Command) Close() error {
	if !c.started {
		return nil
	}
	c.started = false
	if code := host_cgi_close(c.handle); code != 0 {
		return &Error{Op: "close", Kind: ExecError, Code: code}
	}
	return nil
}
