//go:build !wasip1

package blstest

import (
	"encoding/json"
	"sync"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// cgiFailure is the status the fake reports for any CGI failure; the host
// does not document distinct codes.
const cgiFailure uint32 = 1

// CGIScript scripts the output of one command.
type CGIScript struct {
	Stdout string `yaml:"stdout"`
	Stderr string `yaml:"stderr"`
	// Echo appends whatever the guest writes to stdin to stdout.
	Echo bool `yaml:"echo"`
}

type cgiProcess struct {
	stdout stream
	stderr stream
	stdin  []byte
	echo   bool
}

// CGI fakes blockless_cgi. Commands are matched by name; the list handle
// streams the registered extensions as JSON.
type CGI struct {
	Extensions []wireformat.CGIExtensionWire

	scripts  map[string]CGIScript
	commands []wireformat.CGICommandWire
	handles  Handles[any] // *cgiProcess or *stream for lists
	rec      *recorder
	// ListDoc, when set, is streamed by the list handle in place of
	// Extensions.
	ListDoc []byte
	// ListFails makes cgi_list_exec fail.
	ListFails bool
	mu        sync.Mutex
}

// NewCGI returns a CGI fake without extensions.
func NewCGI() *CGI {
	return &CGI{scripts: make(map[string]CGIScript)}
}

// Register adds an extension and the script run for its alias.
func (c *CGI) Register(ext wireformat.CGIExtensionWire, script CGIScript) *CGI {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Extensions = append(c.Extensions, ext)
	c.scripts[ext.Alias] = script
	return c
}

// Commands returns the command documents received by cgi_open.
func (c *CGI) Commands() []wireformat.CGICommandWire {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]wireformat.CGICommandWire, len(c.commands))
	copy(out, c.commands)
	return out
}

// Stdin returns what the guest wrote to the process behind handle.
func (c *CGI) Stdin(handle uint32) []byte {
	p, ok := c.process(handle)
	if !ok {
		return nil
	}
	return p.stdin
}

// OpenHandles returns the number of processes and lists not yet closed.
func (c *CGI) OpenHandles() int { return c.handles.Len() }

func (c *CGI) process(handle uint32) (*cgiProcess, bool) {
	v, _ := c.handles.Get(handle)
	p, ok := v.(*cgiProcess)
	return p, ok
}

func (c *CGI) Open(command []byte) (handle, code uint32) {
	c.rec.add(hostfuncs.ModuleCGI, hostfuncs.FuncCGIOpen)
	var cmd wireformat.CGICommandWire
	if err := json.Unmarshal(command, &cmd); err != nil {
		return 0, cgiFailure
	}
	c.mu.Lock()
	c.commands = append(c.commands, cmd)
	script, ok := c.scripts[cmd.Command]
	c.mu.Unlock()
	if !ok {
		return 0, cgiFailure
	}
	return c.handles.Add(&cgiProcess{
		stdout: stream{data: []byte(script.Stdout)},
		stderr: stream{data: []byte(script.Stderr)},
		echo:   script.Echo,
	}), 0
}

func (c *CGI) ReadStdout(handle uint32, buf []byte) (n, code uint32) {
	c.rec.add(hostfuncs.ModuleCGI, hostfuncs.FuncCGIStdoutRead)
	p, ok := c.process(handle)
	if !ok {
		return 0, cgiFailure
	}
	return p.stdout.read(buf), 0
}

func (c *CGI) ReadStderr(handle uint32, buf []byte) (n, code uint32) {
	c.rec.add(hostfuncs.ModuleCGI, hostfuncs.FuncCGIStderrRead)
	p, ok := c.process(handle)
	if !ok {
		return 0, cgiFailure
	}
	return p.stderr.read(buf), 0
}

func (c *CGI) WriteStdin(handle uint32, data []byte) (n, code uint32) {
	c.rec.add(hostfuncs.ModuleCGI, hostfuncs.FuncCGIStdinWrite)
	p, ok := c.process(handle)
	if !ok {
		return 0, cgiFailure
	}
	p.stdin = append(p.stdin, data...)
	if p.echo {
		p.stdout.data = append(p.stdout.data, data...)
	}
	return uint32(len(data)), 0
}

func (c *CGI) Close(handle uint32) (code uint32) {
	c.rec.add(hostfuncs.ModuleCGI, hostfuncs.FuncCGIClose)
	if c.handles.Remove(handle) {
		return 0
	}
	return cgiFailure
}

func (c *CGI) ListExec() (handle, code uint32) {
	c.rec.add(hostfuncs.ModuleCGI, hostfuncs.FuncCGIListExec)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ListFails {
		return 0, cgiFailure
	}
	if c.ListDoc != nil {
		return c.handles.Add(&stream{data: append([]byte(nil), c.ListDoc...)}), 0
	}
	exts := c.Extensions
	if exts == nil {
		exts = []wireformat.CGIExtensionWire{}
	}
	doc, err := json.Marshal(exts)
	if err != nil {
		return 0, cgiFailure
	}
	return c.handles.Add(&stream{data: doc}), 0
}

func (c *CGI) ListRead(handle uint32, buf []byte) (n, code uint32) {
	c.rec.add(hostfuncs.ModuleCGI, hostfuncs.FuncCGIListRead)
	v, _ := c.handles.Get(handle)
	s, ok := v.(*stream)
	if !ok {
		return 0, cgiFailure
	}
	return s.read(buf), 0
}
