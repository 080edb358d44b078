// Package llm binds the blockless_llm host module: chat sessions against
// models served by the host.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
	"github.com/blessnetwork/bls-sdk-go/internal/validate"
)

// Buffer limits imposed by the widths of the host's length parameters.
const (
	MaxModelNameLen = math.MaxUint8
	MaxPayloadLen   = math.MaxUint16
)

// Client is a session with one model. Sessions keep conversation state on
// the host until closed. A Client is safe for concurrent use, though the
// host answers one prompt at a time.
type Client struct {
	mu      sync.Mutex
	model   Model
	options Options
	handle  uint32
	closed  bool
}

// New opens a session with model.
func New(model Model) (*Client, error) {
	c := &Client{}
	if err := c.SetModel(model); err != nil {
		return nil, err
	}
	return c, nil
}

// Handle returns the host session handle; zero before a model is set.
func (c *Client) Handle() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// Model returns the model requested by the last successful SetModel.
func (c *Client) Model() Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// Options returns the options set by the last successful SetOptions.
func (c *Client) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.options
}

// SetModel switches the session to model and checks the host reports it
// back.
func (c *Client) SetModel(model Model) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return &Error{Op: "set model", Kind: Closed}
	}
	name := string(model)
	if len(name) > MaxModelNameLen {
		return &Error{Op: "set model", Kind: NameTooLong, Err: fmt.Errorf("%d bytes", len(name))}
	}

	slog.Debug("host call", "fn", hostfuncs.FuncLLMSetModel, "model", name, "handle", c.handle)

	handle := c.handle
	if code := host_llm_set_model_request(&handle, abi.StringPtr(name), abi.Len(name)); code != 0 {
		return hostError("set model", code)
	}
	c.handle = handle

	got, err := c.getModel()
	if err != nil {
		return err
	}
	if got != name {
		slog.Warn("model not set by host", "model", name, "host_model", got)
		return &Error{Op: "set model", Kind: ModelNotSet, Err: fmt.Errorf("host reports %q", got)}
	}
	c.model = model
	return nil
}

// GetModel returns the model name the host holds for the session.
func (c *Client) GetModel() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getModel()
}

func (c *Client) getModel() (string, error) {
	buf := make([]byte, MaxModelNameLen)
	var n uint8
	if code := host_llm_get_model_response(c.handle, abi.Ptr(buf), abi.Len(buf), &n); code != 0 {
		return "", hostError("get model", code)
	}
	name := buf[:n]
	if !utf8.Valid(name) {
		return "", &Error{Op: "get model", Kind: Utf8}
	}
	return string(name), nil
}

// SetOptions configures the session and checks the host reports the same
// options back.
func (c *Client) SetOptions(opts Options) error {
	if err := validate.Struct(opts); err != nil {
		return &Error{Op: "set options", Kind: InvalidOptions, Err: err}
	}
	doc, err := json.Marshal(opts)
	if err != nil {
		return &Error{Op: "set options", Kind: InvalidOptions, Err: err}
	}
	if len(doc) > MaxPayloadLen {
		return &Error{Op: "set options", Kind: PayloadTooLarge, Err: fmt.Errorf("%d bytes", len(doc))}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return &Error{Op: "set options", Kind: Closed}
	}
	slog.Debug("host call", "fn", hostfuncs.FuncLLMSetOptions, "handle", c.handle, "bytes", len(doc))
	if code := host_llm_set_model_options_request(c.handle, abi.Ptr(doc), abi.Len(doc)); code != 0 {
		return hostError("set options", code)
	}

	got, err := c.getOptions()
	if err != nil {
		return err
	}
	if !got.Equal(opts) {
		slog.Warn("options not set by host", "options", opts.String(), "host_options", got.String())
		return &Error{Op: "set options", Kind: OptionsNotSet}
	}
	c.options = opts
	return nil
}

// GetOptions returns the options the host holds for the session.
func (c *Client) GetOptions() (Options, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getOptions()
}

func (c *Client) getOptions() (Options, error) {
	buf := make([]byte, MaxPayloadLen)
	var n uint16
	if code := host_llm_get_model_options(c.handle, abi.Ptr(buf), abi.Len(buf), &n); code != 0 {
		return Options{}, hostError("get options", code)
	}
	return DecodeOptions(buf[:n])
}

// Chat sends prompt and returns the model's reply.
func (c *Client) Chat(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Op: "chat", Kind: Unknown, Err: err}
	}
	if len(prompt) > MaxPayloadLen {
		return "", &Error{Op: "chat", Kind: PayloadTooLarge, Err: fmt.Errorf("%d bytes", len(prompt))}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", &Error{Op: "chat", Kind: Closed}
	}
	slog.DebugContext(ctx, "host call", "fn", hostfuncs.FuncLLMPrompt, "handle", c.handle, "bytes", len(prompt))
	if code := host_llm_prompt_request(c.handle, abi.StringPtr(prompt), abi.Len(prompt)); code != 0 {
		return "", hostError("chat", code)
	}

	buf := make([]byte, MaxPayloadLen)
	var n uint16
	if code := host_llm_read_prompt_response(c.handle, abi.Ptr(buf), abi.Len(buf), &n); code != 0 {
		return "", hostError("read response", code)
	}
	reply := buf[:n]
	if !utf8.Valid(reply) {
		return "", &Error{Op: "read response", Kind: Utf8}
	}
	return string(reply), nil
}

// Close ends the session. Only the first call reaches the host.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if code := host_llm_close(c.handle); code != 0 {
		return hostError("close", code)
	}
	return nil
}
