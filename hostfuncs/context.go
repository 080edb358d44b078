package hostfuncs

import (
	"context"
)

// HostContext wraps a standard context.Context with host function-specific helpers.
// It provides access to the invoked function and allows middleware to store
// request-scoped values without polluting the standard context.
type HostContext interface {
	context.Context

	// Module returns the host module of the invoked function.
	Module() string

	// FunctionName returns the name of the host function being invoked.
	FunctionName() string

	// Fault returns the status code the function reports when it cannot be served.
	Fault() uint32

	// SetValue stores a request-scoped value. Unlike context.WithValue,
	// this mutates the existing HostContext for performance.
	SetValue(key, value any)

	// GetValue retrieves a request-scoped value set by SetValue.
	GetValue(key any) (value any, ok bool)
}

// hostContext is the concrete implementation of HostContext.
type hostContext struct {
	context.Context
	values   map[any]any
	module   string
	funcName string
	fault    uint32
}

// NewHostContext creates a new HostContext wrapping the given context.
func NewHostContext(ctx context.Context, module, funcName string, fault uint32) HostContext {
	return &hostContext{
		Context:  ctx,
		module:   module,
		funcName: funcName,
		fault:    fault,
		values:   make(map[any]any),
	}
}

func (c *hostContext) Module() string {
	return c.module
}

func (c *hostContext) FunctionName() string {
	return c.funcName
}

func (c *hostContext) Fault() uint32 {
	return c.fault
}

func (c *hostContext) SetValue(key, value any) {
	c.values[key] = value
}

func (c *hostContext) GetValue(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// HostContextFrom extracts a HostContext from a context.Context.
// If the context is already a HostContext, it is returned directly.
// Otherwise, a new HostContext is created for the given function.
func HostContextFrom(ctx context.Context, fn HostFunction) HostContext {
	if hc, ok := ctx.(HostContext); ok {
		return hc
	}
	return NewHostContext(ctx, fn.Module, fn.Name, fn.Fault)
}
