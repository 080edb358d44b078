package hostfuncs

import (
	"context"
	"fmt"
	"sort"
)

// HandlerRegistry is an immutable collection of host functions keyed by
// module and name. Once created via NewRegistry, functions cannot be added
// or removed. This ensures thread safety and lock-free lookups during
// execution.
type HandlerRegistry struct {
	functions map[string]HostFunction
	names     []string // qualified names, sorted for consistent iteration
	modules   []string
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	functions  map[string]HostFunction
	middleware []Middleware
	errors     []error
}

// NewRegistry creates an immutable HandlerRegistry with the given options.
// Returns an error if any function is registered twice.
//
// Example usage:
//
//	registry, err := NewRegistry(
//	    WithMiddleware(PanicRecoveryMiddleware(nil)),
//	    WithBackends(backends),
//	)
func NewRegistry(opts ...RegistryOption) (*HandlerRegistry, error) {
	b := &registryBuilder{
		functions: make(map[string]HostFunction),
	}

	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	names := make([]string, 0, len(b.functions))
	seen := make(map[string]bool)
	var modules []string
	for name, fn := range b.functions {
		names = append(names, name)
		if !seen[fn.Module] {
			seen[fn.Module] = true
			modules = append(modules, fn.Module)
		}
	}
	sort.Strings(names)
	sort.Strings(modules)

	wrapped := make(map[string]HostFunction, len(b.functions))
	for name, fn := range b.functions {
		h := fn.Handler
		// Apply middleware in reverse order so first middleware wraps outermost
		for i := len(b.middleware) - 1; i >= 0; i-- {
			h = b.middleware[i](h)
		}
		fn.Handler = withHostContext(fn, h)
		wrapped[name] = fn
	}

	return &HandlerRegistry{
		functions: wrapped,
		names:     names,
		modules:   modules,
	}, nil
}

// withHostContext makes the function identity available to middleware.
func withHostContext(fn HostFunction, next Handler) Handler {
	return func(ctx context.Context, mem GuestMemory, stack []uint64) {
		next(NewHostContext(ctx, fn.Module, fn.Name, fn.Fault), mem, stack)
	}
}

// Invoke dispatches a host function call by module and name.
func (r *HandlerRegistry) Invoke(ctx context.Context, module, name string, mem GuestMemory, stack []uint64) error {
	fn, ok := r.functions[module+"."+name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownFunction, module, name)
	}
	if len(stack) < max(fn.Params, 1) {
		return fmt.Errorf("%w: %s.%s wants %d params, got %d", ErrStackTooShort, module, name, fn.Params, len(stack))
	}
	fn.Handler(ctx, mem, stack)
	return nil
}

// Has returns true if the function is registered.
func (r *HandlerRegistry) Has(module, name string) bool {
	_, ok := r.functions[module+"."+name]
	return ok
}

// Names returns a sorted list of all registered "module.name" entries.
func (r *HandlerRegistry) Names() []string {
	result := make([]string, len(r.names))
	copy(result, r.names)
	return result
}

// Modules returns the sorted host module names.
func (r *HandlerRegistry) Modules() []string {
	result := make([]string, len(r.modules))
	copy(result, r.modules)
	return result
}

// Functions returns the middleware-wrapped functions of one module, sorted
// by name.
func (r *HandlerRegistry) Functions(module string) []HostFunction {
	var out []HostFunction
	for _, name := range r.names {
		if fn := r.functions[name]; fn.Module == module {
			out = append(out, fn)
		}
	}
	return out
}

// addFunction registers fn under its qualified name.
func (b *registryBuilder) addFunction(fn HostFunction) error {
	if fn.Module == "" || fn.Name == "" {
		return fmt.Errorf("%w: module and name cannot be empty", ErrInvalidFunction)
	}
	if fn.Handler == nil {
		return fmt.Errorf("%w: %s has no handler", ErrInvalidFunction, fn.QualifiedName())
	}
	if _, exists := b.functions[fn.QualifiedName()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFunction, fn.QualifiedName())
	}
	b.functions[fn.QualifiedName()] = fn
	return nil
}

// WithFunction registers a single host function.
func WithFunction(fn HostFunction) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addFunction(fn); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithMiddleware adds middleware to the registry.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}
