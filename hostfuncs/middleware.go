package hostfuncs

import (
	"context"
)

// Middleware is a function that wraps a Handler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
//
// Example usage:
//
//	countingMiddleware := func(next Handler) Handler {
//	    return func(ctx context.Context, mem GuestMemory, stack []uint64) {
//	        calls.Add(1)
//	        next(ctx, mem, stack)
//	    }
//	}
type Middleware func(next Handler) Handler

// RegistryOption is a functional option for configuring a HandlerRegistry.
type RegistryOption func(*registryBuilder)

// PanicRecoveryMiddleware returns a middleware that catches backend panics
// and reports the function's fault code to the guest instead of crashing
// the host. onPanic, when non-nil, receives the recovered value.
func PanicRecoveryMiddleware(onPanic func(fn string, recovered any)) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, mem GuestMemory, stack []uint64) {
			defer func() {
				if r := recover(); r != nil {
					name, fault := "unknown", uint32(1)
					if hc, ok := ctx.(HostContext); ok {
						name = hc.Module() + "." + hc.FunctionName()
						fault = hc.Fault()
					}
					if onPanic != nil {
						onPanic(name, r)
					}
					stack[0] = uint64(fault)
				}
			}()
			next(ctx, mem, stack)
		}
	}
}

// LoggingMiddleware returns a middleware that logs host function invocations
// and the status code they return.
func LoggingMiddleware(logFn func(format string, args ...any)) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, mem GuestMemory, stack []uint64) {
			funcName := "unknown"
			if hc, ok := ctx.(HostContext); ok {
				funcName = hc.Module() + "." + hc.FunctionName()
			}
			logFn("invoking host function: %s", funcName)
			next(ctx, mem, stack)
			if code := uint32(stack[0]); code != 0 {
				logFn("host function %s failed with status %d", funcName, code)
			} else {
				logFn("host function %s completed", funcName)
			}
		}
	}
}
