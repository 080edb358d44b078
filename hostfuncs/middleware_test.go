package hostfuncs

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecoveryMiddleware(t *testing.T) {
	panicking := func(context.Context, GuestMemory, []uint64) {
		panic("test panic")
	}

	var gotName string
	var gotValue any
	reg, err := NewRegistry(
		WithMiddleware(PanicRecoveryMiddleware(func(fn string, recovered any) {
			gotName, gotValue = fn, recovered
		})),
		WithFunction(HostFunction{Module: ModuleCGI, Name: FuncCGIOpen, Fault: FaultCGI, Handler: panicking}),
	)
	require.NoError(t, err)

	stack := []uint64{0}
	require.NotPanics(t, func() {
		require.NoError(t, reg.Invoke(context.Background(), ModuleCGI, FuncCGIOpen, SliceMemory{}, stack))
	})
	assert.Equal(t, uint64(FaultCGI), stack[0])
	assert.Equal(t, "blockless_cgi.cgi_open", gotName)
	assert.Equal(t, "test panic", gotValue)
}

func TestPanicRecoveryMiddleware_NoPanic(t *testing.T) {
	wrapped := PanicRecoveryMiddleware(nil)(constHandler(0))

	stack := []uint64{99}
	wrapped(context.Background(), SliceMemory{}, stack)
	assert.Zero(t, stack[0])
}

func TestPanicRecoveryMiddleware_WithoutHostContext(t *testing.T) {
	wrapped := PanicRecoveryMiddleware(nil)(func(context.Context, GuestMemory, []uint64) {
		panic("boom")
	})

	stack := []uint64{0}
	wrapped(context.Background(), SliceMemory{}, stack)
	assert.Equal(t, uint64(1), stack[0])
}

func TestMiddlewareOrder_FIFO(t *testing.T) {
	var callOrder []string
	tag := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, mem GuestMemory, stack []uint64) {
				callOrder = append(callOrder, name+"-before")
				next(ctx, mem, stack)
				callOrder = append(callOrder, name+"-after")
			}
		}
	}

	reg, err := NewRegistry(
		WithMiddleware(tag("mw1"), tag("mw2")),
		WithFunction(HostFunction{Module: "m", Name: "f", Handler: func(_ context.Context, _ GuestMemory, stack []uint64) {
			callOrder = append(callOrder, "handler")
			stack[0] = 0
		}}),
	)
	require.NoError(t, err)

	require.NoError(t, reg.Invoke(context.Background(), "m", "f", SliceMemory{}, []uint64{0}))
	assert.Equal(t, []string{"mw1-before", "mw2-before", "handler", "mw2-after", "mw1-after"}, callOrder)
}

func TestLoggingMiddleware(t *testing.T) {
	var lines []string
	logFn := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	reg, err := NewRegistry(
		WithMiddleware(LoggingMiddleware(logFn)),
		WithFunction(HostFunction{Module: "m", Name: "ok", Handler: constHandler(0)}),
		WithFunction(HostFunction{Module: "m", Name: "bad", Handler: constHandler(3)}),
	)
	require.NoError(t, err)

	require.NoError(t, reg.Invoke(context.Background(), "m", "ok", SliceMemory{}, []uint64{0}))
	require.NoError(t, reg.Invoke(context.Background(), "m", "bad", SliceMemory{}, []uint64{0}))

	assert.Equal(t, []string{
		"invoking host function: m.ok",
		"host function m.ok completed",
		"invoking host function: m.bad",
		"host function m.bad failed with status 3",
	}, lines)
}
