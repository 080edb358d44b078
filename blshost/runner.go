package blshost

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	mathrand "math/rand"
	"sort"
	"time"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
	"github.com/oklog/ulid/v2"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"
)

// Result is the outcome of one guest run. Truncated reports that stdout or
// stderr exceeded the output limit.
type Result struct {
	RunID     string                      `json:"run_id"`
	Stdout    string                      `json:"stdout"`
	Stderr    string                      `json:"stderr"`
	Logs      []wireformat.LogMessageWire `json:"logs,omitempty"`
	ExitCode  uint32                      `json:"exit_code"`
	Truncated bool                        `json:"truncated"`
	Duration  time.Duration               `json:"duration_ns"`
}

// Runner executes guests against one set of host modules. A Runner is
// safe for concurrent use; each Run gets its own guest instance and
// output buffers.
type Runner struct {
	runtime  wazero.Runtime
	registry *hostfuncs.HandlerRegistry
	logger   *zap.Logger
	cfg      runnerConfig
}

// NewRunner creates a wazero runtime with WASI and the bls host modules
// instantiated.
func NewRunner(ctx context.Context, opts ...Option) (*Runner, error) {
	cfg := defaultRunnerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Runner{cfg: cfg, logger: cfg.logger, registry: cfg.registry}
	if r.registry == nil {
		reg, err := hostfuncs.NewRegistry(r.registryOptions()...)
		if err != nil {
			return nil, fmt.Errorf("failed to create host registry: %w", err)
		}
		r.registry = reg
	}

	rtCfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if cfg.memoryLimitPages > 0 {
		rtCfg = rtCfg.WithMemoryLimitPages(cfg.memoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, rtCfg)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	r.runtime = rt

	if err := r.registerHostModules(ctx); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host modules: %w", err)
	}
	return r, nil
}

func (r *Runner) registryOptions() []hostfuncs.RegistryOption {
	mw := []hostfuncs.Middleware{
		hostfuncs.PanicRecoveryMiddleware(func(fn string, recovered any) {
			r.logger.Error("host function panicked", zap.String("function", fn), zap.Any("panic", recovered))
		}),
	}
	if r.cfg.traceCalls {
		mw = append(mw, hostfuncs.LoggingMiddleware(r.logger.Sugar().Debugf))
	}
	return []hostfuncs.RegistryOption{
		hostfuncs.WithMiddleware(mw...),
		hostfuncs.WithBackends(r.cfg.backends),
	}
}

// Registry returns the host functions bound into guests.
func (r *Runner) Registry() *hostfuncs.HandlerRegistry {
	return r.registry
}

// Close releases the runtime and every module compiled by it.
func (r *Runner) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// Run compiles and instantiates wasm, running its _initialize and _start
// exports. A guest that exits through proc_exit is not an error; its code
// is reported in Result.ExitCode. Traps and canceled contexts are returned
// as errors together with whatever output was captured.
func (r *Runner) Run(ctx context.Context, wasm []byte, opts ...RunOption) (*Result, error) {
	rc := runConfig{stdin: bytes.NewReader(nil)}
	for _, opt := range opts {
		opt(&rc)
	}

	started := r.cfg.now()
	res := &Result{RunID: newRunID(started)}
	logger := r.logger.With(zap.String("run_id", res.RunID))

	compiled, err := r.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}
	defer compiled.Close(ctx)

	stdout := hostfuncs.NewBoundedBuffer(r.cfg.maxOutput)
	stderr := hostfuncs.NewBoundedBuffer(r.cfg.maxOutput)

	mc := wazero.NewModuleConfig().
		WithName("").
		WithStdin(rc.stdin).
		WithStdout(stdout).
		WithStderr(stderr).
		WithSysWalltime().
		WithSysNanotime().
		WithRandSource(rand.Reader).
		WithStartFunctions("_initialize", "_start")
	if len(rc.args) > 0 {
		mc = mc.WithArgs(rc.args...)
	}
	keys := make([]string, 0, len(rc.env))
	for k := range rc.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		mc = mc.WithEnv(k, rc.env[k])
	}

	logger.Debug("starting guest", zap.Int("wasm_bytes", len(wasm)))
	mod, runErr := r.runtime.InstantiateModule(ctx, compiled, mc)
	if mod != nil {
		_ = mod.Close(ctx)
	}

	var exitErr *sys.ExitError
	if errors.As(runErr, &exitErr) {
		switch code := exitErr.ExitCode(); code {
		case sys.ExitCodeContextCanceled, sys.ExitCodeDeadlineExceeded:
		default:
			res.ExitCode = code
			runErr = nil
		}
	}

	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	res.Truncated = stdout.Truncated() || stderr.Truncated()
	res.Logs = r.forwardLogs(logger, stderr.Lines())
	res.Duration = r.cfg.now().Sub(started)

	if runErr != nil {
		logger.Warn("guest failed", zap.Error(runErr))
		return res, fmt.Errorf("guest failed: %w", runErr)
	}
	logger.Debug("guest finished",
		zap.Uint32("exit_code", res.ExitCode),
		zap.Bool("truncated", res.Truncated),
		zap.Duration("duration", res.Duration))
	return res, nil
}

// newRunID returns a sortable id for a run started at t.
func newRunID(t time.Time) string {
	entropy := ulid.Monotonic(mathrand.New(mathrand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
