package blshost

import (
	"io"
	"time"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"go.uber.org/zap"
)

type runnerConfig struct {
	backends         *hostfuncs.Backends
	registry         *hostfuncs.HandlerRegistry
	logger           *zap.Logger
	now              func() time.Time
	maxOutput        int
	memoryLimitPages uint32
	traceCalls       bool
}

func defaultRunnerConfig() runnerConfig {
	return runnerConfig{
		logger:    zap.NewNop(),
		now:       time.Now,
		maxOutput: hostfuncs.DefaultMaxOutputSize,
	}
}

// Option configures a Runner.
type Option func(*runnerConfig)

// WithBackends binds the host modules to b. Modules whose backend is nil
// answer every call with their fault code.
func WithBackends(b *hostfuncs.Backends) Option {
	return func(c *runnerConfig) {
		c.backends = b
	}
}

// WithRegistry replaces the host function registry. Backends set with
// WithBackends are ignored when a registry is supplied.
func WithRegistry(r *hostfuncs.HandlerRegistry) Option {
	return func(c *runnerConfig) {
		c.registry = r
	}
}

// WithLogger sets the logger guest log lines and host events go to.
func WithLogger(l *zap.Logger) Option {
	return func(c *runnerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxOutput limits the captured stdout and stderr of each run to n
// bytes apiece.
func WithMaxOutput(n int) Option {
	return func(c *runnerConfig) {
		c.maxOutput = n
	}
}

// WithMemoryLimitPages caps guest linear memory, in 64KiB pages.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *runnerConfig) {
		c.memoryLimitPages = pages
	}
}

// WithCallTrace logs every host function invocation at debug level.
func WithCallTrace(enabled bool) Option {
	return func(c *runnerConfig) {
		c.traceCalls = enabled
	}
}

// WithClock sets the time source used for run ids.
func WithClock(now func() time.Time) Option {
	return func(c *runnerConfig) {
		c.now = now
	}
}

type runConfig struct {
	stdin io.Reader
	env   map[string]string
	args  []string
}

// RunOption configures a single Run.
type RunOption func(*runConfig)

// WithStdin sets the guest's WASI stdin. It is independent of the
// blockless_memory stdin document, which comes from the Memory backend.
func WithStdin(r io.Reader) RunOption {
	return func(c *runConfig) {
		c.stdin = r
	}
}

// WithArgs sets the guest's argv. The first element is the program name.
func WithArgs(args ...string) RunOption {
	return func(c *runConfig) {
		c.args = args
	}
}

// WithEnv adds a WASI environment variable.
func WithEnv(key, value string) RunOption {
	return func(c *runConfig) {
		if c.env == nil {
			c.env = make(map[string]string)
		}
		c.env[key] = value
	}
}
