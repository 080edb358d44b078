package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/blessnetwork/bls-sdk-go/blshost"
	"github.com/blessnetwork/bls-sdk-go/blstest"
	blslog "github.com/blessnetwork/bls-sdk-go/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runOptions struct {
	fixtures  string
	stdin     string
	envFile   string
	env       []string
	maxOutput int
	memPages  uint32
	json      bool
}

func newRunCmd(global *globalFlags) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <module.wasm>",
		Short: "Run a guest module against fixture backends",
		Long: `Run compiles and runs a wasip1 guest. Host modules are served by the
fakes described in the fixtures file; modules without fixtures answer with
empty results. Guest stdout is copied to stdout and guest log records are
printed through the host logger.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := global.newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runGuest(cmd, logger, args[0], opts, global.verbose)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.fixtures, "fixtures", "f", "", "YAML file scripting the host fakes")
	f.StringVar(&opts.stdin, "stdin", "", "file served as the guest's stdin document")
	f.StringVar(&opts.envFile, "env-file", "", "dotenv file merged into the guest's environment document")
	f.StringArrayVarP(&opts.env, "env", "e", nil, "environment variable KEY=VALUE, repeatable")
	f.IntVar(&opts.maxOutput, "max-output", 0, "limit on captured stdout and stderr bytes (default 10MiB)")
	f.Uint32Var(&opts.memPages, "memory-limit-pages", 0, "cap on guest memory in 64KiB pages (default no cap)")
	f.BoolVar(&opts.json, "json", false, "print the run result as JSON")
	return cmd
}

func runGuest(cmd *cobra.Command, logger *zap.Logger, path string, opts *runOptions, trace bool) error {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read module: %w", err)
	}

	fx := &blstest.Fixtures{}
	if opts.fixtures != "" {
		if fx, err = blstest.LoadFixtures(opts.fixtures); err != nil {
			return err
		}
	}

	env, err := guestEnv(fx.Env, opts)
	if err != nil {
		return err
	}
	fx.Env = env

	host := fx.Host()
	if opts.stdin != "" {
		data, err := os.ReadFile(opts.stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin file: %w", err)
		}
		host.Memory.Stdin = data
	}
	// The stdin document doubles as WASI stdin for guests that read fd 0.
	stdin := host.Memory.Stdin

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runner, err := blshost.NewRunner(ctx,
		blshost.WithBackends(host.Backends()),
		blshost.WithLogger(logger),
		blshost.WithMaxOutput(opts.maxOutput),
		blshost.WithCallTrace(trace),
		blshost.WithMemoryLimitPages(opts.memPages),
	)
	if err != nil {
		return err
	}
	defer runner.Close(ctx)

	runOpts := []blshost.RunOption{blshost.WithStdin(bytes.NewReader(stdin)), blshost.WithArgs(path)}
	for k, v := range env {
		runOpts = append(runOpts, blshost.WithEnv(k, v))
	}

	res, err := runner.Run(ctx, wasm, runOpts...)
	if res == nil {
		return err
	}
	logger.Debug("run complete",
		zap.String("run_id", res.RunID),
		zap.Uint32("exit_code", res.ExitCode),
		zap.Int("log_records", len(res.Logs)),
		zap.Int("host_calls", len(host.Calls())))

	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(res); encErr != nil {
			return encErr
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
		printPlainStderr(cmd, res.Stderr)
	}
	if res.Truncated {
		logger.Warn("guest output truncated", zap.Int("max_output", opts.maxOutput))
	}

	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &guestExitError{code: res.ExitCode}
	}
	return nil
}

// guestEnv merges fixture variables, the dotenv file and --env flags, later
// sources winning.
func guestEnv(base map[string]string, opts *runOptions) (map[string]string, error) {
	env := make(map[string]string, len(base))
	maps.Copy(env, base)
	if opts.envFile != "" {
		vars, err := godotenv.Read(opts.envFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
		maps.Copy(env, vars)
	}
	for _, kv := range opts.env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --env %q: want KEY=VALUE", kv)
		}
		env[k] = v
	}
	return env, nil
}

// printPlainStderr copies guest stderr lines that are not log records.
func printPlainStderr(cmd *cobra.Command, stderr string) {
	for line := range strings.Lines(stderr) {
		if _, isLog := blslog.ParseLine([]byte(line)); isLog {
			continue
		}
		fmt.Fprint(cmd.ErrOrStderr(), line)
	}
}
