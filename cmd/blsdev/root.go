package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type globalFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "blsdev",
		Short:         "Develop and test bls guest modules locally",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log host calls and guest log records")

	cmd.AddCommand(
		newRunCmd(flags),
		newSchemaCmd(),
		newVersionCmd(),
	)
	return cmd
}

// newLogger writes to stderr. Verbose mode lowers the level to debug.
func (f *globalFlags) newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if f.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// guestExitError carries a non-zero guest exit code out of Execute.
type guestExitError struct {
	code uint32
}

func (e *guestExitError) Error() string {
	return "guest exited with a non-zero status"
}

func exitCode(err error) int {
	var exitErr *guestExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.code)
	}
	return 1
}
