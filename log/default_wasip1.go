//go:build wasip1

package log

import "log/slog"

// Guest programs importing the package log through the host's stderr
// capture.
func init() {
	slog.SetDefault(slog.New(NewHandler()))
}
