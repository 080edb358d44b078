package blshost

import (
	"log/slog"

	blslog "github.com/blessnetwork/bls-sdk-go/log"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// forwardLogs decodes the structured log lines among the guest's stderr
// lines and writes each to logger. Other lines are ignored.
func (r *Runner) forwardLogs(logger *zap.Logger, lines []string) []wireformat.LogMessageWire {
	var out []wireformat.LogMessageWire
	for _, line := range lines {
		msg, ok := blslog.ParseLine([]byte(line))
		if !ok {
			continue
		}
		out = append(out, msg)
		if ce := logger.Check(zapLevel(blslog.ParseLevel(msg.Level)), msg.Message); ce != nil {
			ce.Write(logFields(msg)...)
		}
	}
	return out
}

func logFields(msg wireformat.LogMessageWire) []zap.Field {
	fields := make([]zap.Field, 0, len(msg.Attrs)+2)
	fields = append(fields, zap.String("origin", "guest"))
	if !msg.Timestamp.IsZero() {
		fields = append(fields, zap.Time("guest_time", msg.Timestamp))
	}
	if msg.Source != "" {
		fields = append(fields, zap.String("source", msg.Source))
	}
	for _, a := range msg.Attrs {
		fields = append(fields, zap.String(a.Key, a.Value))
	}
	return fields
}

func zapLevel(l slog.Level) zapcore.Level {
	switch {
	case l < slog.LevelInfo:
		return zapcore.DebugLevel
	case l < slog.LevelWarn:
		return zapcore.InfoLevel
	case l < slog.LevelError:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
