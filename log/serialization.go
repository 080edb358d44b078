package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// appendAttr flattens a into dst. Group members get the group key as a
// dotted prefix; empty attributes are dropped as slog requires.
func appendAttr(dst []wireformat.LogAttrWire, prefix string, a slog.Attr) []wireformat.LogAttrWire {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	if a.Value.Kind() == slog.KindGroup {
		sub := prefix
		if a.Key != "" {
			sub = prefix + a.Key + "."
		}
		for _, m := range a.Value.Group() {
			dst = appendAttr(dst, sub, m)
		}
		return dst
	}
	w := toLogAttrWire(a)
	w.Key = prefix + w.Key
	return append(dst, w)
}

// toLogAttrWire converts a resolved, non-group attribute.
func toLogAttrWire(attr slog.Attr) wireformat.LogAttrWire {
	wire := wireformat.LogAttrWire{Key: attr.Key}
	v := attr.Value.Resolve()

	switch v.Kind() {
	case slog.KindString:
		wire.Type, wire.Value = "string", v.String()
	case slog.KindInt64:
		wire.Type, wire.Value = "int64", strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		wire.Type, wire.Value = "uint64", strconv.FormatUint(v.Uint64(), 10)
	case slog.KindBool:
		wire.Type, wire.Value = "bool", strconv.FormatBool(v.Bool())
	case slog.KindFloat64:
		wire.Type, wire.Value = "float64", strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindTime:
		wire.Type, wire.Value = "time", v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		wire.Type, wire.Value = "duration", v.Duration().String()
	default:
		switch x := v.Any().(type) {
		case nil:
			wire.Type, wire.Value = "any", "<nil>"
		case error:
			wire.Type, wire.Value = "error", x.Error()
		default:
			if data, err := json.Marshal(x); err == nil {
				wire.Type, wire.Value = "json", string(data)
			} else {
				wire.Type, wire.Value = "any", fmt.Sprintf("%v", x)
			}
		}
	}
	return wire
}

// ParseLine decodes a line written by Handler. It reports false for lines
// that are not log records, such as plain program output on stderr.
func ParseLine(line []byte) (wireformat.LogMessageWire, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return wireformat.LogMessageWire{}, false
	}
	var msg wireformat.LogMessageWire
	if err := json.Unmarshal(line, &msg); err != nil || msg.Level == "" {
		return wireformat.LogMessageWire{}, false
	}
	return msg, true
}

// ParseLevel maps a wire level such as "INFO" or "WARN+2" to a slog.Level.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
