package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

func TestToLogAttrWire(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		wantType string
		wantVal  string
	}{
		{name: "string", attr: slog.String("key", "value"), wantType: "string", wantVal: "value"},
		{name: "int64", attr: slog.Int64("key", 123), wantType: "int64", wantVal: "123"},
		{name: "uint64", attr: slog.Uint64("key", 7), wantType: "uint64", wantVal: "7"},
		{name: "bool", attr: slog.Bool("key", true), wantType: "bool", wantVal: "true"},
		{name: "float64", attr: slog.Float64("key", 1.23), wantType: "float64", wantVal: "1.23"},
		{
			name:     "time",
			attr:     slog.Time("key", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			wantType: "time",
			wantVal:  "2024-01-01T00:00:00Z",
		},
		{name: "duration", attr: slog.Duration("key", time.Hour), wantType: "duration", wantVal: "1h0m0s"},
		{name: "error", attr: slog.Any("key", errors.New("test error")), wantType: "error", wantVal: "test error"},
		{name: "nil", attr: slog.Any("key", nil), wantType: "any", wantVal: "<nil>"},
		{name: "json", attr: slog.Any("key", map[string]int{"a": 1}), wantType: "json", wantVal: `{"a":1}`},
		{name: "unencodable", attr: slog.Any("key", make(chan int)), wantType: "any"},
		{name: "log valuer", attr: slog.Any("key", logValuer{val: "resolved"}), wantType: "string", wantVal: "resolved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := toLogAttrWire(tt.attr)
			assert.Equal(t, tt.attr.Key, wire.Key)
			assert.Equal(t, tt.wantType, wire.Type)
			if tt.wantVal != "" {
				assert.Equal(t, tt.wantVal, wire.Value)
			}
		})
	}
}

type logValuer struct {
	val string
}

func (l logValuer) LogValue() slog.Value {
	return slog.StringValue(l.val)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []wireformat.LogMessageWire {
	t.Helper()
	var out []wireformat.LogMessageWire
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var msg wireformat.LogMessageWire
		require.NoError(t, json.Unmarshal([]byte(line), &msg))
		out = append(out, msg)
	}
	return out
}

func TestHandler_Levels(t *testing.T) {
	h := NewHandler()
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))

	var lv slog.LevelVar
	lv.Set(slog.LevelError)
	h = NewHandler(WithLevel(&lv))
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	lv.Set(slog.LevelDebug)
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestHandler_WritesWireLines(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(WithWriter(&buf), WithSource(true)))

	logger.Info("scrape done", "url", "https://example.com", "pages", 3)
	logger.Debug("dropped")
	logger.Warn("slow", slog.Duration("took", 2*time.Second))

	msgs := decodeLines(t, &buf)
	require.Len(t, msgs, 2)

	assert.Equal(t, "INFO", msgs[0].Level)
	assert.Equal(t, "scrape done", msgs[0].Message)
	assert.Equal(t, []wireformat.LogAttrWire{
		{Key: "url", Type: "string", Value: "https://example.com"},
		{Key: "pages", Type: "int64", Value: "3"},
	}, msgs[0].Attrs)
	assert.Contains(t, msgs[0].Source, "log_test.go:")
	assert.False(t, msgs[0].Timestamp.IsZero())

	assert.Equal(t, "WARN", msgs[1].Level)
}

func TestHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(WithWriter(&buf))).
		With("run", "01J").
		WithGroup("crawl").
		With("depth", 2).
		WithGroup("page")

	logger.Info("fetched", "status", 200, slog.Group("timing", slog.Int("ms", 12)), slog.Group("", slog.Bool("inline", true)))

	msgs := decodeLines(t, &buf)
	require.Len(t, msgs, 1)
	var keys []string
	for _, a := range msgs[0].Attrs {
		keys = append(keys, a.Key)
	}
	assert.Equal(t, []string{"run", "crawl.depth", "crawl.page.status", "crawl.page.timing.ms", "crawl.page.inline"}, keys)
	assert.Empty(t, msgs[0].Source)
}

func TestParseLine(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(WithWriter(&buf))).Error("boom", "code", 3)

	msg, ok := ParseLine(buf.Bytes())
	require.True(t, ok)
	assert.Equal(t, "boom", msg.Message)
	assert.Equal(t, slog.LevelError, ParseLevel(msg.Level))

	for _, line := range []string{"", "plain output", `{"not":"a record"}`, "{broken"} {
		_, ok := ParseLine([]byte(line))
		assert.False(t, ok, line)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn+2, ParseLevel("WARN+2"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}
