package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "dbg", entries[0].Message)
	assert.Equal(t, int64(1), entries[0].ContextMap()["a"])

	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, int64(4), entries[3].ContextMap()["d"])
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapLogger(zap.New(core)).With("request_id", "123")

	log.Info(context.Background(), "hello", "k", "v")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "123", fields["request_id"])
	assert.Equal(t, "v", fields["k"])
}

func TestZapLogger_ContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapLogger(zap.New(core))

	ctx := WithFields(context.Background(), "command", "pending")
	log.Warn(ctx, "denied", "reason", "not admin")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "pending", fields["command"])
	assert.Equal(t, "not admin", fields["reason"])
}

func TestNew_SelectsBackend(t *testing.T) {
	var buf bytes.Buffer

	l := New(Config{Backend: BackendSlog, Level: "debug"}, &buf)
	_, ok := l.(*SlogLogger)
	require.True(t, ok)
	l.Debug(context.Background(), "visible")
	assert.Contains(t, buf.String(), "msg=visible")

	buf.Reset()
	z := New(Config{Level: "warn", Encoding: "json"}, &buf)
	_, ok = z.(*ZapLogger)
	require.True(t, ok)
	z.Info(context.Background(), "hidden")
	z.Warn(context.Background(), "shown", "k", "v")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestNop_Discards(t *testing.T) {
	l := Nop()
	l.Info(context.Background(), "nothing")
	l.With("a", 1).Error(context.Background(), "still nothing")
}
