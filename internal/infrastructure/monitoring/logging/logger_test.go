package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	assert.Equal(t, Field{Key: "n", Value: 3}, Int("n", 3))
	assert.Equal(t, Field{Key: "f", Value: 1.5}, Float64("f", 1.5))
	assert.Equal(t, Field{Key: "b", Value: true}, Bool("b", true))
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestNewLoggerDefaults(t *testing.T) {
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	require.NotNil(t, l)
	// Must not panic with any field type.
	l.Info("hello", String("k", "v"), Int("n", 1), Any("x", struct{}{}))
}

func TestObservedFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLoggerFromCore(core)

	l.Warn("substitution applied", String("field", "square_footage"), Float64("applied", 1500))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "substitution applied", entries[0].Message)
	assert.Equal(t, "square_footage", entries[0].ContextMap()["field"])
}

func TestWithAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLoggerFromCore(core).Named("pipeline").With(String("audit_id", "a1"))

	l.Info("stage complete")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pipeline", entries[0].LoggerName)
	assert.Equal(t, "a1", entries[0].ContextMap()["audit_id"])
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	// All calls are harmless no-ops.
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")
	assert.Equal(t, l, l.With(String("k", "v")).Named("x").(nopLogger))
}

func TestDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	SetDefault(nil) // ignored
	assert.NotNil(t, Default())

	core, _ := observer.New(zapcore.InfoLevel)
	l := NewLoggerFromCore(core)
	SetDefault(l)
	assert.Equal(t, l, Default())
}
