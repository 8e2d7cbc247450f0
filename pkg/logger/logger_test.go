package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBuffer installs a global logger writing to a buffer and restores the
// previous one when the test ends.
func setupBuffer(t *testing.T, opts Options) (*logr.Logger, *bytes.Buffer) {
	t.Helper()
	origZap, origLogr := globalZapLogger, globalLogrLogger
	t.Cleanup(func() { globalZapLogger, globalLogrLogger = origZap, origLogr })
	var buf bytes.Buffer
	opts.Output = &buf
	return Setup(opts), &buf
}

func TestSetupWritesJSON(t *testing.T) {
	lg, buf := setupBuffer(t, Options{Level: 0})
	lg.Info("dataset loaded", LanguageKey, "css", "records", 3)
	lg.V(1).Info("debug line is filtered")

	out := buf.String()
	assert.Contains(t, out, `"message":"dataset loaded"`)
	assert.Contains(t, out, `"language":"css"`)
	assert.Contains(t, out, `"records":3`)
	assert.Contains(t, out, `"timestamp":`)
	assert.NotContains(t, out, "debug line is filtered")
}

func TestSetupDebugLevelAndConsoleFormat(t *testing.T) {
	lg, buf := setupBuffer(t, Options{Level: -1, Format: FormatConsole})
	lg.V(1).Info("verbose detail", SourceKey, "data")

	out := buf.String()
	assert.Contains(t, out, "verbose detail")
	assert.Contains(t, out, "DEBUG")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "console format should not be JSON")
}

func TestSetupReplacesGlobalLogger(t *testing.T) {
	first, firstBuf := setupBuffer(t, Options{})
	var second bytes.Buffer
	lg := Setup(Options{Output: &second})
	require.NotSame(t, first, lg)

	FromContext(context.Background()).Info("after replace")
	assert.Empty(t, firstBuf.String())
	assert.Contains(t, second.String(), "after replace")
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	lg, _ := setupBuffer(t, Options{})

	withLogger := WithLogger(ctx, lg)
	assert.Same(t, lg, FromContext(withLogger))
	assert.Equal(t, withLogger, WithLogger(withLogger, lg), "same logger keeps the context")

	other := logr.Discard()
	replaced := WithLogger(withLogger, &other)
	assert.Same(t, &other, FromContext(replaced))
}

func TestFromContextFallbacks(t *testing.T) {
	global, _ := setupBuffer(t, Options{})
	assert.Same(t, global, FromContext(context.Background()))

	globalLogrLogger = nil
	lg := FromContext(context.Background())
	assert.Same(t, &defaultNoopLogger, lg)
	assert.NotPanics(t, func() { lg.Info("This should do nothing") })
}

func TestSyncDoesNotPanicWhenGlobalZapLoggerIsNil(t *testing.T) {
	orig := globalZapLogger
	globalZapLogger = nil
	defer func() { globalZapLogger = orig }()

	assert.NotPanics(t, Sync)
}

func TestWithValues(t *testing.T) {
	base, buf := setupBuffer(t, Options{})
	lg := WithValues(base, RootCommandKey, "refx", SubCommandKey, "validate")
	lg.Info("hello")
	assert.Contains(t, buf.String(), `"root_command":"refx"`)
	assert.Contains(t, buf.String(), `"sub_command":"validate"`)
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(syscall.ENOTTY))
	assert.True(t, isIgnorableSyncError(errors.New("sync /dev/stderr: The handle is invalid.")))
	assert.False(t, isIgnorableSyncError(errors.New("disk full")))
}
