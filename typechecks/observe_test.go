//go:build unit

package typechecks

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/digideskio/h2o-3/typechecks/log"
)

// recordingLogger captures log entries for inspection.
type recordingLogger struct {
	mu      sync.Mutex
	entries []recordedEntry
}

type recordedEntry struct {
	level  log.Level
	msg    string
	fields []log.Field
}

func (l *recordingLogger) Log(_ context.Context, level log.Level, msg string, fields ...log.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, recordedEntry{level: level, msg: msg, fields: fields})
}

//nolint:ireturn
func (l *recordingLogger) With(_ ...log.Field) log.Logger { return l }

func (l *recordingLogger) Enabled(_ log.Level) bool { return true }

func (l *recordingLogger) all() []recordedEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]recordedEntry(nil), l.entries...)
}

func fieldValue(fields []log.Field, key string) any {
	for _, f := range fields {
		if f.Key == key {
			return f.Value
		}
	}

	return nil
}

func TestSetLogger_ViolationsAreLogged(t *testing.T) {
	logger := &recordingLogger{}
	SetLogger(logger)

	defer SetLogger(nil)

	badPort := "80a0"

	err := AssertIsType(badPort, Integer())
	require.Error(t, err)

	entries := logger.all()
	require.Len(t, entries, 1)
	assert.Equal(t, log.LevelError, entries[0].level)
	assert.Equal(t, err.Error(), entries[0].msg)
	assert.Equal(t, "badPort", fieldValue(entries[0].fields, "variable"))
	assert.Equal(t, "AssertIsType", fieldValue(entries[0].fields, "assertion"))
	assert.Equal(t, "integer", fieldValue(entries[0].fields, "expected"))
}

func TestSetLogger_PassingAssertionsAreSilent(t *testing.T) {
	logger := &recordingLogger{}
	SetLogger(logger)

	defer SetLogger(nil)

	require.NoError(t, AssertIsType(5, Integer()))
	require.NoError(t, AssertTrue(true, "ok"))
	require.Empty(t, logger.all())
}

func TestSetLogger_NilLoggerDisablesLogging(t *testing.T) {
	SetLogger(nil)

	require.NotPanics(t, func() {
		_ = AssertIsType("x", Integer())
	})
}

func TestWithContext_RecordsSpanEvent(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := provider.Tracer("test").Start(context.Background(), "validate-input")

	threadCount := "four"

	err := AssertIsType(threadCount, Integer(), WithContext(ctx))
	require.Error(t, err)

	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	events := ended[0].Events()
	require.Len(t, events, 2) // violation event + recorded error

	assert.Equal(t, "typecheck.violation", events[0].Name)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Status().Description, "AssertIsType")
}

func TestWithContext_PassingAssertionLeavesSpanClean(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := provider.Tracer("test").Start(context.Background(), "validate-input")

	require.NoError(t, AssertIsType(4, Integer(), WithContext(ctx)))

	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	require.Empty(t, ended[0].Events())
	require.Equal(t, codes.Unset, ended[0].Status().Code)
}

func TestReportViolation_NoSpanNoLogger_NoPanic(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		reportViolation(nil, "AssertIsType", &TypeError{Value: 1, Expected: String()})
	})
}
