package typechecks

import (
	"context"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/digideskio/h2o-3/typechecks/log"
)

const (
	// violationSpanEventName is the event name recorded on spans when an
	// assertion fails.
	violationSpanEventName = "typecheck.violation"

	// metricViolationsTotal counts failed assertions.
	metricViolationsTotal = "typecheck_violations_total"

	// scopeName identifies this library to the OpenTelemetry meter provider.
	scopeName = "github.com/digideskio/h2o-3/typechecks"
)

var (
	loggerMu  sync.RWMutex
	pkgLogger log.Logger
)

// SetLogger installs a logger for violation reports. When set, every failed
// assertion is logged at error level with structured fields before the error
// is returned to the caller. A nil logger disables logging.
//
// Introspection degradation is never logged: a missing variable name only
// affects the error's decoration, not its substance.
func SetLogger(logger log.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	pkgLogger = logger
}

func currentLogger() log.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()

	return pkgLogger
}

// reportViolation decorates the failure path: structured log entry, span
// event, and violation counter. It runs only after a violation is already
// decided, so a passing assertion pays none of this cost.
func reportViolation(ctx context.Context, assertion string, violation error, fields ...log.Field) {
	if ctx == nil {
		ctx = context.Background()
	}

	if logger := currentLogger(); logger != nil {
		logFields := append(fields, log.String("assertion", assertion))
		if stack := violationStack(); len(stack) > 0 {
			logFields = append(logFields, log.String("stack", string(stack)))
		}

		logger.Log(ctx, log.LevelError, violation.Error(), logFields...)
	}

	recordViolationMetric(ctx, assertion)
	recordViolationSpan(ctx, assertion, violation)
}

// violationStack returns a stack trace for log entries outside production.
func violationStack() []byte {
	env := strings.TrimSpace(os.Getenv("ENV"))
	goEnv := strings.TrimSpace(os.Getenv("GO_ENV"))

	if strings.EqualFold(env, "production") || strings.EqualFold(goEnv, "production") {
		return nil
	}

	return debug.Stack()
}

func recordViolationMetric(ctx context.Context, assertion string) {
	counter, err := otel.Meter(scopeName).Int64Counter(metricViolationsTotal,
		metric.WithDescription("Total number of failed type and value assertions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return
	}

	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("assertion", assertion)))
}

func recordViolationSpan(ctx context.Context, assertion string, violation error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.AddEvent(violationSpanEventName, trace.WithAttributes(
		attribute.String("assertion.name", assertion),
		attribute.String("assertion.message", violation.Error()),
	))
	span.RecordError(violation)
	span.SetStatus(codes.Error, "type check failed in "+assertion)
}
