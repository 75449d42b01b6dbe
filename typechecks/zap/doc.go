// Package zap provides a zap-backed implementation of the typechecks log.Logger
// interface.
//
// The adapter correlates log entries with OpenTelemetry traces when the context
// carries an active span, and exposes a runtime-adjustable level handle.
package zap
