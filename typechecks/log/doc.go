// Package log defines the logging interface and typed logging fields used by
// the typechecks library.
//
// Adapters (such as the zap package) implement Logger so callers can route
// violation reports through whatever backend their application already uses.
package log
