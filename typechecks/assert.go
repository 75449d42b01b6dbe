package typechecks

import (
	"context"
	"fmt"
	"regexp"

	"github.com/digideskio/h2o-3/typechecks/internal/callsite"
	"github.com/digideskio/h2o-3/typechecks/log"
	"github.com/digideskio/h2o-3/typechecks/safe"
)

func init() {
	callsite.RegisterInternalFile()
}

// assertPrefix is the function-name prefix the introspector scans for when
// locating the assertion call in the caller's source.
const assertPrefix = "Assert"

// placeholderCondition substitutes for the condition expression when
// introspection cannot recover it.
const placeholderCondition = "<condition>"

// Option adjusts a single assertion call.
type Option func(*options)

type options struct {
	message    string
	skipFrames int
	ctx        context.Context
}

// WithMessage overrides the generated violation message.
func WithMessage(message string) Option {
	return func(o *options) {
		o.message = message
	}
}

// WithSkipFrames sets how many internal call layers are skipped when
// attributing the violation's origin. Wrapper functions add one for
// themselves; direct callers rarely need this.
func WithSkipFrames(skip int) Option {
	return func(o *options) {
		o.skipFrames = skip
	}
}

// WithContext attaches a context to the failure path so violations decorate
// the active OpenTelemetry span and correlate with traces. Passing a context
// has no effect on a passing assertion.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

func buildOptions(opts []Option) options {
	o := options{skipFrames: 1}
	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// AssertIsType returns nil if value satisfies spec, and a *TypeError naming
// the offending argument expression otherwise.
//
//	if err := typechecks.AssertIsType(port, typechecks.OneOf(typechecks.Integer(), typechecks.String())); err != nil {
//		return err
//	}
//
// The argument expression is recovered from the caller's source on the
// failure path only; a passing assertion never touches the filesystem. When
// the source cannot be read the error carries a placeholder name instead.
func AssertIsType(value any, spec Spec, opts ...Option) error {
	if matches(value, spec) {
		return nil
	}

	o := buildOptions(opts)
	call := capture(o.skipFrames)

	err := &TypeError{
		VarName:    argOrPlaceholder(call, 0, placeholderName),
		Value:      value,
		Expected:   spec,
		Message:    o.message,
		SkipFrames: o.skipFrames,
		File:       call.File,
		Line:       call.Line,
	}

	reportViolation(o.ctx, "AssertIsType", err,
		log.String("variable", err.VarName),
		log.String("expected", spec.String()),
	)

	return err
}

// AssertIsString returns nil if value is string-like.
func AssertIsString(value any) error {
	return AssertIsType(value, String(), WithSkipFrames(2))
}

// AssertIsInteger returns nil if value is integer-like.
func AssertIsInteger(value any) error {
	return AssertIsType(value, Integer(), WithSkipFrames(2))
}

// AssertIsBoolean returns nil if value is a bool.
func AssertIsBoolean(value any) error {
	return AssertIsType(value, Boolean(), WithSkipFrames(2))
}

// AssertIsNumeric returns nil if value is integer-like or floating-point.
func AssertIsNumeric(value any) error {
	return AssertIsType(value, Numeric(), WithSkipFrames(2))
}

// AssertIsNone returns nil if value is absent.
func AssertIsNone(value any) error {
	return AssertIsType(value, None(), WithSkipFrames(2))
}

// AssertMaybeString returns nil if value is string-like or absent.
func AssertMaybeString(value any) error {
	return AssertIsType(value, OneOf(String(), None()), WithSkipFrames(2))
}

// AssertMaybeInteger returns nil if value is integer-like or absent.
func AssertMaybeInteger(value any) error {
	return AssertIsType(value, OneOf(Integer(), None()), WithSkipFrames(2))
}

// AssertMaybeNumeric returns nil if value is numeric or absent.
func AssertMaybeNumeric(value any) error {
	return AssertIsType(value, OneOf(Numeric(), None()), WithSkipFrames(2))
}

// AssertMatches returns nil if value is a string matched by pattern at its
// start (prefix semantics, not full-string). A non-string value is a type
// violation; an uncompilable pattern is a contract violation and panics.
func AssertMatches(value any, pattern string, opts ...Option) error {
	o := buildOptions(opts)

	s, ok := asText(value)
	if !ok {
		call := capture(o.skipFrames)
		err := &TypeError{
			VarName:    argOrPlaceholder(call, 0, placeholderName),
			Value:      value,
			Expected:   String(),
			Message:    o.message,
			SkipFrames: o.skipFrames,
			File:       call.File,
			Line:       call.Line,
		}

		reportViolation(o.ctx, "AssertMatches", err, log.String("variable", err.VarName))

		return err
	}

	matched, err := safe.MatchPrefix(pattern, s)
	if err != nil {
		panic(fmt.Sprintf("typechecks: AssertMatches pattern does not compile: %v", err))
	}

	if matched {
		return nil
	}

	return failMatch(o, "AssertMatches", value, pattern)
}

// AssertMatchesRegexp is AssertMatches for a precompiled pattern. The match is
// still anchored at the start of the string.
func AssertMatchesRegexp(value any, re *regexp.Regexp, opts ...Option) error {
	if re == nil {
		panic("typechecks: AssertMatchesRegexp called with nil pattern")
	}

	o := buildOptions(opts)

	s, ok := asText(value)
	if !ok {
		call := capture(o.skipFrames)
		err := &TypeError{
			VarName:    argOrPlaceholder(call, 0, placeholderName),
			Value:      value,
			Expected:   String(),
			SkipFrames: o.skipFrames,
			File:       call.File,
			Line:       call.Line,
		}

		reportViolation(o.ctx, "AssertMatchesRegexp", err, log.String("variable", err.VarName))

		return err
	}

	if loc := re.FindStringIndex(s); loc != nil && loc[0] == 0 {
		return nil
	}

	return failMatch(o, "AssertMatchesRegexp", value, re.String())
}

func failMatch(o options, assertion string, value any, pattern string) error {
	call := capture(o.skipFrames)
	name := argOrPlaceholder(call, 0, placeholderName)

	message := o.message
	if message == "" {
		message = fmt.Sprintf("argument `%s` (= %s) did not match /%s/", name, renderValue(value), pattern)
	}

	err := &ValueError{
		Message:    message,
		VarName:    name,
		SkipFrames: o.skipFrames,
		File:       call.File,
		Line:       call.Line,
	}

	reportViolation(o.ctx, assertion, err,
		log.String("variable", name),
		log.String("pattern", pattern),
	)

	return err
}

// AssertSatisfies returns nil if cond is true. cond is the already-evaluated
// result of some predicate over value; on failure the error message embeds
// both the recovered name of value and the recovered source text of the cond
// expression itself.
//
//	if err := typechecks.AssertSatisfies(x, x > 0); err != nil {
//		return err
//	}
func AssertSatisfies(value any, cond bool, opts ...Option) error {
	if cond {
		return nil
	}

	o := buildOptions(opts)
	call := capture(o.skipFrames)

	name := argOrPlaceholder(call, 0, placeholderName)
	expr := argOrPlaceholder(call, 1, placeholderCondition)

	message := o.message
	if message == "" {
		message = fmt.Sprintf("argument `%s` (= %s) does not satisfy the condition %s", name, renderValue(value), expr)
	}

	err := &ValueError{
		Message:    message,
		VarName:    name,
		SkipFrames: o.skipFrames,
		File:       call.File,
		Line:       call.Line,
	}

	reportViolation(o.ctx, "AssertSatisfies", err,
		log.String("variable", name),
		log.String("condition", expr),
	)

	return err
}

// AssertTrue returns nil if cond is true, and a *ValueError carrying message
// otherwise. It is the introspection-free fallback: no stack walk, no source
// read.
func AssertTrue(cond bool, message string) error {
	if cond {
		return nil
	}

	err := &ValueError{Message: message, SkipFrames: 1}

	reportViolation(nil, "AssertTrue", err)

	return err
}

// capture recovers the caller's call site, degrading to a zero Call when the
// source is unavailable. Degradation is silent: the primary violation is
// never masked by a failed introspection.
func capture(skip int) callsite.Call {
	call, err := callsite.Capture(skip, assertPrefix)
	if err != nil {
		return callsite.Call{}
	}

	return call
}

// argOrPlaceholder returns the recovered expression for the i-th argument, or
// fallback when recovery degraded or produced too few arguments.
func argOrPlaceholder(call callsite.Call, i int, fallback string) string {
	if i >= len(call.Args) || call.Args[i] == "" {
		return fallback
	}

	return call.Args[i]
}

// asText extracts a string from the string-like representations IsString
// accepts.
func asText(value any) (string, bool) {
	switch tv := value.(type) {
	case string:
		return tv, true
	case []byte:
		return string(tv), true
	}

	if !IsString(value) {
		return "", false
	}

	// Named string or byte-slice types.
	return fmt.Sprintf("%s", value), true
}
