package typechecks

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for errors.Is classification of the two violation kinds.
var (
	// ErrTypeViolation is the sentinel for failed type assertions.
	ErrTypeViolation = errors.New("type violation")

	// ErrValueViolation is the sentinel for failed value or condition assertions.
	ErrValueViolation = errors.New("value violation")
)

// placeholderName substitutes for the variable name when call-site
// introspection cannot recover the source expression.
const placeholderName = "<value>"

// TypeError reports a value whose runtime type did not satisfy the expected
// spec. VarName carries the recovered source expression of the offending
// argument, or a placeholder when introspection degraded.
type TypeError struct {
	VarName    string
	Value      any
	Expected   Spec
	Message    string
	SkipFrames int
	File       string
	Line       int
}

// Error returns the formatted type violation message. The caller-supplied
// Message, when present, replaces the generated description.
func (e *TypeError) Error() string {
	if e == nil {
		return ErrTypeViolation.Error()
	}

	if e.Message != "" {
		return "type violation: " + e.Message
	}

	name := e.VarName
	if name == "" {
		name = placeholderName
	}

	return fmt.Sprintf("type violation: argument `%s` should be %s, got %s (= %s)",
		name, e.Expected, typeName(e.Value), renderValue(e.Value))
}

// Unwrap returns the sentinel type violation error for errors.Is.
func (e *TypeError) Unwrap() error {
	return ErrTypeViolation
}

// ValueError reports a value that failed a condition or pattern check.
// Message is pre-formatted and already embeds the recovered variable name,
// the value's rendering, and the violated condition or pattern.
type ValueError struct {
	Message    string
	VarName    string
	SkipFrames int
	File       string
	Line       int
}

// Error returns the formatted value violation message.
func (e *ValueError) Error() string {
	if e == nil {
		return ErrValueViolation.Error()
	}

	return "value violation: " + e.Message
}

// Unwrap returns the sentinel value violation error for errors.Is.
func (e *ValueError) Unwrap() error {
	return ErrValueViolation
}

// maxValueLength bounds rendered values so error messages and logs stay
// readable when a large value fails a check.
const maxValueLength = 200

// renderValue formats a checked value for display, quoting strings and
// truncating anything longer than maxValueLength.
func renderValue(v any) string {
	var s string

	switch tv := v.(type) {
	case nil:
		return "nil"
	case string:
		s = strconv.Quote(tv)
	case []byte:
		s = strconv.Quote(string(tv))
	default:
		s = fmt.Sprintf("%v", v)
	}

	if len(s) <= maxValueLength {
		return s
	}

	return s[:maxValueLength] + "... (truncated " + strconv.Itoa(len(s)-maxValueLength) + " chars)"
}

// typeName renders the runtime type of v for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}

	return fmt.Sprintf("%T", v)
}
